// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package supervisor

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/pharoslabs/pharos/internal/config"
)

// dumpModeConfig serializes the resolved configuration of the selected
// mode to the dump path before launch. Diagnostic only: failures abort
// startup so a broken dump path is noticed, but the dump itself is never
// read back by the process.
func dumpModeConfig(cfg *config.Config, mode OperatingMode) error {
	var section any
	switch mode {
	case ModeBeacon:
		section = cfg.Beacon
	case ModeValidator:
		section = cfg.Validator
	case ModeRemoteSigner:
		section = cfg.RemoteSigner
	default:
		section = cfg
	}

	f, err := os.Create(cfg.DumpConfigPath)
	if err != nil {
		return fmt.Errorf("failed to create dumped config: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(section); err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}
	return nil
}
