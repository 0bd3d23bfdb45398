// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package supervisor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/netcfg"
)

// immediateConfig returns a runnable configuration that reports startup
// health and exits without starting the real workload.
func immediateConfig(subcommand string) *config.Config {
	return &config.Config{
		Subcommand:        subcommand,
		DebugLevel:        "error",
		ImmediateShutdown: true,
		Beacon:            config.BeaconConfig{HTTPPort: 5052},
		RemoteSigner:      config.RemoteSignerConfig{Port: 9000},
		BootNode:          config.BootNodeConfig{Port: 4242},
	}
}

func TestRun_ImmediateShutdownExitsZero(t *testing.T) {
	for _, subcommand := range []string{"beacon", "validator", "remote-signer"} {
		t.Run(subcommand, func(t *testing.T) {
			if err := Run(immediateConfig(subcommand)); err != nil {
				t.Errorf("Run() = %v, want nil", err)
			}
		})
	}
}

func TestRun_NoSubcommand(t *testing.T) {
	err := Run(immediateConfig(""))
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *config.ValidationError", err)
	}
	if !strings.Contains(err.Error(), "no subcommand supplied") {
		t.Errorf("error %q does not mention the missing subcommand", err.Error())
	}
}

func TestRun_InvalidConfiguration(t *testing.T) {
	cfg := immediateConfig("beacon")
	cfg.DebugLevel = "verbose"
	if err := Run(cfg); err == nil {
		t.Fatal("Run() accepted an invalid debug level")
	}
}

func TestRun_ConflictingNetworkSources(t *testing.T) {
	cfg := immediateConfig("beacon")
	cfg.Network = "mainnet"
	cfg.TestnetDir = t.TempDir()

	err := Run(cfg)
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("Run() = %v, want the mutual-exclusion error", err)
	}
}

func TestRun_UnsupportedSpecVariant(t *testing.T) {
	if netcfg.Supported(netcfg.SpecReduced) {
		t.Skip("reduced variant compiled in")
	}
	cfg := immediateConfig("beacon")
	cfg.Network = "minos"

	err := Run(cfg)
	var cerr *netcfg.CapabilityError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want *netcfg.CapabilityError", err)
	}
}

func TestRun_DumpConfig(t *testing.T) {
	cfg := immediateConfig("beacon")
	cfg.Beacon.TargetPeers = 42
	cfg.DumpConfigPath = filepath.Join(t.TempDir(), "dump.json")

	if err := Run(cfg); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	raw, err := os.ReadFile(cfg.DumpConfigPath)
	if err != nil {
		t.Fatalf("read dumped config: %v", err)
	}
	var dumped config.BeaconConfig
	if err := json.Unmarshal(raw, &dumped); err != nil {
		t.Fatalf("decode dumped config: %v", err)
	}
	if dumped.TargetPeers != 42 {
		t.Errorf("dumped TargetPeers = %d, want 42", dumped.TargetPeers)
	}
}

func TestRun_DumpConfigBadPath(t *testing.T) {
	cfg := immediateConfig("beacon")
	cfg.DumpConfigPath = filepath.Join(t.TempDir(), "no", "such", "dir", "dump.json")

	if err := Run(cfg); err == nil {
		t.Fatal("Run() accepted an unwritable dump path")
	}
}
