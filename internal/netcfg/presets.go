// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package netcfg

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPreset is the network used when no source is given at all.
const DefaultPreset = "mainnet"

//go:embed presets/*.yaml
var presetFS embed.FS

// networkFile is the on-disk (and embedded) shape of a network
// definition. The same schema serves presets, custom directories and the
// chain-config override file.
type networkFile struct {
	Spec            string          `yaml:"spec"`
	BootNodes       []string        `yaml:"boot_nodes"`
	Genesis         Genesis         `yaml:"genesis"`
	DepositContract DepositContract `yaml:"deposit_contract"`
}

// Presets lists the names of the compiled-in networks, sorted.
func Presets() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		// The directory is embedded at build time; absence is a
		// programming error.
		panic(fmt.Sprintf("netcfg: embedded presets unreadable: %v", err))
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// loadPreset parses the embedded definition of a named network.
func loadPreset(name string) (*networkFile, error) {
	raw, err := presetFS.ReadFile("presets/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown network %q (available: %s)", name, strings.Join(Presets(), ", "))
	}
	var nf networkFile
	if err := yaml.Unmarshal(raw, &nf); err != nil {
		return nil, fmt.Errorf("parse embedded network %q: %w", name, err)
	}
	return &nf, nil
}
