// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package netcfg

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pharoslabs/pharos/internal/config"
)

// customDirConfigFile is the network definition inside a custom directory.
const customDirConfigFile = "config.yaml"

// customDirBootNodesFile optionally overrides the boot nodes of a custom
// directory definition.
const customDirBootNodesFile = "boot_nodes.yaml"

// Options selects the source of the network configuration. Exactly one of
// {Preset, CustomDir, override files} may be populated; none at all means
// the hard-coded default preset.
type Options struct {
	Preset    string
	CustomDir string

	ChainConfigFile  string
	BootNodesFile    string
	GenesisStateFile string

	DepositDeployBlock    uint64
	DepositDeployBlockSet bool
}

// OptionsFromConfig extracts the network-source fields of a resolved
// process configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Preset:                cfg.Network,
		CustomDir:             cfg.TestnetDir,
		ChainConfigFile:       cfg.ChainConfigFile,
		BootNodesFile:         cfg.BootNodesFile,
		GenesisStateFile:      cfg.GenesisStateFile,
		DepositDeployBlock:    cfg.DepositDeployBlock,
		DepositDeployBlockSet: cfg.DepositDeployBlockSet,
	}
}

// overrides reports whether any override file is populated.
func (o Options) overrides() bool {
	return o.ChainConfigFile != "" || o.BootNodesFile != "" || o.GenesisStateFile != "" || o.DepositDeployBlockSet
}

// Resolve produces the network configuration from exactly one source and
// checks the resulting spec variant against the compiled-in capability
// table. Every failure here is fatal and happens before the runtime
// environment exists.
func Resolve(opts Options) (*Config, error) {
	sources := 0
	if opts.Preset != "" {
		sources++
	}
	if opts.CustomDir != "" {
		sources++
	}
	if opts.overrides() {
		sources++
	}
	if sources > 1 {
		return nil, &config.ValidationError{
			Field:   "network",
			Message: "named preset, custom directory and override files are mutually exclusive",
		}
	}

	var (
		cfg *Config
		err error
	)
	switch {
	case opts.Preset != "":
		cfg, err = resolvePreset(opts.Preset)
	case opts.CustomDir != "":
		cfg, err = resolveCustomDir(opts.CustomDir)
	case opts.overrides():
		cfg, err = resolveOverrides(opts)
	default:
		cfg, err = resolvePreset(DefaultPreset)
	}
	if err != nil {
		return nil, err
	}

	if !Supported(cfg.Spec) {
		return nil, &CapabilityError{Variant: cfg.Spec}
	}
	return cfg, nil
}

func resolvePreset(name string) (*Config, error) {
	nf, err := loadPreset(name)
	if err != nil {
		return nil, &config.ValidationError{Field: "network", Message: err.Error()}
	}
	return fromNetworkFile(nf, name)
}

func resolveCustomDir(dir string) (*Config, error) {
	raw, err := os.ReadFile(filepath.Join(dir, customDirConfigFile))
	if err != nil {
		return nil, &config.ValidationError{
			Field:   "testnet_dir",
			Message: fmt.Sprintf("read %s: %v", customDirConfigFile, err),
		}
	}
	var nf networkFile
	if err := yaml.Unmarshal(raw, &nf); err != nil {
		return nil, &config.ValidationError{
			Field:   "testnet_dir",
			Message: fmt.Sprintf("parse %s: %v", customDirConfigFile, err),
		}
	}

	// boot_nodes.yaml beside config.yaml overrides the inline list.
	bnPath := filepath.Join(dir, customDirBootNodesFile)
	if _, statErr := os.Stat(bnPath); statErr == nil {
		nodes, bnErr := readBootNodesFile(bnPath)
		if bnErr != nil {
			return nil, &config.ValidationError{Field: "testnet_dir", Message: bnErr.Error()}
		}
		nf.BootNodes = nodes
	}

	return fromNetworkFile(&nf, fmt.Sprintf("custom (%s)", dir))
}

func resolveOverrides(opts Options) (*Config, error) {
	// The chain config file anchors the override set; the companion
	// values depend on it and on each other.
	if opts.ChainConfigFile == "" {
		return nil, &config.ValidationError{
			Field:   "chain_config_file",
			Message: "required when supplying custom boot nodes, genesis state or deposit deploy block",
		}
	}
	if opts.BootNodesFile != "" && !opts.DepositDeployBlockSet {
		return nil, &config.ValidationError{
			Field:   "boot_nodes_file",
			Message: "requires --deposit-deploy-block",
		}
	}
	if opts.GenesisStateFile != "" && !opts.DepositDeployBlockSet {
		return nil, &config.ValidationError{
			Field:   "genesis_state_file",
			Message: "requires --deposit-deploy-block",
		}
	}

	raw, err := os.ReadFile(opts.ChainConfigFile)
	if err != nil {
		return nil, &config.ValidationError{
			Field:   "chain_config_file",
			Message: fmt.Sprintf("read %s: %v", opts.ChainConfigFile, err),
		}
	}
	var nf networkFile
	if err := yaml.Unmarshal(raw, &nf); err != nil {
		return nil, &config.ValidationError{
			Field:   "chain_config_file",
			Message: fmt.Sprintf("parse %s: %v", opts.ChainConfigFile, err),
		}
	}

	if opts.BootNodesFile != "" {
		nodes, bnErr := readBootNodesFile(opts.BootNodesFile)
		if bnErr != nil {
			return nil, &config.ValidationError{Field: "boot_nodes_file", Message: bnErr.Error()}
		}
		nf.BootNodes = nodes
	}
	if opts.DepositDeployBlockSet {
		nf.DepositContract.DeployBlock = opts.DepositDeployBlock
	}
	if opts.GenesisStateFile != "" {
		root, gsErr := stateRootOfFile(opts.GenesisStateFile)
		if gsErr != nil {
			return nil, &config.ValidationError{Field: "genesis_state_file", Message: gsErr.Error()}
		}
		nf.Genesis.StateRoot = root
	}

	return fromNetworkFile(&nf, fmt.Sprintf("custom loaded from %s", opts.ChainConfigFile))
}

// fromNetworkFile validates the parsed definition and freezes it into a
// Config.
func fromNetworkFile(nf *networkFile, name string) (*Config, error) {
	variant, err := ParseSpecVariant(nf.Spec)
	if err != nil {
		return nil, &config.ValidationError{Field: "spec", Message: err.Error()}
	}
	if nf.Genesis.SlotDuration == 0 {
		return nil, &config.ValidationError{Field: "genesis.slot_duration", Message: "must be positive"}
	}
	return &Config{
		name:            name,
		Spec:            variant,
		BootNodes:       append([]string(nil), nf.BootNodes...),
		Genesis:         nf.Genesis,
		DepositContract: nf.DepositContract,
	}, nil
}

// readBootNodesFile parses a YAML list of boot node records.
func readBootNodesFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boot nodes %s: %v", path, err)
	}
	var nodes []string
	if err := yaml.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("parse boot nodes %s: %v", path, err)
	}
	return nodes, nil
}

// stateRootOfFile digests a genesis state file into its root reference.
func stateRootOfFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read genesis state %s: %v", path, err)
	}
	sum := sha256.Sum256(raw)
	return "0x" + hex.EncodeToString(sum[:]), nil
}
