// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

// Package config holds the resolved, validated configuration of a Pharos
// invocation. The CLI layer fills a Config from flags; koanf layers
// defaults, an optional YAML file and PHAROS_* environment variables
// underneath. A Config is immutable once handed to the supervisor and safe
// for concurrent reads.
package config

import (
	"fmt"
	"time"
)

// Config is the full resolved configuration of one Pharos invocation.
//
// Subcommand selects the operating mode; exactly one of the mode sections
// is consulted per run. The network-source fields (Network, TestnetDir and
// the override files) are mutually exclusive; the netcfg resolver enforces
// that before any service starts.
type Config struct {
	// Subcommand is the invoked CLI subcommand (beacon, validator,
	// remote-signer, account, boot-node). Set by the CLI layer only.
	Subcommand string `koanf:"-" json:"-"`

	DebugLevel string `koanf:"debug_level" json:"debug_level"`
	LogFile    string `koanf:"log_file" json:"log_file"`
	LogFormat  string `koanf:"log_format" json:"log_format"`
	DataDir    string `koanf:"data_dir" json:"data_dir"`

	// Network selects a named preset. Conflicts with TestnetDir and the
	// override files.
	Network string `koanf:"network" json:"network"`

	// TestnetDir points at a directory with a custom network definition.
	TestnetDir string `koanf:"testnet_dir" json:"testnet_dir"`

	// Override files assemble a custom network from individual pieces.
	// ChainConfigFile carries the spec and genesis parameters,
	// BootNodesFile the initial peers, GenesisStateFile the genesis state.
	ChainConfigFile  string `koanf:"chain_config_file" json:"chain_config_file"`
	BootNodesFile    string `koanf:"boot_nodes_file" json:"boot_nodes_file"`
	GenesisStateFile string `koanf:"genesis_state_file" json:"genesis_state_file"`

	// DepositDeployBlock is the chain height the deposit contract was
	// deployed at; required alongside ChainConfigFile.
	DepositDeployBlock    uint64 `koanf:"deposit_deploy_block" json:"deposit_deploy_block"`
	DepositDeployBlockSet bool   `koanf:"-" json:"-"`

	// DumpConfigPath, when non-empty, serializes the resolved mode
	// configuration to this path before launch. Diagnostic only.
	DumpConfigPath string `koanf:"dump_config" json:"-"`

	// ImmediateShutdown reports startup health without running the real
	// workload: the launcher sends Success instead of starting the mode.
	ImmediateShutdown bool `koanf:"immediate_shutdown" json:"-"`

	// DeprecatedSpec carries the value of the deprecated --spec flag.
	// Accepted with a warning; the spec variant is derived from the
	// network configuration instead.
	DeprecatedSpec string `koanf:"-" json:"-"`

	Beacon       BeaconConfig       `koanf:"beacon" json:"beacon"`
	Validator    ValidatorConfig    `koanf:"validator" json:"validator"`
	RemoteSigner RemoteSignerConfig `koanf:"remote_signer" json:"remote_signer"`
	Account      AccountConfig      `koanf:"account" json:"account"`
	BootNode     BootNodeConfig     `koanf:"boot_node" json:"boot_node"`
}

// BeaconConfig configures the network-serving daemon mode.
type BeaconConfig struct {
	HTTPHost       string        `koanf:"http_host" json:"http_host"`
	HTTPPort       int           `koanf:"http_port" json:"http_port"`
	HTTPTimeout    time.Duration `koanf:"http_timeout" json:"http_timeout"`
	MetricsEnabled bool          `koanf:"metrics_enabled" json:"metrics_enabled"`
	TargetPeers    int           `koanf:"target_peers" json:"target_peers"`
}

// ValidatorConfig configures the signing/validation client mode.
type ValidatorConfig struct {
	// BeaconURL is the beacon node API the client attaches to.
	BeaconURL string `koanf:"beacon_url" json:"beacon_url"`

	// RemoteSignerURL, when set, delegates signing to a remote signer;
	// the client refuses to start if the signer is unreachable.
	RemoteSignerURL string `koanf:"remote_signer_url" json:"remote_signer_url"`

	KeyDir   string `koanf:"key_dir" json:"key_dir"`
	Graffiti string `koanf:"graffiti" json:"graffiti"`
}

// RemoteSignerConfig configures the remote-signing service mode.
type RemoteSignerConfig struct {
	Host        string        `koanf:"host" json:"host"`
	Port        int           `koanf:"port" json:"port"`
	Timeout     time.Duration `koanf:"timeout" json:"timeout"`
	KeyDir      string        `koanf:"key_dir" json:"key_dir"`
	RateLimit   float64       `koanf:"rate_limit" json:"rate_limit"`
	RateBurst   int           `koanf:"rate_burst" json:"rate_burst"`
	AccessToken string        `koanf:"access_token" json:"-"`
}

// AccountConfig configures the one-shot management utility mode.
type AccountConfig struct {
	// Action is the management operation: new, restore or list.
	Action string `koanf:"-" json:"action"`

	KeyDir   string `koanf:"key_dir" json:"key_dir"`
	Mnemonic string `koanf:"-" json:"-"`
	Count    int    `koanf:"count" json:"count"`
	Password string `koanf:"-" json:"-"`
}

// BootNodeConfig configures the lightweight discovery helper mode.
type BootNodeConfig struct {
	ListenAddress string `koanf:"listen_address" json:"listen_address"`
	Port          int    `koanf:"port" json:"port"`
}

// ValidationError reports bad or contradictory configuration inputs. It is
// detected before any service starts and is always fatal.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// Validate checks the cross-cutting fields of the configuration. The
// network-source mutual exclusion is deliberately left to the netcfg
// resolver so the rule lives next to the resolution logic.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validatePorts(); err != nil {
		return err
	}
	if c.DepositDeployBlockSet && c.ChainConfigFile == "" {
		return &ValidationError{
			Field:   "deposit_deploy_block",
			Message: "requires a chain config file (--chain-config-file)",
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.DebugLevel {
	case "", "trace", "debug", "info", "warn", "error", "crit":
	default:
		return &ValidationError{
			Field:   "debug_level",
			Message: fmt.Sprintf("unknown level %q (expected trace, debug, info, warn, error or crit)", c.DebugLevel),
		}
	}
	switch c.LogFormat {
	case "", "json", "console":
	default:
		return &ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf("unknown format %q (expected json or console)", c.LogFormat),
		}
	}
	return nil
}

func (c *Config) validatePorts() error {
	for _, p := range []struct {
		field string
		port  int
	}{
		{"beacon.http_port", c.Beacon.HTTPPort},
		{"remote_signer.port", c.RemoteSigner.Port},
		{"boot_node.port", c.BootNode.Port},
	} {
		if p.port < 0 || p.port > 65535 {
			return &ValidationError{
				Field:   p.field,
				Message: fmt.Sprintf("port %d out of range", p.port),
			}
		}
	}
	return nil
}
