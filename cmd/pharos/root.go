// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package main

import (
	"github.com/spf13/cobra"

	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/supervisor"
	"github.com/pharoslabs/pharos/internal/version"
)

// rootFlags holds the values of the global flags. They are applied on
// top of the layered configuration only when the operator actually set
// them, so file and environment values survive unless overridden.
type rootFlags struct {
	network            string
	testnetDir         string
	chainConfigFile    string
	bootNodesFile      string
	genesisStateFile   string
	depositDeployBlock uint64
	debugLevel         string
	logFile            string
	logFormat          string
	dataDir            string
	dumpConfig         string
	immediateShutdown  bool
	deprecatedSpec     string
}

// loadedConfig is the resolved configuration shared by all subcommands.
// Filled by the root PersistentPreRunE before any RunE executes.
var loadedConfig *config.Config

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "pharos",
		Short:         "Proof-of-Stake network client",
		Long:          "Pharos is a Proof-of-Stake network client. One binary serves every role:\nbeacon node, validator client, remote signer, account manager and boot node.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyRootFlags(cmd, flags, cfg)
			loadedConfig = cfg
			return nil
		},
		// Invoking the bare binary is a configuration error, not help:
		// the selector reports the missing subcommand on stderr and the
		// process exits non-zero.
		RunE: func(_ *cobra.Command, _ []string) error {
			return supervisor.Run(loadedConfig)
		},
	}
	root.SetVersionTemplate(version.Long() + "\n")

	pf := root.PersistentFlags()
	pf.StringVar(&flags.network, "network", "", "name of the network to join (see 'pharos networks')")
	pf.StringVar(&flags.testnetDir, "testnet-dir", "", "directory containing a custom network definition")
	pf.StringVar(&flags.chainConfigFile, "chain-config-file", "", "YAML file with custom chain parameters")
	pf.StringVar(&flags.bootNodesFile, "boot-nodes-file", "", "YAML file with custom boot node records")
	pf.StringVar(&flags.genesisStateFile, "genesis-state-file", "", "file with a custom genesis state")
	pf.Uint64Var(&flags.depositDeployBlock, "deposit-deploy-block", 0, "block height the deposit contract was deployed at")
	pf.StringVar(&flags.debugLevel, "debug-level", "", "minimum log level (trace, debug, info, warn, error, crit)")
	pf.StringVar(&flags.logFile, "logfile", "", "write logs to this file instead of stderr")
	pf.StringVar(&flags.logFormat, "log-format", "", "log output format (json, console)")
	pf.StringVar(&flags.dataDir, "datadir", "", "root directory for chain and key data")
	pf.StringVar(&flags.dumpConfig, "dump-config", "", "write the resolved configuration to this path before starting")
	pf.BoolVar(&flags.immediateShutdown, "immediate-shutdown", false, "shut down cleanly right after startup, for health checks")
	pf.StringVar(&flags.deprecatedSpec, "spec", "", "deprecated, the spec variant now comes from the network configuration")
	_ = pf.MarkHidden("spec")

	root.AddCommand(
		newBeaconCommand(),
		newValidatorCommand(),
		newRemoteSignerCommand(),
		newAccountCommand(),
		newBootNodeCommand(),
		newNetworksCommand(),
	)

	return root
}

// applyRootFlags overlays explicitly-set global flags onto cfg.
func applyRootFlags(cmd *cobra.Command, flags *rootFlags, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("network") {
		cfg.Network = flags.network
	}
	if set("testnet-dir") {
		cfg.TestnetDir = flags.testnetDir
	}
	if set("chain-config-file") {
		cfg.ChainConfigFile = flags.chainConfigFile
	}
	if set("boot-nodes-file") {
		cfg.BootNodesFile = flags.bootNodesFile
	}
	if set("genesis-state-file") {
		cfg.GenesisStateFile = flags.genesisStateFile
	}
	if set("deposit-deploy-block") {
		cfg.DepositDeployBlock = flags.depositDeployBlock
		cfg.DepositDeployBlockSet = true
	}
	if set("debug-level") {
		cfg.DebugLevel = flags.debugLevel
	}
	if set("logfile") {
		cfg.LogFile = flags.logFile
	}
	if set("log-format") {
		cfg.LogFormat = flags.logFormat
	}
	if set("datadir") {
		cfg.DataDir = flags.dataDir
	}
	if set("dump-config") {
		cfg.DumpConfigPath = flags.dumpConfig
	}
	if set("immediate-shutdown") {
		cfg.ImmediateShutdown = flags.immediateShutdown
	}
	if set("spec") {
		cfg.DeprecatedSpec = flags.deprecatedSpec
	}
}
