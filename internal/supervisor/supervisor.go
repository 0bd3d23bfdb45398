// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

// Package supervisor is the process-lifecycle core of Pharos. It selects
// the operating mode from resolved configuration, builds the shared
// runtime environment, launches the mode as supervised background work and
// coordinates a single race-free shutdown.
//
// The lifecycle is a straight line: Initializing (resolve, select, build)
// -> Running (blocked on the merged shutdown triggers) -> ShuttingDown
// (broadcast the exit signal, drain) -> Terminated (map the accepted
// reason to an exit status). Synchronous modes skip from Initializing to
// Terminated without touching the shutdown channel.
package supervisor

import (
	"errors"
	"math/bits"

	"github.com/pharoslabs/pharos/internal/accounts"
	"github.com/pharoslabs/pharos/internal/bootnode"
	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/metrics"
	"github.com/pharoslabs/pharos/internal/netcfg"
	"github.com/pharoslabs/pharos/internal/runtime"
)

// Run drives one Pharos invocation from resolved configuration to
// completion. A nil return maps to exit status 0; a non-nil error is
// written to stderr by the caller and maps to exit status 1.
//
// Post-launch failures never surface here directly: they are funneled
// through the shutdown signal so that exactly one coordinated shutdown
// happens no matter which concurrent component failed.
func Run(cfg *config.Config) error {
	if bits.UintSize != 64 {
		return errors.New("32-bit architecture is not supported (64-bit only)")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	mode, err := SelectMode(cfg)
	if err != nil {
		return err
	}

	network, err := netcfg.Resolve(netcfg.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	// The boot node circumvents the environment: it runs synchronously
	// with its own logger, using only the debug level.
	if mode == ModeBootNode {
		return bootnode.Run(cfg, network)
	}

	env, err := runtime.NewBuilder().
		DebugLevel(cfg.DebugLevel).
		LogFile(cfg.LogFile).
		LogFormat(cfg.LogFormat).
		NetworkConfig(network).
		Build()
	if err != nil {
		return err
	}
	log := env.Logger()

	metrics.ExposeProcessStartTime(log)

	if cfg.DeprecatedSpec != "" {
		log.Warn().Msg("The --spec flag is deprecated and will be removed in a future release")
	}

	// The account manager gets full ownership of the environment so it
	// may run blocking or async suboperations; the process exits as soon
	// as it returns control.
	if mode == ModeAccount {
		log.Info().Str("network", network.Name()).Msg("Running account manager")
		return accounts.Run(env, &cfg.Account)
	}

	if cfg.DumpConfigPath != "" {
		if err := dumpModeConfig(cfg, mode); err != nil {
			return err
		}
	}

	if err := launch(mode, env, cfg); err != nil {
		return err
	}

	// Running: suspend until an interrupt or the first reported reason.
	reason := env.BlockUntilShutdown()
	log.Info().Stringer("reason", reason).Msg("Shutting down..")

	// ShuttingDown: broadcast the exit signal, then wait for all
	// outstanding work to observe it and finish.
	env.FireExitSignal()
	env.ShutdownOnIdle()

	metrics.RecordShutdown(reason.Failed())

	if reason.Failed() {
		return errors.New(reason.Message())
	}
	return nil
}
