// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package supervisor

import (
	"fmt"

	"github.com/rs/zerolog"
	"vawter.tech/stopper"

	"github.com/pharoslabs/pharos/internal/beacon"
	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/remotesigner"
	"github.com/pharoslabs/pharos/internal/runtime"
	"github.com/pharoslabs/pharos/internal/validator"
)

// serviceEntry is a mode's asynchronous entry point. It receives the
// stopper context of its task and reports success or a descriptive
// failure.
type serviceEntry func(ctx *stopper.Context) error

// launch starts the asynchronous entry point of the selected mode as
// background work bound to the environment. Synchronous modes never reach
// this point.
func launch(mode OperatingMode, env *runtime.Environment, cfg *config.Config) error {
	switch mode {
	case ModeBeacon:
		launchService(env, "beacon node", cfg.ImmediateShutdown, func(ctx *stopper.Context) error {
			return beacon.Run(ctx, env, &cfg.Beacon)
		})
	case ModeValidator:
		launchService(env, "validator client", cfg.ImmediateShutdown, func(ctx *stopper.Context) error {
			return validator.Run(ctx, env, &cfg.Validator)
		})
	case ModeRemoteSigner:
		launchService(env, "remote signer", cfg.ImmediateShutdown, func(ctx *stopper.Context) error {
			return remotesigner.Run(ctx, env, &cfg.RemoteSigner)
		})
	default:
		return &config.ValidationError{
			Field:   "subcommand",
			Message: fmt.Sprintf("mode %s cannot be launched as a service", mode),
		}
	}
	return nil
}

// launchService wires one entry point into the executor and the shutdown
// signal.
//
// With the immediate-shutdown flag the service's business logic never
// runs: a Success reason is reported straight away, which verifies
// startup health without the real workload. Otherwise the entry point is
// spawned as tracked work; an error from it becomes the Failure reason
// (first reason wins), while a clean return emits nothing and the process
// keeps running until another trigger fires.
func launchService(env *runtime.Environment, name string, immediateShutdown bool, entry serviceEntry) {
	sender := env.ShutdownSender()
	log := env.Logger()

	if immediateShutdown {
		log.Info().Str("service", name).Msg("Immediate shutdown triggered")
		sender.TrySend(runtime.Success(fmt.Sprintf("%s immediate shutdown triggered", name)))
		return
	}

	env.Executor().Spawn(name, func(ctx *stopper.Context) error {
		if err := entry(ctx); err != nil {
			log.WithLevel(zerolog.FatalLevel).Err(err).Str("service", name).Msg("Service failed")
			sender.TrySend(runtime.Failure(fmt.Sprintf("failed to start %s: %v", name, err)))
		}
		return nil
	})
}
