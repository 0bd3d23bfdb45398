// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

// Package runtime builds and owns the shared handles of a Pharos process:
// the task executor, the logger, the resolved network configuration and the
// shutdown signal. One Environment is constructed per invocation and its
// handles are cloned into every launched service.
//
// The Environment replaces ambient process-wide state: nothing in Pharos
// reaches for globals beyond the logging facade, everything else flows
// through the Environment passed to the mode entry points.
package runtime

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pharoslabs/pharos/internal/logging"
	"github.com/pharoslabs/pharos/internal/netcfg"
	"github.com/pharoslabs/pharos/internal/version"
)

// DefaultGracePeriod is how long stopped tasks get to observe the exit
// signal before their contexts are canceled outright.
const DefaultGracePeriod = 10 * time.Second

// EnvironmentError reports a failure to construct the shared runtime
// handles (unwritable log file, invalid debug level, double construction).
// It is always fatal and always surfaces before any service is launched.
type EnvironmentError struct {
	Op  string
	Err error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("environment: %s: %v", e.Op, e.Err)
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

// Environment is the shared runtime context handed to every launched
// service. Handles are read-mostly and safe for concurrent use; services
// coordinate only through the shutdown signal.
type Environment struct {
	executor *TaskExecutor
	logger   zerolog.Logger
	network  *netcfg.Config
	signal   *ShutdownSignal

	gracePeriod time.Duration
}

// Builder assembles an Environment. Construction happens exactly once per
// process: a Builder refuses a second Build, and the supervisor creates a
// single Builder per invocation.
type Builder struct {
	debugLevel string
	logFile    string
	logFormat  string
	network    *netcfg.Config
	built      bool
}

// NewBuilder returns a Builder with info-level console logging defaults.
func NewBuilder() *Builder {
	return &Builder{debugLevel: "info"}
}

// DebugLevel sets the minimum log level (trace, debug, info, warn, error, crit).
func (b *Builder) DebugLevel(level string) *Builder {
	b.debugLevel = level
	return b
}

// LogFile routes log output to the given file path instead of stderr.
func (b *Builder) LogFile(path string) *Builder {
	b.logFile = path
	return b
}

// LogFormat selects the structured output format (json or console).
func (b *Builder) LogFormat(format string) *Builder {
	b.logFormat = format
	return b
}

// NetworkConfig attaches the resolved network configuration.
func (b *Builder) NetworkConfig(cfg *netcfg.Config) *Builder {
	b.network = cfg
	return b
}

// Build constructs the Environment: it initializes the logger (the only
// blocking file I/O of construction), wires the shutdown signal and the
// executor, and emits the startup record naming the active network.
// All failures are EnvironmentError and abort startup.
func (b *Builder) Build() (*Environment, error) {
	if b.built {
		return nil, &EnvironmentError{Op: "build", Err: fmt.Errorf("environment already constructed for this process")}
	}
	b.built = true

	if b.network == nil {
		return nil, &EnvironmentError{Op: "build", Err: fmt.Errorf("no network configuration supplied")}
	}

	if err := logging.Init(logging.Config{
		Level:     b.debugLevel,
		Format:    b.logFormat,
		File:      b.logFile,
		Timestamp: true,
	}); err != nil {
		return nil, &EnvironmentError{Op: "init logging", Err: err}
	}

	log := logging.Logger()
	sig := NewShutdownSignal()

	env := &Environment{
		executor:    NewTaskExecutor(context.Background(), log, sig.Sender()),
		logger:      log,
		network:     b.network,
		signal:      sig,
		gracePeriod: DefaultGracePeriod,
	}

	// One startup record: process identity and the active network.
	log.Info().
		Str("version", version.String()).
		Str("network", b.network.Name()).
		Str("spec", string(b.network.Spec)).
		Msg("Pharos started")

	return env, nil
}

// Executor returns the shared task executor.
func (e *Environment) Executor() *TaskExecutor { return e.executor }

// Logger returns the shared logger handle.
func (e *Environment) Logger() zerolog.Logger { return e.logger }

// Network returns the resolved network configuration.
func (e *Environment) Network() *netcfg.Config { return e.network }

// ShutdownSender returns a producer handle for the shutdown signal.
func (e *Environment) ShutdownSender() ShutdownSender { return e.signal.Sender() }

// BlockUntilShutdown suspends the calling goroutine until either an OS
// interrupt arrives or a launched service reports a reason. The two
// triggers are merged through the single-slot signal, so exactly one
// reason is returned no matter how many producers fire concurrently.
//
// The interrupt path guarantees liveness: even a run whose service never
// reports can always be terminated from the outside.
func (e *Environment) BlockUntilShutdown() ShutdownReason {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		// If a service beat the interrupt, its reason stays authoritative.
		e.signal.TrySend(Success(sig.String()))
		return <-e.signal.Done()
	case reason := <-e.signal.Done():
		return reason
	}
}

// FireExitSignal broadcasts the cooperative exit signal to all outstanding
// background work.
func (e *Environment) FireExitSignal() {
	e.executor.Stop(e.gracePeriod)
}

// ShutdownOnIdle blocks until all launched work has observed the exit
// signal and finished. It must be called after FireExitSignal.
func (e *Environment) ShutdownOnIdle() {
	if err := e.executor.Wait(); err != nil {
		e.logger.Warn().Err(err).Msg("Background work reported errors during drain")
	}
}
