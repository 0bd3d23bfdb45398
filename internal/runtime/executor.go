// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package runtime

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"vawter.tech/stopper"
)

// TaskExecutor schedules background work for an environment. It wraps a
// stopper.Context so that every spawned task is tracked, receives the
// broadcast exit signal cooperatively, and is waited on during drain.
//
// Cancellation is cooperative: Stop only closes the Stopping channel and
// cancels the underlying context after the grace period; tasks are expected
// to observe it and wind down voluntarily. The executor never kills work.
type TaskExecutor struct {
	sctx     *stopper.Context
	log      zerolog.Logger
	shutdown ShutdownSender
}

// NewTaskExecutor creates an executor rooted at ctx. Tasks spawned from it
// are released when Stop is called or ctx is canceled.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTaskExecutor(ctx context.Context, log zerolog.Logger, shutdown ShutdownSender) *TaskExecutor {
	return &TaskExecutor{
		sctx:     stopper.WithContext(ctx),
		log:      log,
		shutdown: shutdown,
	}
}

// Spawn runs fn as tracked background work. A non-nil error from fn is
// logged and otherwise ignored; use SpawnCritical for work whose failure
// must take the process down.
func (e *TaskExecutor) Spawn(name string, fn func(ctx *stopper.Context) error) {
	e.sctx.Go(func(sctx *stopper.Context) error {
		if err := fn(sctx); err != nil {
			e.log.Error().Err(err).Str("task", name).Msg("Background task failed")
		}
		return nil
	})
}

// SpawnCritical runs fn as tracked background work and reports a Failure
// shutdown reason if fn returns an error. The first reported reason wins;
// failures after another reason was already accepted are only logged.
func (e *TaskExecutor) SpawnCritical(name string, fn func(ctx *stopper.Context) error) {
	e.sctx.Go(func(sctx *stopper.Context) error {
		if err := fn(sctx); err != nil {
			e.log.WithLevel(zerolog.FatalLevel).Err(err).Str("task", name).Msg("Critical task failed")
			e.shutdown.TrySend(Failure(err.Error()))
		}
		return nil
	})
}

// ShutdownSender returns the producer handle tasks use to report a
// terminal reason.
func (e *TaskExecutor) ShutdownSender() ShutdownSender {
	return e.shutdown
}

// Stopping returns a channel closed when the exit signal has been fired.
func (e *TaskExecutor) Stopping() <-chan struct{} {
	return e.sctx.Stopping()
}

// IsStopping reports whether the exit signal has been fired.
func (e *TaskExecutor) IsStopping() bool {
	return e.sctx.IsStopping()
}

// Context returns the stopper context tasks should derive work from.
// It implements context.Context.
func (e *TaskExecutor) Context() *stopper.Context {
	return e.sctx
}

// Stop broadcasts the cooperative exit signal. Tasks get gracePeriod to
// observe it before the underlying context is canceled outright.
func (e *TaskExecutor) Stop(gracePeriod time.Duration) {
	e.sctx.Stop(gracePeriod)
}

// Wait blocks until every spawned task has returned.
func (e *TaskExecutor) Wait() error {
	return e.sctx.Wait()
}
