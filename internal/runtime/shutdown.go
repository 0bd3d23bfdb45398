// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package runtime

import (
	"fmt"
	"sync/atomic"
)

// ShutdownReason is the terminal cause of a process run. Exactly one reason
// is ever accepted per run; it decides the process exit status.
type ShutdownReason struct {
	failure bool
	message string
}

// Success builds a reason that maps to exit status 0.
func Success(message string) ShutdownReason {
	return ShutdownReason{failure: false, message: message}
}

// Failure builds a reason that maps to exit status 1. The message is the
// user-visible error written to stderr.
func Failure(message string) ShutdownReason {
	return ShutdownReason{failure: true, message: message}
}

// Failed reports whether the reason represents a failure.
func (r ShutdownReason) Failed() bool { return r.failure }

// Message returns the human-readable cause.
func (r ShutdownReason) Message() string { return r.message }

// String renders the reason as Success(msg) or Failure(msg).
func (r ShutdownReason) String() string {
	if r.failure {
		return fmt.Sprintf("Failure(%s)", r.message)
	}
	return fmt.Sprintf("Success(%s)", r.message)
}

// ShutdownSignal is a single-slot, multi-producer/single-consumer signal
// carrying the first ShutdownReason of a process run.
//
// The first-wins invariant is enforced with a compare-and-set guard in
// front of a one-element channel: the producer that flips the guard owns
// the slot, every later TrySend is silently dropped. The consumer reads
// the slot exactly once via Done.
type ShutdownSignal struct {
	accepted atomic.Bool
	ch       chan ShutdownReason
}

// NewShutdownSignal creates an empty signal.
func NewShutdownSignal() *ShutdownSignal {
	return &ShutdownSignal{ch: make(chan ShutdownReason, 1)}
}

// TrySend offers a reason to the slot. It returns true if the reason was
// accepted as the authoritative cause of termination, false if another
// reason won the race earlier. TrySend never blocks.
func (s *ShutdownSignal) TrySend(reason ShutdownReason) bool {
	if !s.accepted.CompareAndSwap(false, true) {
		return false
	}
	s.ch <- reason
	return true
}

// Done returns the channel on which the single accepted reason is
// delivered. The channel never carries more than one value.
func (s *ShutdownSignal) Done() <-chan ShutdownReason {
	return s.ch
}

// Sender returns a producer handle for this signal. Handles are cheap and
// safe to clone into every launched service.
func (s *ShutdownSignal) Sender() ShutdownSender {
	return ShutdownSender{sig: s}
}

// ShutdownSender is the producer half of a ShutdownSignal. The zero value
// is inert: TrySend on it reports false and does nothing, which lets tests
// construct services without wiring a full signal.
type ShutdownSender struct {
	sig *ShutdownSignal
}

// TrySend offers a reason to the underlying signal, if any.
func (s ShutdownSender) TrySend(reason ShutdownReason) bool {
	if s.sig == nil {
		return false
	}
	return s.sig.TrySend(reason)
}
