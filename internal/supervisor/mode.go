// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package supervisor

import (
	"fmt"

	"github.com/pharoslabs/pharos/internal/config"
)

// OperatingMode is the mutually exclusive top-level task of one Pharos
// invocation. Exactly one mode is active per process; selection happens
// once, before any service starts.
type OperatingMode int

const (
	// ModeUnknown is the zero value; it never launches.
	ModeUnknown OperatingMode = iota

	// ModeBeacon runs the network-serving beacon node daemon.
	ModeBeacon

	// ModeValidator runs the signing/validation client.
	ModeValidator

	// ModeRemoteSigner runs the remote-signing service.
	ModeRemoteSigner

	// ModeAccount runs the one-shot account management utility.
	// Synchronous: runs to completion on the calling goroutine and never
	// enters the supervised-shutdown path.
	ModeAccount

	// ModeBootNode runs the lightweight discovery helper. Synchronous and
	// circumvents the runtime environment entirely.
	ModeBootNode
)

// String returns the mode's CLI-facing name.
func (m OperatingMode) String() string {
	switch m {
	case ModeBeacon:
		return "beacon"
	case ModeValidator:
		return "validator"
	case ModeRemoteSigner:
		return "remote-signer"
	case ModeAccount:
		return "account"
	case ModeBootNode:
		return "boot-node"
	default:
		return "unknown"
	}
}

// Synchronous reports whether the mode runs to completion on the calling
// goroutine instead of being launched as supervised background work.
func (m OperatingMode) Synchronous() bool {
	return m == ModeAccount || m == ModeBootNode
}

// SelectMode maps the resolved configuration to exactly one OperatingMode.
// Pure: no side effects, deterministic. Zero mode-selecting inputs is a
// configuration error; more than one cannot happen because subcommands are
// mutually exclusive by construction in the CLI layer.
//
// The immediate-shutdown flag does not participate in selection; the
// launcher consults it later.
func SelectMode(cfg *config.Config) (OperatingMode, error) {
	switch cfg.Subcommand {
	case "beacon":
		return ModeBeacon, nil
	case "validator":
		return ModeValidator, nil
	case "remote-signer":
		return ModeRemoteSigner, nil
	case "account":
		return ModeAccount, nil
	case "boot-node":
		return ModeBootNode, nil
	case "":
		return ModeUnknown, &config.ValidationError{
			Field:   "subcommand",
			Message: "no subcommand supplied, see --help",
		}
	default:
		return ModeUnknown, &config.ValidationError{
			Field:   "subcommand",
			Message: fmt.Sprintf("unknown subcommand %q", cfg.Subcommand),
		}
	}
}
