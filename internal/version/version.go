// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

// Package version carries the build identity reported in logs, the CLI
// version output and the beacon API.
package version

import (
	"fmt"
	"strings"

	"github.com/pharoslabs/pharos/internal/netcfg"
)

// Version is the semantic version of this build. Release tooling rewrites
// it with -ldflags at link time.
var Version = "0.4.2"

// cryptoBackend names the signing implementation compiled into this build.
const cryptoBackend = "secp256k1-decred"

// String returns the short client identity, e.g. "Pharos/v0.4.2".
func String() string {
	return fmt.Sprintf("Pharos/v%s", Version)
}

// Long returns the multi-line version output: client identity, crypto
// backend and the compiled-in spec variants.
func Long() string {
	return fmt.Sprintf(
		"%s\nCrypto backend: %s\nSpecs: %s",
		String(), cryptoBackend, strings.Join(netcfg.SupportedVariants(), ", "),
	)
}
