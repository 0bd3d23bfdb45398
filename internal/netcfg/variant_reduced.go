// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

//go:build reduced

package netcfg

// reducedSupported is true when the reduced parameter set is compiled in.
const reducedSupported = true
