// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

//go:build legacy

package netcfg

// legacySupported is true when the legacy parameter set is compiled in.
const legacySupported = true
