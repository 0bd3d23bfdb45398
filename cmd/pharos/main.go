// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

// Command pharos is the Proof-of-Stake network client. One binary serves
// every role: beacon node, validator client, remote signer, account
// manager and boot node, selected by subcommand.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
