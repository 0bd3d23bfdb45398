// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package main

import (
	"github.com/spf13/cobra"

	"github.com/pharoslabs/pharos/internal/supervisor"
)

func newValidatorCommand() *cobra.Command {
	var (
		beaconURL       string
		remoteSignerURL string
		keyDir          string
		graffiti        string
	)

	cmd := &cobra.Command{
		Use:   "validator",
		Short: "Run the validator client",
		Long:  "Run the validator client: attaches to a beacon node, optionally delegates\nsigning to a remote signer and performs duties on the slot schedule.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadedConfig
			cfg.Subcommand = "validator"
			set := cmd.Flags().Changed
			if set("beacon-url") {
				cfg.Validator.BeaconURL = beaconURL
			}
			if set("remote-signer-url") {
				cfg.Validator.RemoteSignerURL = remoteSignerURL
			}
			if set("key-dir") {
				cfg.Validator.KeyDir = keyDir
			}
			if set("graffiti") {
				cfg.Validator.Graffiti = graffiti
			}
			return supervisor.Run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&beaconURL, "beacon-url", "http://127.0.0.1:5052", "beacon node API to attach to")
	f.StringVar(&remoteSignerURL, "remote-signer-url", "", "delegate signing to the remote signer at this URL")
	f.StringVar(&keyDir, "key-dir", "", "directory holding validator keystores")
	f.StringVar(&graffiti, "graffiti", "", "string included in proposed blocks")

	return cmd
}
