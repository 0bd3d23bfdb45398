// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package main

import (
	"github.com/spf13/cobra"

	"github.com/pharoslabs/pharos/internal/supervisor"
)

func newRemoteSignerCommand() *cobra.Command {
	var (
		host        string
		port        int
		keyDir      string
		accessToken string
		rateLimit   float64
	)

	cmd := &cobra.Command{
		Use:   "remote-signer",
		Short: "Run the remote signing service",
		Long:  "Run the remote signing service: a small HTTP API that signs digests with\nkeys held on this host, so validator keys never leave it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadedConfig
			cfg.Subcommand = "remote-signer"
			set := cmd.Flags().Changed
			if set("host") {
				cfg.RemoteSigner.Host = host
			}
			if set("port") {
				cfg.RemoteSigner.Port = port
			}
			if set("key-dir") {
				cfg.RemoteSigner.KeyDir = keyDir
			}
			if set("access-token") {
				cfg.RemoteSigner.AccessToken = accessToken
			}
			if set("rate-limit") {
				cfg.RemoteSigner.RateLimit = rateLimit
			}
			return supervisor.Run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&host, "host", "127.0.0.1", "listen address of the signer API")
	f.IntVar(&port, "port", 9000, "listen port of the signer API")
	f.StringVar(&keyDir, "key-dir", "", "directory holding raw signing key files")
	f.StringVar(&accessToken, "access-token", "", "bearer token required on signing requests")
	f.Float64Var(&rateLimit, "rate-limit", 100, "sustained requests per second before throttling")

	return cmd
}
