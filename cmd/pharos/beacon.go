// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package main

import (
	"github.com/spf13/cobra"

	"github.com/pharoslabs/pharos/internal/supervisor"
)

func newBeaconCommand() *cobra.Command {
	var (
		httpHost    string
		httpPort    int
		targetPeers int
		noMetrics   bool
	)

	cmd := &cobra.Command{
		Use:   "beacon",
		Short: "Run the beacon node",
		Long:  "Run the beacon node: the network-serving daemon that follows the chain,\nmaintains peer connections and serves the HTTP API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadedConfig
			cfg.Subcommand = "beacon"
			set := cmd.Flags().Changed
			if set("http-host") {
				cfg.Beacon.HTTPHost = httpHost
			}
			if set("http-port") {
				cfg.Beacon.HTTPPort = httpPort
			}
			if set("target-peers") {
				cfg.Beacon.TargetPeers = targetPeers
			}
			if set("disable-metrics") {
				cfg.Beacon.MetricsEnabled = !noMetrics
			}
			return supervisor.Run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&httpHost, "http-host", "127.0.0.1", "listen address of the HTTP API")
	f.IntVar(&httpPort, "http-port", 5052, "listen port of the HTTP API")
	f.IntVar(&targetPeers, "target-peers", 50, "desired number of connected peers")
	f.BoolVar(&noMetrics, "disable-metrics", false, "do not expose the /metrics endpoint")

	return cmd
}
