// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pharoslabs/pharos/internal/netcfg"
	"github.com/pharoslabs/pharos/internal/supervisor"
)

func newBootNodeCommand() *cobra.Command {
	var (
		listenAddress string
		port          int
	)

	cmd := &cobra.Command{
		Use:   "boot-node",
		Short: "Run the standalone discovery responder",
		Long:  "Run the standalone discovery responder: answers discovery requests with\nthe network's boot node records and nothing else.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadedConfig
			cfg.Subcommand = "boot-node"
			set := cmd.Flags().Changed
			if set("listen-address") {
				cfg.BootNode.ListenAddress = listenAddress
			}
			if set("port") {
				cfg.BootNode.Port = port
			}
			return supervisor.Run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&listenAddress, "listen-address", "0.0.0.0", "address to listen for discovery requests on")
	f.IntVar(&port, "port", 4242, "UDP port to listen for discovery requests on")

	return cmd
}

// newNetworksCommand lists the presets compiled into this binary.
func newNetworksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List the built-in network presets",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, name := range netcfg.Presets() {
				fmt.Println(name)
			}
			return nil
		},
	}
}
