// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package main

import (
	"github.com/spf13/cobra"

	"github.com/pharoslabs/pharos/internal/supervisor"
)

func newAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage validator keys",
		Long:  "Manage validator keys: generate or restore a recovery phrase and maintain\nthe encrypted keystores derived from it.",
	}

	cmd.AddCommand(
		newAccountNewCommand(),
		newAccountRestoreCommand(),
		newAccountListCommand(),
	)

	return cmd
}

func newAccountNewCommand() *cobra.Command {
	var (
		keyDir   string
		count    int
		password string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a fresh recovery phrase and derive keystores",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := loadedConfig
			cfg.Subcommand = "account"
			cfg.Account.Action = "new"
			cfg.Account.KeyDir = keyDir
			cfg.Account.Count = count
			cfg.Account.Password = password
			return supervisor.Run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&keyDir, "key-dir", "", "directory to write keystores into")
	f.IntVar(&count, "count", 1, "number of keys to derive")
	f.StringVar(&password, "password", "", "password protecting the keystores")
	_ = cmd.MarkFlagRequired("key-dir")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAccountRestoreCommand() *cobra.Command {
	var (
		keyDir   string
		count    int
		password string
		mnemonic string
	)

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Rebuild keystores from an existing recovery phrase",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := loadedConfig
			cfg.Subcommand = "account"
			cfg.Account.Action = "restore"
			cfg.Account.KeyDir = keyDir
			cfg.Account.Count = count
			cfg.Account.Password = password
			cfg.Account.Mnemonic = mnemonic
			return supervisor.Run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&keyDir, "key-dir", "", "directory to write keystores into")
	f.IntVar(&count, "count", 1, "number of keys to derive")
	f.StringVar(&password, "password", "", "password protecting the keystores")
	f.StringVar(&mnemonic, "mnemonic", "", "the recovery phrase to restore from")
	_ = cmd.MarkFlagRequired("key-dir")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("mnemonic")

	return cmd
}

func newAccountListCommand() *cobra.Command {
	var keyDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the public keys of the stored keystores",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := loadedConfig
			cfg.Subcommand = "account"
			cfg.Account.Action = "list"
			cfg.Account.KeyDir = keyDir
			return supervisor.Run(cfg)
		},
	}

	cmd.Flags().StringVar(&keyDir, "key-dir", "", "directory holding keystores")
	_ = cmd.MarkFlagRequired("key-dir")

	return cmd
}
