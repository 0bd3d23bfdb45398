// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package accounts

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tyler-smith/go-bip39"

	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/netcfg"
	"github.com/pharoslabs/pharos/internal/runtime"
)

const testMnemonic = "legal winner thank year wave sausage worth useful legal winner thank yellow"

func newTestEnvironment(t *testing.T) *runtime.Environment {
	t.Helper()
	network, err := netcfg.Resolve(netcfg.Options{})
	if err != nil {
		t.Fatalf("resolve default network: %v", err)
	}
	env, err := runtime.NewBuilder().
		DebugLevel("error").
		NetworkConfig(network).
		Build()
	if err != nil {
		t.Fatalf("build environment: %v", err)
	}
	return env
}

func TestRun_RestoreWritesKeystores(t *testing.T) {
	env := newTestEnvironment(t)
	dir := t.TempDir()

	cfg := &config.AccountConfig{
		Action:   "restore",
		KeyDir:   dir,
		Mnemonic: testMnemonic,
		Count:    2,
		Password: "pw",
	}
	if err := Run(env, cfg); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	keystores, err := readKeystores(dir)
	if err != nil {
		t.Fatalf("readKeystores() error: %v", err)
	}
	if len(keystores) != 2 {
		t.Fatalf("wrote %d keystores, want 2", len(keystores))
	}

	// The same mnemonic reproduces the same keys.
	seed := bip39.NewSeed(testMnemonic, "")
	wantFirst := deriveKey(seed, 0)
	for _, ks := range keystores {
		priv, err := DecryptKey(ks, "pw")
		if err != nil {
			t.Fatalf("DecryptKey() error: %v", err)
		}
		if bytes.Equal(priv.Serialize(), wantFirst.Serialize()) {
			return
		}
	}
	t.Error("no keystore matches the first derived key")
}

func TestRun_RestoreInvalidMnemonic(t *testing.T) {
	err := Run(nil, &config.AccountConfig{
		Action:   "restore",
		KeyDir:   t.TempDir(),
		Mnemonic: "definitely not a recovery phrase",
		Password: "pw",
	})
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *config.ValidationError", err)
	}
	if verr.Field != "account.mnemonic" {
		t.Errorf("Field = %q, want account.mnemonic", verr.Field)
	}
}

func TestRun_RequiresPassword(t *testing.T) {
	env := newTestEnvironment(t)
	err := Run(env, &config.AccountConfig{
		Action:   "restore",
		KeyDir:   t.TempDir(),
		Mnemonic: testMnemonic,
	})
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *config.ValidationError", err)
	}
	if verr.Field != "account.password" {
		t.Errorf("Field = %q, want account.password", verr.Field)
	}
}

func TestRun_ListMissingDir(t *testing.T) {
	err := Run(nil, &config.AccountConfig{
		Action: "list",
		KeyDir: "/nonexistent/pharos-keys",
	})
	if err == nil {
		t.Fatal("Run() accepted a missing key directory")
	}
}
