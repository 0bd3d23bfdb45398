// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

// Package accounts implements wallet management: mnemonic generation and
// recovery, deterministic key derivation and encrypted keystores on disk.
// All operations run synchronously inside the main invocation; nothing
// here spawns background work.
package accounts

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/goccy/go-json"
	"github.com/tyler-smith/go-bip39"

	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/runtime"
)

// mnemonicEntropyBits yields a 24-word mnemonic.
const mnemonicEntropyBits = 256

// Run dispatches the requested account action. Output meant for the
// operator (the fresh mnemonic, key listings) goes to stdout; progress
// goes through the environment's logger.
func Run(env *runtime.Environment, cfg *config.AccountConfig) error {
	switch cfg.Action {
	case "new":
		return runNew(env, cfg)
	case "restore":
		return runRestore(env, cfg)
	case "list":
		return runList(cfg)
	default:
		return &config.ValidationError{
			Field:   "account.action",
			Message: fmt.Sprintf("unknown account action %q, expected new, restore or list", cfg.Action),
		}
	}
}

// runNew generates a fresh mnemonic, derives the requested keys and
// writes their keystores. The mnemonic is printed exactly once and never
// stored.
func runNew(env *runtime.Environment, cfg *config.AccountConfig) error {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return fmt.Errorf("generate mnemonic: %w", err)
	}

	if err := writeDerivedKeys(env, cfg, mnemonic); err != nil {
		return err
	}

	fmt.Println("Write down the recovery phrase below. It is shown only once and is the only way to restore these keys.")
	fmt.Println()
	fmt.Println(mnemonic)
	return nil
}

// runRestore rebuilds keystores from a supplied mnemonic.
func runRestore(env *runtime.Environment, cfg *config.AccountConfig) error {
	if !bip39.IsMnemonicValid(cfg.Mnemonic) {
		return &config.ValidationError{
			Field:   "account.mnemonic",
			Message: "not a valid recovery phrase",
		}
	}
	return writeDerivedKeys(env, cfg, cfg.Mnemonic)
}

// runList prints the public keys of every keystore in the key directory.
func runList(cfg *config.AccountConfig) error {
	keystores, err := readKeystores(cfg.KeyDir)
	if err != nil {
		return err
	}
	pubs := make([]string, 0, len(keystores))
	for _, ks := range keystores {
		pubs = append(pubs, "0x"+ks.PubKey)
	}
	sort.Strings(pubs)
	for _, pub := range pubs {
		fmt.Println(pub)
	}
	return nil
}

// writeDerivedKeys derives cfg.Count keys from the mnemonic and stores
// each as an encrypted keystore named after its public key.
func writeDerivedKeys(env *runtime.Environment, cfg *config.AccountConfig, mnemonic string) error {
	log := env.Logger()
	count := cfg.Count
	if count <= 0 {
		count = 1
	}
	if cfg.Password == "" {
		return &config.ValidationError{
			Field:   "account.password",
			Message: "a keystore password is required",
		}
	}
	if err := os.MkdirAll(cfg.KeyDir, 0o700); err != nil {
		return fmt.Errorf("create key directory %s: %w", cfg.KeyDir, err)
	}

	seed := bip39.NewSeed(mnemonic, "")
	for i := 0; i < count; i++ {
		priv := deriveKey(seed, uint32(i))
		ks, err := EncryptKey(priv, cfg.Password)
		if err != nil {
			return fmt.Errorf("encrypt key %d: %w", i, err)
		}
		path := filepath.Join(cfg.KeyDir, ks.PubKey+".json")
		data, err := json.MarshalIndent(ks, "", "  ")
		if err != nil {
			return fmt.Errorf("encode keystore %d: %w", i, err)
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("write keystore %s: %w", path, err)
		}
		log.Info().Int("index", i).Str("pubkey", "0x"+ks.PubKey).Msg("Keystore written")
	}
	return nil
}

// deriveKey maps (seed, index) to a secp256k1 key. The derivation is a
// plain hash chain over the seed and the big-endian index, so the same
// mnemonic always reproduces the same keys in order.
func deriveKey(seed []byte, index uint32) *secp256k1.PrivateKey {
	h := sha256.New()
	h.Write(seed)
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index)
	h.Write(idx[:])
	return secp256k1.PrivKeyFromBytes(h.Sum(nil))
}

// readKeystores loads every *.json keystore under dir.
func readKeystores(dir string) ([]*Keystore, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read key directory %s: %w", dir, err)
	}
	var out []*Keystore
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read keystore %s: %w", path, err)
		}
		var ks Keystore
		if err := json.Unmarshal(data, &ks); err != nil {
			return nil, fmt.Errorf("decode keystore %s: %w", path, err)
		}
		out = append(out, &ks)
	}
	return out, nil
}
