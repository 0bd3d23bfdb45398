// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package remotesigner

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// keyFileExt is the extension of raw key files in the signer's key
// directory. The file stem is ignored; keys are addressed by their
// compressed public key.
const keyFileExt = ".key"

// KeyStore holds the signer's loaded private keys, addressed by the hex
// encoding of their compressed public key. Read-only after load.
type KeyStore struct {
	keys map[string]*secp256k1.PrivateKey
}

// LoadKeys reads every *.key file under dir. Each file holds one hex
// encoded 32-byte secp256k1 scalar, optionally 0x-prefixed, with
// surrounding whitespace ignored.
func LoadKeys(dir string) (*KeyStore, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read key directory %s: %w", dir, err)
	}

	ks := &KeyStore{keys: make(map[string]*secp256k1.PrivateKey)}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != keyFileExt {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read key file %s: %w", path, err)
		}
		priv, err := parseKey(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parse key file %s: %w", path, err)
		}
		pub := hex.EncodeToString(priv.PubKey().SerializeCompressed())
		ks.keys[pub] = priv
	}
	return ks, nil
}

// Get returns the private key for the given compressed public key hex,
// or nil if the signer does not hold it. The identifier may carry a 0x
// prefix.
func (ks *KeyStore) Get(identifier string) *secp256k1.PrivateKey {
	return ks.keys[strings.TrimPrefix(strings.ToLower(identifier), "0x")]
}

// PublicKeys lists the held keys in stable order.
func (ks *KeyStore) PublicKeys() []string {
	out := make([]string, 0, len(ks.keys))
	for pub := range ks.keys {
		out = append(out, "0x"+pub)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of held keys.
func (ks *KeyStore) Len() int { return len(ks.keys) }

func parseKey(raw string) (*secp256k1.PrivateKey, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	scalar, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("not valid hex: %w", err)
	}
	if len(scalar) != 32 {
		return nil, fmt.Errorf("expected 32 bytes, got %d", len(scalar))
	}
	return secp256k1.PrivKeyFromBytes(scalar), nil
}
