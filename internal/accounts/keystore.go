// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package accounts

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/scrypt"
)

// Scrypt parameters for keystore encryption. N is deliberately high so
// brute forcing a stolen keystore is expensive.
const (
	scryptN = 1 << 18
	scryptR = 8
	scryptP = 1
)

const keystoreVersion = 1

// ErrWrongPassword is returned when a keystore's MAC does not verify
// under the derived key.
var ErrWrongPassword = errors.New("wrong password or corrupted keystore")

// Keystore is the on-disk envelope of one encrypted validator key.
type Keystore struct {
	Version int            `json:"version"`
	ID      string         `json:"id"`
	PubKey  string         `json:"pubkey"`
	Crypto  keystoreCrypto `json:"crypto"`
}

type keystoreCrypto struct {
	KDF        string `json:"kdf"`
	Salt       string `json:"salt"`
	N          int    `json:"n"`
	R          int    `json:"r"`
	P          int    `json:"p"`
	Cipher     string `json:"cipher"`
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
	MAC        string `json:"mac"`
}

// EncryptKey seals a private key under password. The derived key splits
// in half: the first 16 bytes feed AES-128-CTR, the second 16 feed the
// HMAC that authenticates the ciphertext.
func EncryptKey(priv *secp256k1.PrivateKey, password string) (*Keystore, error) {
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}

	derived, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	block, err := aes.NewCipher(derived[:16])
	if err != nil {
		return nil, err
	}
	secret := priv.Serialize()
	ciphertext := make([]byte, len(secret))
	cipher.NewCTR(block, iv).XORKeyStream(ciphertext, secret)

	mac := hmac.New(sha256.New, derived[16:])
	mac.Write(ciphertext)

	return &Keystore{
		Version: keystoreVersion,
		ID:      uuid.NewString(),
		PubKey:  hex.EncodeToString(priv.PubKey().SerializeCompressed()),
		Crypto: keystoreCrypto{
			KDF:        "scrypt",
			Salt:       hex.EncodeToString(salt),
			N:          scryptN,
			R:          scryptR,
			P:          scryptP,
			Cipher:     "aes-128-ctr",
			IV:         hex.EncodeToString(iv),
			Ciphertext: hex.EncodeToString(ciphertext),
			MAC:        hex.EncodeToString(mac.Sum(nil)),
		},
	}, nil
}

// DecryptKey opens a keystore with password. A MAC mismatch yields
// ErrWrongPassword without distinguishing a bad password from tampering.
func DecryptKey(ks *Keystore, password string) (*secp256k1.PrivateKey, error) {
	if ks.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", ks.Version)
	}
	if ks.Crypto.KDF != "scrypt" || ks.Crypto.Cipher != "aes-128-ctr" {
		return nil, fmt.Errorf("unsupported keystore scheme %s/%s", ks.Crypto.KDF, ks.Crypto.Cipher)
	}

	salt, err := hex.DecodeString(ks.Crypto.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	iv, err := hex.DecodeString(ks.Crypto.IV)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	ciphertext, err := hex.DecodeString(ks.Crypto.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	wantMAC, err := hex.DecodeString(ks.Crypto.MAC)
	if err != nil {
		return nil, fmt.Errorf("decode mac: %w", err)
	}

	derived, err := scrypt.Key([]byte(password), salt, ks.Crypto.N, ks.Crypto.R, ks.Crypto.P, 32)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	mac := hmac.New(sha256.New, derived[16:])
	mac.Write(ciphertext)
	if !hmac.Equal(mac.Sum(nil), wantMAC) {
		return nil, ErrWrongPassword
	}

	block, err := aes.NewCipher(derived[:16])
	if err != nil {
		return nil, err
	}
	secret := make([]byte, len(ciphertext))
	cipher.NewCTR(block, iv).XORKeyStream(secret, ciphertext)

	return secp256k1.PrivKeyFromBytes(secret), nil
}
