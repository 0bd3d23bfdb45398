// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package remotesigner

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/goccy/go-json"

	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/logging"
)

// testKeyHex is a fixed secp256k1 scalar so signatures are verifiable.
const testKeyHex = "2f6b6671c5f88b4a2f9a4bcf9b5cebc4c276b6abc775629a01a9a4b0f0c3b6a1"

func writeKeyDir(t *testing.T) (string, *secp256k1.PrivateKey) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "validator-0.key"), []byte("0x"+testKeyHex+"\n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	scalar, err := hex.DecodeString(testKeyHex)
	if err != nil {
		t.Fatalf("decode test key: %v", err)
	}
	return dir, secp256k1.PrivKeyFromBytes(scalar)
}

func newTestServer(t *testing.T, cfg *config.RemoteSignerConfig) (*httptest.Server, *KeyStore) {
	t.Helper()
	dir, _ := writeKeyDir(t)
	keys, err := LoadKeys(dir)
	if err != nil {
		t.Fatalf("LoadKeys() error: %v", err)
	}
	if cfg == nil {
		cfg = &config.RemoteSignerConfig{RateLimit: 1000, RateBurst: 1000}
	}
	srv := NewServer(keys, cfg, logging.Logger())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, keys
}

func TestLoadKeys(t *testing.T) {
	dir, priv := writeKeyDir(t)

	// Non-key files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a key"), 0o600); err != nil {
		t.Fatalf("write extra file: %v", err)
	}

	keys, err := LoadKeys(dir)
	if err != nil {
		t.Fatalf("LoadKeys() error: %v", err)
	}
	if keys.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", keys.Len())
	}

	pub := hex.EncodeToString(priv.PubKey().SerializeCompressed())
	if keys.Get(pub) == nil {
		t.Error("key not addressable by compressed public key")
	}
	if keys.Get("0x"+pub) == nil {
		t.Error("key not addressable with 0x prefix")
	}
	if keys.Get("deadbeef") != nil {
		t.Error("unknown identifier returned a key")
	}
}

func TestLoadKeys_MalformedKeyFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.key"), []byte("zz not hex"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	if _, err := LoadKeys(dir); err == nil {
		t.Fatal("LoadKeys accepted a malformed key file")
	}
}

func TestServer_Upcheck(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/upcheck")
	if err != nil {
		t.Fatalf("GET /upcheck: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestServer_Keys(t *testing.T) {
	ts, keys := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/keys")
	if err != nil {
		t.Fatalf("GET /keys: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Keys []string `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Keys) != keys.Len() {
		t.Errorf("listed %d keys, want %d", len(body.Keys), keys.Len())
	}
	for _, k := range body.Keys {
		if !strings.HasPrefix(k, "0x") {
			t.Errorf("key %q not 0x-prefixed", k)
		}
	}
}

func TestServer_Sign(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	_, priv := writeKeyDir(t)
	pub := hex.EncodeToString(priv.PubKey().SerializeCompressed())

	data := []byte("block proposal bytes")
	reqBody, _ := json.Marshal(signRequest{Data: "0x" + hex.EncodeToString(data)})

	resp, err := http.Post(ts.URL+"/sign/"+pub, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		t.Fatalf("POST /sign: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body signResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	sigBytes, err := hex.DecodeString(strings.TrimPrefix(body.Signature, "0x"))
	if err != nil {
		t.Fatalf("signature not hex: %v", err)
	}
	sig, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		t.Fatalf("parse signature: %v", err)
	}
	digest := sha256.Sum256(data)
	if !sig.Verify(digest[:], priv.PubKey()) {
		t.Error("signature does not verify against the key's public key")
	}
}

func TestServer_SignErrors(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	_, priv := writeKeyDir(t)
	pub := hex.EncodeToString(priv.PubKey().SerializeCompressed())

	tests := []struct {
		name       string
		identifier string
		body       string
		wantStatus int
	}{
		{"unknown key", "0xdeadbeef", `{"data":"0x01"}`, http.StatusNotFound},
		{"malformed body", pub, `{{{`, http.StatusBadRequest},
		{"empty data", pub, `{"data":""}`, http.StatusBadRequest},
		{"non-hex data", pub, `{"data":"0xzz"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/sign/"+tt.identifier, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST /sign: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestServer_AccessToken(t *testing.T) {
	ts, _ := newTestServer(t, &config.RemoteSignerConfig{
		RateLimit:   1000,
		RateBurst:   1000,
		AccessToken: "sekrit",
	})

	// Upcheck stays open so load balancers can probe without the token.
	resp, err := http.Get(ts.URL + "/upcheck")
	if err != nil {
		t.Fatalf("GET /upcheck: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("upcheck status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/keys")
	if err != nil {
		t.Fatalf("GET /keys: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/keys", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /keys with token: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", resp.StatusCode)
	}
}

func TestServer_RateLimit(t *testing.T) {
	ts, _ := newTestServer(t, &config.RemoteSignerConfig{
		RateLimit: 1,
		RateBurst: 2,
	})

	var throttled bool
	for i := 0; i < 5; i++ {
		resp, err := http.Get(ts.URL + "/upcheck")
		if err != nil {
			t.Fatalf("GET /upcheck: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			throttled = true
		}
	}
	if !throttled {
		t.Error("no request was throttled past the burst")
	}
}
