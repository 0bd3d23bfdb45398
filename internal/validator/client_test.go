// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package validator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vawter.tech/stopper"

	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/netcfg"
	"github.com/pharoslabs/pharos/internal/runtime"
)

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

func newFakeBeacon(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/pharos/v1/node/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestRun_UnreachableBeacon(t *testing.T) {
	env := newTestEnvironment(t)
	sctx := stopper.WithContext(context.Background())

	err := Run(sctx, env, &config.ValidatorConfig{
		BeaconURL: "http://127.0.0.1:1", // nothing listens on port 1
	})
	if err == nil {
		t.Fatal("Run() connected to a dead beacon node")
	}
	if !strings.Contains(err.Error(), "unable to connect to beacon node at") {
		t.Errorf("error %q does not name the beacon node", err.Error())
	}
}

func TestRun_UnreachableSigner(t *testing.T) {
	env := newTestEnvironment(t)
	beacon := newFakeBeacon(t)
	sctx := stopper.WithContext(context.Background())

	signerURL := "http://127.0.0.1:1"
	err := Run(sctx, env, &config.ValidatorConfig{
		BeaconURL:       beacon.URL,
		RemoteSignerURL: signerURL,
	})
	if err == nil {
		t.Fatal("Run() connected to a dead signer")
	}
	if !strings.Contains(err.Error(), "unable to connect to signer at "+signerURL) {
		t.Errorf("error %q does not name the signer", err.Error())
	}
}

func TestRun_StopsOnExitSignal(t *testing.T) {
	env := newTestEnvironment(t)
	beacon := newFakeBeacon(t)
	sctx := stopper.WithContext(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(sctx, env, &config.ValidatorConfig{BeaconURL: beacon.URL})
	}()

	// Let the startup probes finish, then fire the exit signal.
	time.Sleep(50 * time.Millisecond)
	sctx.Stop(time.Second)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil on cooperative stop", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after the exit signal")
	}
}

func TestProbe_RejectsNon2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)

	client := &http.Client{Timeout: time.Second}
	if err := probe(context.Background(), client, ts.URL); err == nil {
		t.Error("probe accepted a 503 response")
	}
}
