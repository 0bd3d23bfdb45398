// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package supervisor

import (
	"errors"
	"strings"
	"testing"

	"github.com/pharoslabs/pharos/internal/config"
)

func TestSelectMode(t *testing.T) {
	tests := []struct {
		subcommand string
		want       OperatingMode
		wantErr    string
	}{
		{"beacon", ModeBeacon, ""},
		{"validator", ModeValidator, ""},
		{"remote-signer", ModeRemoteSigner, ""},
		{"account", ModeAccount, ""},
		{"boot-node", ModeBootNode, ""},
		{"", ModeUnknown, "no subcommand supplied"},
		{"archive", ModeUnknown, `unknown subcommand "archive"`},
	}

	for _, tt := range tests {
		name := tt.subcommand
		if name == "" {
			name = "none"
		}
		t.Run(name, func(t *testing.T) {
			cfg := &config.Config{Subcommand: tt.subcommand}
			got, err := SelectMode(cfg)
			if got != tt.want {
				t.Errorf("SelectMode() = %v, want %v", got, tt.want)
			}
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var verr *config.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error type = %T, want *config.ValidationError", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSelectMode_Deterministic(t *testing.T) {
	cfg := &config.Config{Subcommand: "beacon", ImmediateShutdown: true}
	for i := 0; i < 3; i++ {
		got, err := SelectMode(cfg)
		if err != nil || got != ModeBeacon {
			t.Fatalf("iteration %d: SelectMode() = %v, %v", i, got, err)
		}
	}
}

func TestOperatingMode_String(t *testing.T) {
	tests := []struct {
		mode OperatingMode
		want string
	}{
		{ModeBeacon, "beacon"},
		{ModeValidator, "validator"},
		{ModeRemoteSigner, "remote-signer"},
		{ModeAccount, "account"},
		{ModeBootNode, "boot-node"},
		{ModeUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", int(tt.mode), got, tt.want)
		}
	}
}

func TestOperatingMode_Synchronous(t *testing.T) {
	for _, mode := range []OperatingMode{ModeBeacon, ModeValidator, ModeRemoteSigner} {
		if mode.Synchronous() {
			t.Errorf("%v reports synchronous", mode)
		}
	}
	for _, mode := range []OperatingMode{ModeAccount, ModeBootNode} {
		if !mode.Synchronous() {
			t.Errorf("%v does not report synchronous", mode)
		}
	}
}
