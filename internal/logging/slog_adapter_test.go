// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSlogToZerologLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{critThreshold - 1, zerolog.ErrorLevel},
		{critThreshold, zerolog.FatalLevel},
		{critThreshold + 8, zerolog.FatalLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSlogHandler_CritLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := NewSlogHandlerWithLogger(zerolog.New(&buf))
	slogger := slog.New(handler)

	// Records at or above the crit threshold must land on zerolog's
	// fatal level without terminating the process.
	slogger.Log(context.Background(), critThreshold, "supervisor gave up")

	out := buf.String()
	if !strings.Contains(out, `"level":"fatal"`) {
		t.Errorf("output %q missing fatal level", out)
	}
	if !strings.Contains(out, "supervisor gave up") {
		t.Errorf("output %q missing message", out)
	}
}

func TestSlogHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	handler := NewSlogHandlerWithLogger(zerolog.New(&buf))
	slogger := slog.New(handler).WithGroup("restart").With(slog.String("service", "beacon"))

	slogger.Warn("service backoff", slog.Int("attempt", 3))

	out := buf.String()
	if !strings.Contains(out, `"restart.service":"beacon"`) {
		t.Errorf("output %q missing pre-configured attr", out)
	}
	if !strings.Contains(out, `"restart.attempt":3`) {
		t.Errorf("output %q missing grouped attr", out)
	}
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("output %q missing warn level", out)
	}
}
