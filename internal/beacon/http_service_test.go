// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package beacon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockHTTPServer is a test double for the HTTPServer interface.
type mockHTTPServer struct {
	serveErr      error
	serveBlock    bool
	shutdownErr   error
	serveCount    atomic.Int32
	shutdownCount atomic.Int32
	stopCh        chan struct{}
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{stopCh: make(chan struct{})}
}

func (m *mockHTTPServer) Serve(net.Listener) error {
	m.serveCount.Add(1)
	if m.serveErr != nil {
		return m.serveErr
	}
	if m.serveBlock {
		<-m.stopCh
		return http.ErrServerClosed
	}
	return nil
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdownCount.Add(1)
	close(m.stopCh)
	return m.shutdownErr
}

func TestHTTPServerService_Interface(t *testing.T) {
	var _ suture.Service = (*HTTPServerService)(nil)
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	svc := NewHTTPServerService(newMockHTTPServer(), nil, 0)
	if svc.shutdownTimeout != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %v", svc.shutdownTimeout)
	}
	svc = NewHTTPServerService(newMockHTTPServer(), nil, -time.Second)
	if svc.shutdownTimeout != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %v", svc.shutdownTimeout)
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Run("shuts down gracefully on context cancellation", func(t *testing.T) {
		server := newMockHTTPServer()
		server.serveBlock = true
		svc := NewHTTPServerService(server, nil, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- svc.Serve(ctx)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after cancel")
		}
		if server.shutdownCount.Load() != 1 {
			t.Errorf("Shutdown called %d times, want 1", server.shutdownCount.Load())
		}
	})

	t.Run("reports server failure", func(t *testing.T) {
		server := newMockHTTPServer()
		server.serveErr = errors.New("address already in use")
		svc := NewHTTPServerService(server, nil, time.Second)

		err := svc.Serve(context.Background())
		if err == nil || !errors.Is(err, server.serveErr) {
			t.Errorf("Serve() = %v, want wrapped serve error", err)
		}
	})

	t.Run("converts ErrServerClosed to nil", func(t *testing.T) {
		server := newMockHTTPServer()
		server.serveErr = http.ErrServerClosed
		svc := NewHTTPServerService(server, nil, time.Second)

		// ErrServerClosed is swallowed in the serve goroutine, so the
		// channel closes with no error.
		if err := svc.Serve(context.Background()); err != nil {
			t.Errorf("Serve() = %v, want nil", err)
		}
	})

	t.Run("reports shutdown failure", func(t *testing.T) {
		server := newMockHTTPServer()
		server.serveBlock = true
		server.shutdownErr = errors.New("connections still draining")
		svc := NewHTTPServerService(server, nil, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- svc.Serve(ctx)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if err == nil || !errors.Is(err, server.shutdownErr) {
				t.Errorf("Serve() = %v, want wrapped shutdown error", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after cancel")
		}
	})
}

func TestHTTPServerService_String(t *testing.T) {
	svc := NewHTTPServerService(newMockHTTPServer(), nil, time.Second)
	if svc.String() != "http-api" {
		t.Errorf("String() = %q, want %q", svc.String(), "http-api")
	}
}
