// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

// Package remotesigner implements the signing service: a small HTTP API
// that signs digests with secp256k1 keys held on this host, so validator
// keys never live on the machine running the validator client.
package remotesigner

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"vawter.tech/stopper"

	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/metrics"
	"github.com/pharoslabs/pharos/internal/runtime"
)

// Server is the remote signer's HTTP front end.
type Server struct {
	keys        *KeyStore
	limiter     *rate.Limiter
	accessToken string
	log         zerolog.Logger
}

// NewServer wires the signing handlers around the loaded key store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewServer(keys *KeyStore, cfg *config.RemoteSignerConfig, log zerolog.Logger) *Server {
	return &Server{
		keys:        keys,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		accessToken: cfg.AccessToken,
		log:         log.With().Str("service", "remote-signer").Logger(),
	}
}

// Run starts the signing service and blocks until the exit signal fires.
// Bind and key loading failures are returned synchronously so the
// launcher reports them as the shutdown reason.
func Run(sctx *stopper.Context, env *runtime.Environment, cfg *config.RemoteSignerConfig) error {
	log := env.Logger()

	keys, err := LoadKeys(cfg.KeyDir)
	if err != nil {
		return fmt.Errorf("load signing keys: %w", err)
	}
	if keys.Len() == 0 {
		log.Warn().Str("key_dir", cfg.KeyDir).Msg("No signing keys loaded")
	}

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind signer api on %s: %w", addr, err)
	}

	srv := NewServer(keys, cfg, log)
	httpServer := &http.Server{
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Timeout,
		WriteTimeout:      cfg.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if serveErr := httpServer.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
		close(errCh)
	}()

	srv.log.Info().Str("addr", addr).Int("keys", keys.Len()).Msg("Remote signer running")

	select {
	case err = <-errCh:
		return err
	case <-sctx.Stopping():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			return fmt.Errorf("signer shutdown: %w", shutdownErr)
		}
		<-errCh
		srv.log.Info().Msg("Remote signer stopped")
		return nil
	}
}

// Router builds the chi routing tree for the signer API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.rateLimit)

	r.Get("/upcheck", s.handleUpcheck)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/keys", s.handleKeys)
		r.Post("/sign/{identifier}", s.handleSign)
	})

	return r
}

// rateLimit rejects requests past the configured sustained rate.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate enforces the bearer token when one is configured.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.accessToken != "" {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(s.accessToken)) != 1 {
				s.writeError(w, http.StatusUnauthorized, "invalid access token")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleUpcheck(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleKeys(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"keys": s.keys.PublicKeys()})
}

type signRequest struct {
	Data string `json:"data"`
}

type signResponse struct {
	Signature string `json:"signature"`
}

// handleSign signs the SHA-256 digest of the posted data with the key
// named in the URL.
func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	priv := s.keys.Get(identifier)
	if priv == nil {
		metrics.SignerRequests.WithLabelValues("unknown_key").Inc()
		s.writeError(w, http.StatusNotFound, "key not found: "+identifier)
		return
	}

	var req signRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.SignerRequests.WithLabelValues("bad_request").Inc()
		s.writeError(w, http.StatusBadRequest, "malformed sign request")
		return
	}
	data, err := hex.DecodeString(strings.TrimPrefix(req.Data, "0x"))
	if err != nil || len(data) == 0 {
		metrics.SignerRequests.WithLabelValues("bad_request").Inc()
		s.writeError(w, http.StatusBadRequest, "data must be non-empty hex")
		return
	}

	digest := sha256.Sum256(data)
	sig := ecdsa.Sign(priv, digest[:])

	metrics.SignerRequests.WithLabelValues("ok").Inc()
	s.log.Debug().Str("key", identifier).Msg("Signed digest")
	s.writeJSON(w, http.StatusOK, signResponse{
		Signature: "0x" + hex.EncodeToString(sig.Serialize()),
	})
}

type errorResponse struct {
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Message: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}
