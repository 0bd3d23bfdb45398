// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package beacon

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/pharoslabs/pharos/internal/metrics"
	"github.com/pharoslabs/pharos/internal/netcfg"
	"github.com/pharoslabs/pharos/internal/version"
)

// APIServer serves the beacon node's HTTP API.
type APIServer struct {
	network *netcfg.Config
	clock   *SlotClock
	peers   func() int
	log     zerolog.Logger

	metricsEnabled bool
}

// NewAPIServer creates the beacon API. peers reports the current
// connected peer count for the syncing endpoint.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAPIServer(network *netcfg.Config, clock *SlotClock, peers func() int, metricsEnabled bool, log zerolog.Logger) *APIServer {
	return &APIServer{
		network:        network,
		clock:          clock,
		peers:          peers,
		log:            log.With().Str("service", "http-api").Logger(),
		metricsEnabled: metricsEnabled,
	}
}

// Router builds the chi routing tree for the API.
func (s *APIServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Route("/pharos/v1/node", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)
		r.Get("/identity", s.handleIdentity)
		r.Get("/syncing", s.handleSyncing)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	return r
}

func (s *APIServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type versionResponse struct {
	Data struct {
		Version string `json:"version"`
	} `json:"data"`
}

func (s *APIServer) handleVersion(w http.ResponseWriter, _ *http.Request) {
	var resp versionResponse
	resp.Data.Version = version.String()
	s.writeJSON(w, resp)
}

type identityResponse struct {
	Data struct {
		Network     string `json:"network"`
		Spec        string `json:"spec"`
		ForkVersion string `json:"fork_version"`
	} `json:"data"`
}

func (s *APIServer) handleIdentity(w http.ResponseWriter, _ *http.Request) {
	var resp identityResponse
	resp.Data.Network = s.network.Name()
	resp.Data.Spec = string(s.network.Spec)
	resp.Data.ForkVersion = s.network.Genesis.ForkVersion
	s.writeJSON(w, resp)
}

type syncingResponse struct {
	Data struct {
		HeadSlot       int64 `json:"head_slot"`
		ConnectedPeers int   `json:"connected_peers"`
		IsSyncing      bool  `json:"is_syncing"`
	} `json:"data"`
}

func (s *APIServer) handleSyncing(w http.ResponseWriter, _ *http.Request) {
	var resp syncingResponse
	resp.Data.HeadSlot = s.clock.CurrentSlot()
	resp.Data.ConnectedPeers = s.peers()
	resp.Data.IsSyncing = resp.Data.ConnectedPeers > 0
	s.writeJSON(w, resp)
}

func (s *APIServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}
