// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

// Package beacon implements the beacon node: a supervised service tree
// holding boot node discovery, the slot ticker and the HTTP API.
package beacon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"vawter.tech/stopper"

	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/logging"
	"github.com/pharoslabs/pharos/internal/runtime"
)

// Run starts the beacon node and blocks until the exit signal fires or
// the service tree dies. Startup failures (bad listen address, tree
// construction) are returned synchronously so the launcher can report
// them as the shutdown reason.
func Run(sctx *stopper.Context, env *runtime.Environment, cfg *config.BeaconConfig) error {
	log := env.Logger().With().Str("service", "beacon").Logger()
	network := env.Network()

	// Bind before starting the tree: a port conflict must fail startup,
	// not spin inside supervision backoff.
	addr := net.JoinHostPort(cfg.HTTPHost, fmt.Sprintf("%d", cfg.HTTPPort))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind http api on %s: %w", addr, err)
	}

	clock := NewSlotClock(network.Genesis)
	discovery := NewDiscoveryService(network.BootNodes, cfg.TargetPeers, log)

	api := NewAPIServer(network, clock, discovery.Peers, cfg.MetricsEnabled, log)
	server := &http.Server{
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.HTTPTimeout,
		WriteTimeout:      cfg.HTTPTimeout,
	}

	tree, err := NewServiceTree(logging.NewSlogLogger(), DefaultTreeConfig())
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("build service tree: %w", err)
	}
	tree.AddNetworkingService(discovery)
	tree.AddNetworkingService(NewSlotTickerService(clock, log))
	tree.AddAPIService(NewHTTPServerService(server, listener, tree.config.ShutdownTimeout))

	treeCtx, cancel := context.WithCancel(sctx)
	defer cancel()

	errCh := tree.ServeBackground(treeCtx)
	log.Info().Str("http_api", addr).Str("network", network.Name()).Msg("Beacon node running")

	select {
	case <-sctx.Stopping():
		// Cooperative shutdown: cancel the tree and drain its error.
		cancel()
		err = <-errCh
	case err = <-errCh:
		// The tree died on its own.
	}

	if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil {
		for _, svc := range report {
			log.Warn().Str("unstopped", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("beacon service tree: %w", err)
	}
	return nil
}
