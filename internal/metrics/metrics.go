// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

// Package metrics provides Prometheus metrics for the Pharos process.
//
// Metrics are exposed at the beacon API's /metrics endpoint in Prometheus
// text format. The lifecycle metrics (process start time, shutdown
// reasons) are recorded by the supervisor regardless of operating mode;
// mode-specific collectors live next to the code they instrument.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	// ProcessStartTime exports the wall-clock time the process was
	// started, letting dashboards compute uptime across restarts.
	ProcessStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pharos_process_start_time_seconds",
			Help: "Unix timestamp at which the Pharos process started",
		},
	)

	// ShutdownReasons counts terminal reasons by outcome. At most one
	// increment happens per process run.
	ShutdownReasons = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharos_shutdown_reasons_total",
			Help: "Terminal shutdown reasons observed, by outcome",
		},
		[]string{"outcome"},
	)

	// BeaconConnectedPeers tracks the discovery dialer's live peer count.
	BeaconConnectedPeers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pharos_beacon_connected_peers",
			Help: "Peers currently connected to the beacon node",
		},
	)

	// BeaconSlot tracks the slot the beacon clock has reached.
	BeaconSlot = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pharos_beacon_slot",
			Help: "Current slot of the beacon chain clock",
		},
	)

	// SignerRequests counts remote signer sign requests by outcome
	// (ok, bad_request, unknown_key).
	SignerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharos_signer_requests_total",
			Help: "Remote signer sign requests, by outcome",
		},
		[]string{"outcome"},
	)
)

// ExposeProcessStartTime records the process start timestamp. Called once
// by the supervisor right after the environment is built.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ExposeProcessStartTime(log zerolog.Logger) {
	now := time.Now()
	ProcessStartTime.Set(float64(now.Unix()))
	log.Debug().Time("started_at", now).Msg("Process start time exposed to metrics")
}

// RecordShutdown counts the accepted terminal reason by outcome.
func RecordShutdown(failed bool) {
	outcome := "success"
	if failed {
		outcome = "failure"
	}
	ShutdownReasons.WithLabelValues(outcome).Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
