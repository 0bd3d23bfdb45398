// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

// Package validator implements the validator client: it attaches to a
// beacon node, optionally to a remote signer, and performs duties on the
// chain's slot schedule.
package validator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"vawter.tech/stopper"

	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/runtime"
)

// connectTimeout bounds the startup reachability probes.
const connectTimeout = 10 * time.Second

// dutyInterval is how often the client checks for pending duties. Tied
// to the slot schedule in a full implementation; here one probe per slot
// duration of the active network.
func dutyInterval(env *runtime.Environment) time.Duration {
	d := time.Duration(env.Network().Genesis.SlotDuration) * time.Second
	if d <= 0 {
		d = 12 * time.Second
	}
	return d
}

// Run starts the validator client and blocks until the exit signal
// fires. Unreachable upstream endpoints fail startup synchronously so
// the launcher reports them as the shutdown reason.
func Run(sctx *stopper.Context, env *runtime.Environment, cfg *config.ValidatorConfig) error {
	log := env.Logger().With().Str("service", "validator").Logger()
	client := &http.Client{Timeout: connectTimeout}

	if err := probe(sctx, client, cfg.BeaconURL+"/pharos/v1/node/health"); err != nil {
		return fmt.Errorf("unable to connect to beacon node at %s: %v", cfg.BeaconURL, err)
	}
	log.Info().Str("beacon", cfg.BeaconURL).Msg("Connected to beacon node")

	if cfg.RemoteSignerURL != "" {
		if err := probe(sctx, client, cfg.RemoteSignerURL+"/upcheck"); err != nil {
			return fmt.Errorf("unable to connect to signer at %s: %v", cfg.RemoteSignerURL, err)
		}
		log.Info().Str("signer", cfg.RemoteSignerURL).Msg("Connected to remote signer")
	}

	if cfg.Graffiti != "" {
		log.Info().Str("graffiti", cfg.Graffiti).Msg("Block graffiti configured")
	}

	ticker := time.NewTicker(dutyInterval(env))
	defer ticker.Stop()

	log.Info().Str("key_dir", cfg.KeyDir).Msg("Validator client running")
	for {
		select {
		case <-sctx.Stopping():
			log.Info().Msg("Validator client stopping")
			return nil
		case <-ticker.C:
			// Duty execution would go here; the probe keeps the beacon
			// connection health visible in the logs.
			if err := probe(sctx, client, cfg.BeaconURL+"/pharos/v1/node/health"); err != nil {
				log.Warn().Err(err).Msg("Beacon node unreachable, retrying next slot")
			}
		}
	}
}

// probe issues a GET against url and reports any transport error or
// non-2xx status.
func probe(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
