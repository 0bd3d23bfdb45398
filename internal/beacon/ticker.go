// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package beacon

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pharoslabs/pharos/internal/metrics"
)

// SlotTickerService advances the exported slot gauge on every slot
// boundary. Before genesis it waits; at genesis it starts ticking at the
// chain's slot duration.
type SlotTickerService struct {
	clock *SlotClock
	log   zerolog.Logger
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSlotTickerService(clock *SlotClock, log zerolog.Logger) *SlotTickerService {
	return &SlotTickerService{
		clock: clock,
		log:   log.With().Str("service", "slot_ticker").Logger(),
	}
}

// Serve implements suture.Service.
func (s *SlotTickerService) Serve(ctx context.Context) error {
	if wait := time.Until(s.clock.GenesisTime()); wait > 0 {
		s.log.Info().Dur("wait", wait).Msg("Waiting for genesis")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	slot := s.clock.CurrentSlot()
	metrics.BeaconSlot.Set(float64(slot))
	s.log.Info().Int64("slot", slot).Msg("Slot ticker started")

	ticker := time.NewTicker(s.clock.SlotDuration())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			slot = s.clock.CurrentSlot()
			metrics.BeaconSlot.Set(float64(slot))
			s.log.Debug().Int64("slot", slot).Msg("Slot tick")
		}
	}
}

// String implements fmt.Stringer for supervision logs.
func (s *SlotTickerService) String() string { return "slot_ticker" }
