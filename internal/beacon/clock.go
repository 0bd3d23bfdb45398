// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package beacon

import (
	"time"

	"github.com/pharoslabs/pharos/internal/netcfg"
)

// SlotClock derives the current chain slot from the genesis parameters.
// Read-only after construction and safe for concurrent use.
type SlotClock struct {
	genesisTime  time.Time
	slotDuration time.Duration
	now          func() time.Time
}

// NewSlotClock builds a clock from resolved genesis parameters.
func NewSlotClock(genesis netcfg.Genesis) *SlotClock {
	return &SlotClock{
		genesisTime:  time.Unix(int64(genesis.Time), 0),
		slotDuration: time.Duration(genesis.SlotDuration) * time.Second,
		now:          time.Now,
	}
}

// CurrentSlot returns the slot the chain has reached. Negative before
// genesis.
func (c *SlotClock) CurrentSlot() int64 {
	elapsed := c.now().Sub(c.genesisTime)
	if elapsed < 0 {
		return -1
	}
	return int64(elapsed / c.slotDuration)
}

// SlotDuration returns the length of one slot.
func (c *SlotClock) SlotDuration() time.Duration {
	return c.slotDuration
}

// GenesisTime returns the chain's genesis timestamp.
func (c *SlotClock) GenesisTime() time.Time {
	return c.genesisTime
}
