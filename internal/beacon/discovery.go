// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package beacon

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/pharoslabs/pharos/internal/metrics"
)

// bootNodeScheme prefixes boot node records: node://<id>@<host>:<port>.
const bootNodeScheme = "node://"

// dialInterval is how often the discovery service re-dials boot nodes it
// is not connected to.
const dialInterval = 30 * time.Second

// dialTimeout bounds a single connection attempt.
const dialTimeout = 5 * time.Second

// DiscoveryService keeps the beacon node connected to its boot nodes. It
// periodically dials every configured record, tracks the live connection
// count and exports it to metrics.
//
// Implements suture.Service: dialing runs until the context is canceled,
// then all held connections are closed.
type DiscoveryService struct {
	bootNodes   []string
	targetPeers int
	log         zerolog.Logger
	connected   atomic.Int64

	dial func(ctx context.Context, addr string) (net.Conn, error)
}

// NewDiscoveryService creates a discovery service for the given boot node
// records.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewDiscoveryService(bootNodes []string, targetPeers int, log zerolog.Logger) *DiscoveryService {
	d := &DiscoveryService{
		bootNodes:   bootNodes,
		targetPeers: targetPeers,
		log:         log.With().Str("service", "discovery").Logger(),
	}
	d.dial = func(ctx context.Context, addr string) (net.Conn, error) {
		var dialer net.Dialer
		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		return dialer.DialContext(dialCtx, "tcp", addr)
	}
	return d
}

// Serve implements suture.Service.
func (d *DiscoveryService) Serve(ctx context.Context) error {
	conns := make(map[string]net.Conn)
	defer func() {
		for _, c := range conns {
			_ = c.Close()
		}
		d.connected.Store(0)
		metrics.BeaconConnectedPeers.Set(0)
	}()

	d.log.Info().Int("boot_nodes", len(d.bootNodes)).Int("target_peers", d.targetPeers).Msg("Discovery started")

	ticker := time.NewTicker(dialInterval)
	defer ticker.Stop()

	// Dial once immediately, then on every tick.
	d.dialAll(ctx, conns)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.dialAll(ctx, conns)
		}
	}
}

// dialAll prunes connections whose peer has gone away, then attempts
// every boot node record not currently connected.
func (d *DiscoveryService) dialAll(ctx context.Context, conns map[string]net.Conn) {
	for record, conn := range conns {
		if connAlive(conn) {
			continue
		}
		_ = conn.Close()
		delete(conns, record)
		d.log.Info().Str("record", record).Msg("Boot node connection lost")
	}
	for _, record := range d.bootNodes {
		if _, ok := conns[record]; ok {
			continue
		}
		addr, err := bootNodeAddr(record)
		if err != nil {
			d.log.Warn().Err(err).Str("record", record).Msg("Skipping malformed boot node record")
			continue
		}
		conn, err := d.dial(ctx, addr)
		if err != nil {
			d.log.Debug().Err(err).Str("addr", addr).Msg("Boot node unreachable")
			continue
		}
		conns[record] = conn
		d.log.Info().Str("addr", addr).Msg("Connected to boot node")
	}
	d.connected.Store(int64(len(conns)))
	metrics.BeaconConnectedPeers.Set(float64(len(conns)))
}

// connAlive probes a connection with a zero-deadline read. Boot nodes
// send nothing unsolicited, so a timeout means the peer is still there;
// EOF or any other error means the connection is dead.
func connAlive(conn net.Conn) bool {
	if err := conn.SetReadDeadline(time.Now()); err != nil {
		return false
	}
	var buf [1]byte
	_, err := conn.Read(buf[:])
	_ = conn.SetReadDeadline(time.Time{})
	if err == nil {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// Peers reports the current connected boot node count.
func (d *DiscoveryService) Peers() int {
	return int(d.connected.Load())
}

// String implements fmt.Stringer for supervision logs.
func (d *DiscoveryService) String() string { return "discovery" }

// bootNodeAddr extracts the host:port of a node://<id>@<host>:<port>
// record.
func bootNodeAddr(record string) (string, error) {
	rest, ok := strings.CutPrefix(record, bootNodeScheme)
	if !ok {
		return "", &MalformedRecordError{Record: record}
	}
	_, addr, ok := strings.Cut(rest, "@")
	if !ok {
		return "", &MalformedRecordError{Record: record}
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", &MalformedRecordError{Record: record}
	}
	return addr, nil
}

// MalformedRecordError reports a boot node record that does not follow
// the node://<id>@<host>:<port> form.
type MalformedRecordError struct {
	Record string
}

func (e *MalformedRecordError) Error() string {
	return "malformed boot node record: " + e.Record
}
