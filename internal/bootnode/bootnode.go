// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

// Package bootnode implements the standalone discovery responder. It runs
// the whole process by itself: it builds its own logger, installs its own
// interrupt handling and never constructs the shared runtime environment,
// since a boot node needs none of the node's services.
package bootnode

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/logging"
	"github.com/pharoslabs/pharos/internal/netcfg"
)

// maxPacketSize bounds inbound discovery datagrams.
const maxPacketSize = 1280

// Request verbs of the discovery wire protocol.
const (
	verbPing  = "PING"
	verbNodes = "NODES"
)

// Run serves discovery requests until an interrupt arrives. It blocks
// for the process lifetime; the caller exits when it returns.
func Run(cfg *config.Config, network *netcfg.Config) error {
	if err := logging.Init(logging.Config{
		Level:     cfg.DebugLevel,
		Format:    cfg.LogFormat,
		File:      cfg.LogFile,
		Timestamp: true,
	}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	log := logging.Logger().With().Str("service", "boot-node").Logger()

	addr := net.JoinHostPort(cfg.BootNode.ListenAddress, fmt.Sprintf("%d", cfg.BootNode.Port))
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("resolve listen address %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("bind discovery socket on %s: %w", addr, err)
	}
	defer conn.Close()

	log.Info().Str("addr", addr).Str("network", network.Name()).Int("records", len(network.BootNodes)).Msg("Boot node running")

	// Interrupts close the socket, which unblocks the read loop.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Boot node shutting down")
		_ = conn.Close()
	}()

	return serve(conn, network.BootNodes, log)
}

// serve answers discovery requests until the socket is closed.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func serve(conn *net.UDPConn, bootNodes []string, log zerolog.Logger) error {
	records, err := json.Marshal(bootNodes)
	if err != nil {
		return fmt.Errorf("encode boot node records: %w", err)
	}

	buf := make([]byte, maxPacketSize)
	for {
		n, remote, err := conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read discovery socket: %w", err)
		}

		switch string(buf[:n]) {
		case verbPing:
			if _, err := conn.WriteToUDP([]byte("PONG"), remote); err != nil {
				log.Warn().Err(err).Stringer("remote", remote).Msg("Failed to answer ping")
			}
		case verbNodes:
			if _, err := conn.WriteToUDP(records, remote); err != nil {
				log.Warn().Err(err).Stringer("remote", remote).Msg("Failed to send records")
			}
		default:
			log.Debug().Stringer("remote", remote).Int("bytes", n).Msg("Ignoring unknown discovery packet")
		}
	}
}
