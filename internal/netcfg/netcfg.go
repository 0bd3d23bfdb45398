// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

// Package netcfg resolves the network configuration a Pharos process runs
// under: which chain, which spec variant, which boot nodes, which genesis
// parameters and deposit contract.
//
// A configuration comes from exactly one of three sources: a named preset
// compiled into the binary, a custom directory, or a set of override
// files. Supplying more than one source is a configuration error, caught
// before the runtime environment is built.
//
// Spec variants other than "standard" are optional build-time
// capabilities, enabled with build tags in the same way optional
// subsystems are gated elsewhere in the tree. A resolved configuration
// demanding an absent capability fails fast with a CapabilityError.
package netcfg

import (
	"fmt"
)

// SpecVariant identifies the consensus parameter set the process must run
// under.
type SpecVariant string

const (
	// SpecStandard is the production parameter set, always compiled in.
	SpecStandard SpecVariant = "standard"

	// SpecReduced is a shrunk parameter set for fast local testing.
	// Requires building with -tags reduced.
	SpecReduced SpecVariant = "reduced"

	// SpecLegacy is the pre-launch parameter set kept for replaying old
	// testnets. Requires building with -tags legacy.
	SpecLegacy SpecVariant = "legacy"
)

// ParseSpecVariant validates a spec variant string.
func ParseSpecVariant(s string) (SpecVariant, error) {
	switch SpecVariant(s) {
	case SpecStandard, SpecReduced, SpecLegacy:
		return SpecVariant(s), nil
	default:
		return "", fmt.Errorf("unknown spec variant %q (expected standard, reduced or legacy)", s)
	}
}

// Supported reports whether this build carries the capability for the
// given variant.
func Supported(v SpecVariant) bool {
	switch v {
	case SpecStandard:
		return true
	case SpecReduced:
		return reducedSupported
	case SpecLegacy:
		return legacySupported
	default:
		return false
	}
}

// SupportedVariants returns a build summary of every known variant, in a
// fixed order, for version output.
func SupportedVariants() []string {
	return []string{
		"standard (true)",
		fmt.Sprintf("reduced (%t)", reducedSupported),
		fmt.Sprintf("legacy (%t)", legacySupported),
	}
}

// CapabilityError reports that the resolved configuration demands a spec
// variant this build was not compiled with. It is fatal and surfaces
// before any service starts.
type CapabilityError struct {
	Variant SpecVariant
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf(
		"spec variant %q is not supported by this build of Pharos: rebuild with -tags %s to enable it",
		e.Variant, e.Variant,
	)
}

// Genesis holds the genesis parameters of a network.
type Genesis struct {
	Time        uint64 `yaml:"time" json:"time"`
	ForkVersion string `yaml:"fork_version" json:"fork_version"`
	StateRoot   string `yaml:"state_root" json:"state_root"`

	// SlotDuration is expressed in seconds.
	SlotDuration uint64 `yaml:"slot_duration" json:"slot_duration"`
}

// DepositContract references the on-chain deposit contract.
type DepositContract struct {
	Address     string `yaml:"address" json:"address"`
	DeployBlock uint64 `yaml:"deploy_block" json:"deploy_block"`
}

// Config is an immutable resolved network configuration.
type Config struct {
	// name is the display form logged at startup: the preset name,
	// "custom (<dir>)", or "custom loaded from <file>".
	name string

	Spec            SpecVariant     `json:"spec"`
	BootNodes       []string        `json:"boot_nodes"`
	Genesis         Genesis         `json:"genesis"`
	DepositContract DepositContract `json:"deposit_contract"`
}

// Name returns the display name of the active network.
func (c *Config) Name() string { return c.name }
