// Pharos - Proof-of-Stake Network Client
// Copyright 2026 Pharos Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pharoslabs/pharos

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"pharos.yaml",
	"pharos.yml",
	"/etc/pharos/pharos.yaml",
	"/etc/pharos/pharos.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "PHAROS_CONFIG"

// envPrefix namespaces the environment variables read by Load.
const envPrefix = "PHAROS_"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment.
func defaultConfig() *Config {
	return &Config{
		DebugLevel: "info",
		LogFormat:  "console",
		Beacon: BeaconConfig{
			HTTPHost:       "127.0.0.1",
			HTTPPort:       5052,
			HTTPTimeout:    30 * time.Second,
			MetricsEnabled: true,
			TargetPeers:    50,
		},
		Validator: ValidatorConfig{
			BeaconURL: "http://127.0.0.1:5052",
		},
		RemoteSigner: RemoteSignerConfig{
			Host:      "127.0.0.1",
			Port:      9000,
			Timeout:   10 * time.Second,
			RateLimit: 100,
			RateBurst: 20,
		},
		Account: AccountConfig{
			Count: 1,
		},
		BootNode: BootNodeConfig{
			ListenAddress: "0.0.0.0",
			Port:          4242,
		},
	}
}

// Load builds a Config from layered sources (highest priority last):
// built-in defaults, an optional YAML file, PHAROS_* environment
// variables. Flag values are applied on top by the CLI layer.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// PHAROS_BEACON_HTTP_PORT -> beacon.http_port
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to koanf paths.
// Section prefixes become path segments; the remainder keeps its
// underscores: PHAROS_BEACON_HTTP_PORT -> beacon.http_port.
func envTransformFunc(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range []string{"beacon", "validator", "remote_signer", "account", "boot_node"} {
		if strings.HasPrefix(s, section+"_") {
			return section + "." + strings.TrimPrefix(s, section+"_")
		}
	}
	return s
}
