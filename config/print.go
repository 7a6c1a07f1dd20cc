// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

const redactedValue = "[redacted]"

func (cfg *ServerConfig) print() {
	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Msg("Starting ChargeBuddy")

	configYAML, err := cfg.MarshalPrintable()
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Info().
		Msg("Application configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}

// MarshalPrintable renders the configuration as YAML with sensitive
// fields redacted.
func (cfg *ServerConfig) MarshalPrintable() ([]byte, error) {
	// Redact using a shallow copy of the config.
	printableConfig := *cfg

	if len(printableConfig.Limiter.PassIPs) > 0 {
		printableConfig.Limiter.PassIPs = []string{redactedValue}
	}

	out, err := yaml.MarshalWithOptions(
		printableConfig,
		GetDurationEncoderOption(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	return out, nil
}
