// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
//
// The auth gate itself is not configured here: its matcher and redirect
// targets are a static declaration in package authgate.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"CHARGEBUDDY_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"CHARGEBUDDY_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"CHARGEBUDDY_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"CHARGEBUDDY_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		UnixSocketUser           string      `env:"CHARGEBUDDY_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"CHARGEBUDDY_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
	} `yaml:"basic"`

	Server struct {
		ReadHeaderTimeout time.Duration `env:"CHARGEBUDDY_READ_HEADER_TIMEOUT,overwrite" yaml:"readHeaderTimeout"`
		ReadTimeout       time.Duration `env:"CHARGEBUDDY_READ_TIMEOUT,overwrite" yaml:"readTimeout"`
		WriteTimeout      time.Duration `env:"CHARGEBUDDY_WRITE_TIMEOUT,overwrite" yaml:"writeTimeout"`
		IdleTimeout       time.Duration `env:"CHARGEBUDDY_IDLE_TIMEOUT,overwrite" yaml:"idleTimeout"`
		ShutdownDeadline  time.Duration `env:"CHARGEBUDDY_SHUTDOWN_DEADLINE,overwrite" yaml:"shutdownDeadline"`
	} `yaml:"server"`

	Development struct {
		InDevelopment bool `env:"CHARGEBUDDY_DEV" yaml:"inDevelopment"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"CHARGEBUDDY_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"CHARGEBUDDY_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"CHARGEBUDDY_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Limiter struct {
		Enabled bool     `env:"CHARGEBUDDY_LIMITER,overwrite" yaml:"enabled"`
		Rate    float64  `env:"CHARGEBUDDY_LIMITER_RATE,overwrite" yaml:"rate"`
		Burst   int      `env:"CHARGEBUDDY_LIMITER_BURST,overwrite" yaml:"burst"`
		PassIPs []string `env:"CHARGEBUDDY_LIMITER_PASS_IPS,overwrite" yaml:"passList"`
		// Clients in the same network share a bucket.
		IPv4Prefix int `env:"CHARGEBUDDY_LIMITER_IPV4_PREFIX,overwrite" yaml:"ipv4Prefix"`
		IPv6Prefix int `env:"CHARGEBUDDY_LIMITER_IPV6_PREFIX,overwrite" yaml:"ipv6Prefix"`
		// StateFilepath keeps buckets across restarts. Empty disables it.
		StateFilepath string `env:"CHARGEBUDDY_LIMITER_STATE_FILEPATH,overwrite" yaml:"stateFilepath"`
	} `yaml:"limiter"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *ServerConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (-config)
	// 2. Environment variable (CHARGEBUDDY_CONFIGFILE)
	// 3. Default path with fallback check
	if configFlagUserSet {
		configFilePath = parsedConfigFlagValue
	} else if envVar := os.Getenv("CHARGEBUDDY_CONFIGFILE"); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = parsedConfigFlagValue
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	return cfg.load(configFilePath, true)
}

// load applies defaults, the YAML file, the .env file (if useDotEnvFile)
// and the environment, in that order, then validates the result.
func (cfg *ServerConfig) load(configFilePath string, useDotEnvFile bool) error {
	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if useDotEnvFile {
		if err := useDotEnv(); err != nil {
			return fmt.Errorf("error using .env file: %w", err)
		}
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	// Heuristically check for containerized environment and warn if host is not a wildcard address.
	if cfg.Basic.UnixSocket == "" && isContainerized() && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a containerized environment but host is not a wildcard address (e.g., '0.0.0.0' or '::'). This may prevent the service from being accessible outside the container.")
	}

	return nil
}

var (
	staticSkippedPathPrefixes = []string{"/healthz"}
	devSkippedPathPrefixes    = []string{"/debug/"}
)

// ShouldSkipServerLogging determines if a request should bypass request logging.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	if cfg.Development.InDevelopment {
		for _, prefix := range devSkippedPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}

	return false
}

// isContainerized checks for common indicators of a containerized environment.
//
// This is a heuristic and may not be 100% accurate.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	if _, err := os.Stat("/.containerenv"); err == nil {
		return true
	}

	// #nosec G304 -- We are checking for the existence and content of a well-known system file for heuristics.
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err == nil {
		content := string(cgroup)

		return strings.Contains(content, "docker") ||
			strings.Contains(content, "kubepods") ||
			strings.Contains(content, "containerd") ||
			strings.Contains(content, "lxc") ||
			strings.Contains(content, "crio") ||
			// systemd-nspawn containers
			strings.Contains(content, ".machine")
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
