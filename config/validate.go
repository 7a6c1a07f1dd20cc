// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errInvalidLogLevel              = errors.New("invalid Log.Level (want debug, info, warn or error)")
	errInvalidLogFormat             = errors.New("invalid Log.Format (want console or json)")
	errInvalidLimiterRate           = errors.New("Limiter.Rate must be greater than 0")
	errInvalidLimiterBurst          = errors.New("Limiter.Burst must be greater than 0")
	errInvalidPassIP                = errors.New("invalid Limiter.PassIPs entry")
	errInvalidLimiterPrefix         = errors.New("Limiter network prefix out of range")
	errNegativeTimeout              = errors.New("server timeouts cannot be negative")
)

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
	digitsRegexp         = regexp.MustCompile(`^[0-9]+$`)
)

// validateAndSet validates the server configuration and populates some fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	for _, d := range []int64{
		int64(cfg.Server.ReadHeaderTimeout),
		int64(cfg.Server.ReadTimeout),
		int64(cfg.Server.WriteTimeout),
		int64(cfg.Server.IdleTimeout),
		int64(cfg.Server.ShutdownDeadline),
	} {
		if d < 0 {
			return errNegativeTimeout
		}
	}

	if _, ok := logLevels[cfg.Log.Level]; !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
		// valid
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	// Skip validating Limiter configuration if it's not enabled
	if !cfg.Limiter.Enabled {
		return nil
	}

	if cfg.Limiter.Rate <= 0 {
		return errInvalidLimiterRate
	}

	if cfg.Limiter.Burst <= 0 {
		return errInvalidLimiterBurst
	}

	if cfg.Limiter.IPv4Prefix < 1 || cfg.Limiter.IPv4Prefix > 32 {
		return fmt.Errorf("%w: IPv4Prefix=%d", errInvalidLimiterPrefix, cfg.Limiter.IPv4Prefix)
	}

	if cfg.Limiter.IPv6Prefix < 1 || cfg.Limiter.IPv6Prefix > 128 {
		return fmt.Errorf("%w: IPv6Prefix=%d", errInvalidLimiterPrefix, cfg.Limiter.IPv6Prefix)
	}

	for _, entry := range cfg.Limiter.PassIPs {
		if net.ParseIP(entry) != nil {
			continue
		}

		if _, _, err := net.ParseCIDR(entry); err != nil {
			return fmt.Errorf("%w: %q", errInvalidPassIP, entry)
		}
	}

	return nil
}

// validateListener checks the unix socket or TCP listener settings.
func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		// Set TCP defaults
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = DefaultHost
			log.Info().
				Str("host", cfg.Basic.Host).
				Msg("Binding to default host")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = DefaultPort
			log.Info().
				Str("port", cfg.Basic.Port).
				Msg("Using default port")
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	mode, err := parseSocketPermissions(cfg.Basic.RawUnixSocketPermissions)
	if err != nil {
		return err
	}

	cfg.Basic.UnixSocketPermissions = mode

	if cfg.Basic.UnixSocketUser != "" {
		if digitsRegexp.MatchString(cfg.Basic.UnixSocketUser) {
			if _, err := user.LookupId(cfg.Basic.UnixSocketUser); err != nil {
				return errUnixSocketUserDoesNotExist
			}
		} else if _, err := user.Lookup(cfg.Basic.UnixSocketUser); err != nil {
			return errUnixSocketUserDoesNotExist
		}
	}

	if cfg.Basic.UnixSocketGroup != "" {
		if digitsRegexp.MatchString(cfg.Basic.UnixSocketGroup) {
			if _, err := user.LookupGroupId(cfg.Basic.UnixSocketGroup); err != nil {
				return errUnixSocketGroupDoesNotExist
			}
		} else if _, err := user.LookupGroup(cfg.Basic.UnixSocketGroup); err != nil {
			return errUnixSocketGroupDoesNotExist
		}
	}

	return nil
}

// parseSocketPermissions accepts octal ("660", "0660") or symbolic
// ("rw-rw----") file modes. An empty value means 0o666.
func parseSocketPermissions(raw string) (os.FileMode, error) {
	switch {
	case raw == "":
		return 0o666, nil
	case fileModeOctalRegexp.MatchString(raw):
		rawModeUint64, _ := strconv.ParseUint(raw, 8, 32)

		return os.FileMode(rawModeUint64), nil
	case fileModeStringRegexp.MatchString(raw):
		mode := os.FileMode(0)

		for i, c := range raw {
			if c != '-' {
				// Set i-th bit from the end
				const bitsInByte = 8

				mode |= 1 << (bitsInByte - i)
			}
		}

		return mode, nil
	default:
		return 0, errUnixSocketInvalidPermissions
	}
}
