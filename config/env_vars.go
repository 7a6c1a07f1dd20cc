// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	errExpectedPointerToStruct = errors.New("expected a pointer to a struct")
	errUnsupportedFieldType    = errors.New("unsupported field type")
)

// envParser converts an environment string into a value assignable to a
// field of the matching type.
type envParser func(raw string) (reflect.Value, error)

var durationType = reflect.TypeFor[time.Duration]()

// envParsers covers the field types used in ServerConfig.
var envParsers = map[reflect.Type]envParser{
	reflect.TypeFor[string](): func(raw string) (reflect.Value, error) {
		return reflect.ValueOf(raw), nil
	},
	reflect.TypeFor[bool](): func(raw string) (reflect.Value, error) {
		b, err := strconv.ParseBool(raw)

		return reflect.ValueOf(b), err
	},
	reflect.TypeFor[int](): func(raw string) (reflect.Value, error) {
		n, err := strconv.Atoi(raw)

		return reflect.ValueOf(n), err
	},
	reflect.TypeFor[float64](): func(raw string) (reflect.Value, error) {
		f, err := strconv.ParseFloat(raw, 64)

		return reflect.ValueOf(f), err
	},
	durationType: func(raw string) (reflect.Value, error) {
		d, err := time.ParseDuration(raw)

		return reflect.ValueOf(d), err
	},
	reflect.TypeFor[[]string](): func(raw string) (reflect.Value, error) {
		var items []string

		for item := range strings.SplitSeq(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}

		return reflect.ValueOf(items), nil
	},
}

// readEnv fills the `env`-tagged fields of the struct dst points to,
// descending into nested structs.
//
// A tag of the form `env:"NAME,overwrite"` replaces whatever value the
// field holds. Without ",overwrite", the variable only fills a field that is
// still empty, so a value from the YAML file wins.
func readEnv(dst any) error {
	ptr := reflect.ValueOf(dst)
	if ptr.Kind() != reflect.Pointer || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", errExpectedPointerToStruct, dst)
	}

	return readEnvStruct(ptr.Elem())
}

func readEnvStruct(structValue reflect.Value) error {
	structType := structValue.Type()

	for i := range structType.NumField() {
		fieldType := structType.Field(i)
		field := structValue.Field(i)

		if !fieldType.IsExported() {
			continue
		}

		tag, tagged := fieldType.Tag.Lookup("env")
		if !tagged {
			if field.Kind() == reflect.Struct {
				if err := readEnvStruct(field); err != nil {
					return err
				}
			}

			continue
		}

		name, opts, _ := strings.Cut(tag, ",")

		raw, ok := os.LookupEnv(name)
		if !ok || (opts != "overwrite" && !field.IsZero()) {
			continue
		}

		parse, ok := envParsers[field.Type()]
		if !ok {
			return fmt.Errorf("%w: %s (%s)", errUnsupportedFieldType, fieldType.Name, field.Type())
		}

		value, err := parse(raw)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", raw, name, err)
		}

		field.Set(value)
	}

	return nil
}

// useDotEnv loads a .env file from the working directory or, failing that,
// from the directory holding the binary. A missing file is not an error.
func useDotEnv() error {
	if cwd, err := os.Getwd(); err != nil {
		log.Warn().Err(err).Msg("Could not get current working directory")
	} else if loaded, err := loadDotEnv(filepath.Join(cwd, ".env")); loaded || err != nil {
		return err
	}

	dir := "."
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Dir(exe)
	}

	_, err := loadDotEnv(filepath.Join(dir, ".env"))

	return err
}

// loadDotEnv exports the KEY=VALUE lines of the file at path, skipping keys
// the environment already defines. It reports whether the file was read.
// Unreadable files and malformed lines are logged and skipped.
func loadDotEnv(path string) (bool, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- fixed file name in known directories
	if os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("No .env file found, skipping")

		return false, nil
	}

	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Could not read .env file")

		return false, nil
	}

	for lineNumber, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			log.Warn().Str("path", path).Int("line", lineNumber+1).Msg("Ignoring malformed .env line")

			continue
		}

		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))

		if os.Getenv(key) != "" {
			continue
		}

		if err := os.Setenv(key, value); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Could not set environment variable")
		}
	}

	log.Info().Str("path", path).Msg("Loaded configuration from .env file")

	return true, nil
}

// unquote strips one pair of matching single or double quotes.
func unquote(value string) string {
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		return value[1 : len(value)-1]
	}

	return value
}
