// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEnvFile(t *testing.T) {
	t.Parallel()

	out := renderEnvFile()

	assert.Contains(t, out, "## Basic\n")
	assert.Contains(t, out, `CHARGEBUDDY_HOST="localhost"`)
	assert.Contains(t, out, `CHARGEBUDDY_PORT="8282"`)
	assert.Contains(t, out, "# CHARGEBUDDY_LIMITER=false\n")
	assert.Contains(t, out, "# CHARGEBUDDY_LIMITER_PASS_IPS=\n")
	assert.NotContains(t, out, "## Build")
}

func TestRenderYAMLFile(t *testing.T) {
	t.Parallel()

	out, err := renderYAMLFile()
	require.NoError(t, err)

	assert.Contains(t, out, "\nbasic:\n")
	assert.Contains(t, out, "\nlimiter:\n")
	assert.Contains(t, out, "  # host: localhost\n")
	assert.NotContains(t, out, "\n  host:")
}
