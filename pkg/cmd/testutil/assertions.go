package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireError asserts that an error occurred and optionally checks the message
func RequireError(t *testing.T, err error, msgContains ...string) {
	t.Helper()

	require.Error(t, err, "Expected an error")

	for _, msg := range msgContains {
		require.Contains(t, err.Error(), msg, "Error message should contain: %s", msg)
	}
}

// RequireLines asserts that output contains each expected line, ignoring
// trailing whitespace produced by column alignment.
func RequireLines(t *testing.T, output string, expected ...string) {
	t.Helper()

	lines := make(map[string]bool)
	for _, line := range splitLines(output) {
		lines[line] = true
	}

	for _, line := range expected {
		require.True(t, lines[line], "Output should contain line %q, got:\n%s", line, output)
	}
}
