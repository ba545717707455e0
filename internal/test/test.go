// Package test contains assertions shared by hilite tests.
package test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava12/hilite"
)

// ExpectErrorCode fails the test unless e carries hilite.Error with expected code.
func ExpectErrorCode(t *testing.T, expected int, e error) {
	t.Helper()
	require.Error(t, e, "expecting error code %d", expected)
	require.Equalf(t, expected, hilite.ErrorCode(e), "expecting error code %d, got %v", expected, e)
}

// ExpectNoError fails the test if e is not nil, error code is included in the message.
func ExpectNoError(t *testing.T, e error) {
	t.Helper()
	require.NoErrorf(t, e, "unexpected error (code %d)", hilite.ErrorCode(e))
}
