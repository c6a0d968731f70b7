package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tmarques/flashdeck/internal/store"
	"github.com/tmarques/flashdeck/internal/store/sqlite"
)

// NewTestKV creates an in-memory sqlite record store with the schema applied.
func NewTestKV(t *testing.T) *sqlite.KV {
	t.Helper()
	kv, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	return kv
}

// NewTestRecords creates a typed record store over an in-memory backend.
func NewTestRecords(t *testing.T) *store.Records {
	t.Helper()
	kv := NewTestKV(t)
	t.Cleanup(func() { MustClose(t, kv) })
	return store.NewRecords(kv)
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
