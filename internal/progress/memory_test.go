package progress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/tryon-service/internal/domain"
)

func TestMemoryStoreUnknownTaskIsNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreLastWriteWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, domain.ProgressEntry{TaskID: "t1", Status: "CREATED", Progress: 0}))
	require.NoError(t, store.Record(ctx, domain.ProgressEntry{TaskID: "t1", Status: "PROCESSING", Progress: 60}))

	entry, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "PROCESSING", entry.Status)
	assert.Equal(t, 60, entry.Progress)
	assert.False(t, entry.UpdatedAt.IsZero())
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, domain.ProgressEntry{TaskID: "a", Status: "COMPLETED", Progress: 100}))
	require.NoError(t, store.Record(ctx, domain.ProgressEntry{TaskID: "b", Status: "FAILED", Error: "bad input"}))

	a, err := store.Get(ctx, "a")
	require.NoError(t, err)
	b, err := store.Get(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", a.Status)
	assert.Equal(t, "FAILED", b.Status)
	assert.Empty(t, a.Error)
	assert.Equal(t, "bad input", b.Error)
}

func TestMemoryStoreFailedEntryIsStillFound(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, domain.ProgressEntry{TaskID: "t2", Status: "FAILED", Error: "provider error"}))

	entry, err := store.Get(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, "FAILED", entry.Status)
}
