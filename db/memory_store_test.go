package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTripAndFailures(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, DocumentExperiments, map[string]int{"EXP001": 1}))
	assert.Equal(t, 1, store.SaveCount(DocumentExperiments))

	var got map[string]int
	found, err := store.Load(ctx, DocumentExperiments, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, got["EXP001"])

	boom := errors.New("disk full")
	store.FailSaves(boom)
	err = store.Save(ctx, DocumentExperiments, map[string]int{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, store.SaveCount(DocumentExperiments))

	store.Put(DocumentItems, []byte("garbage"))
	_, err = store.Load(ctx, DocumentItems, &got)
	assert.ErrorIs(t, err, ErrCorruptDocument)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "mongo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown data backend")
}

func TestOpen_MemoryBackend(t *testing.T) {
	store, err := Open(context.Background(), Config{Backend: "Memory"})
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, store.Name())
}
