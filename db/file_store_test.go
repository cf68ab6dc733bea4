package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleDoc struct {
	Items []string `json:"items"`
}

func TestFileStore_MissingDocumentIsNotFound(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	var doc sampleDoc
	found, err := store.Load(context.Background(), DocumentItems, &doc)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, doc.Items)
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, DocumentItems, sampleDoc{Items: []string{"a", "b"}}))

	var doc sampleDoc
	found, err := store.Load(ctx, DocumentItems, &doc)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, doc.Items)

	_, err = os.Stat(filepath.Join(dir, "items.json"))
	assert.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_CorruptDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.json"), []byte("{not json"), 0o644))

	store, err := NewFileStore(dir)
	require.NoError(t, err)

	var doc sampleDoc
	found, err := store.Load(context.Background(), DocumentItems, &doc)
	assert.True(t, found)
	assert.True(t, errors.Is(err, ErrCorruptDocument))
}

func TestFileStore_EmptyFileIsNotFound(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.json"), []byte("  \n"), 0o644))

	store, err := NewFileStore(dir)
	require.NoError(t, err)

	var doc sampleDoc
	found, err := store.Load(context.Background(), DocumentItems, &doc)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStore_WatchReportsExternalEdits(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 8)
	require.NoError(t, store.Watch(ctx, func(name string) { changed <- name }))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(store.Path(DocumentCategories), []byte(`{"categories":[]}`), 0o644))

	select {
	case name := <-changed:
		assert.Equal(t, DocumentCategories, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification received")
	}
}
