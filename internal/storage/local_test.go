package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLocalStoreListsImagesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.jpg", "second")
	writeFile(t, dir, "a.png", "first")
	writeFile(t, dir, "notes.txt", "ignored")

	store := NewLocalModelStore(dir, "/modelsImages/")
	models, err := store.List(context.Background())
	require.NoError(t, err)

	require.Len(t, models, 2)
	assert.Equal(t, "model1", models[0].ID)
	assert.Equal(t, "Model 1", models[0].Name)
	assert.Equal(t, "/modelsImages/a.png", models[0].Image)
	assert.Equal(t, "model2", models[1].ID)
	assert.Equal(t, "/modelsImages/b.jpg", models[1].Image)
}

func TestLocalStoreOpensById(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png", "png-bytes")
	writeFile(t, dir, "b.jpg", "jpg-bytes")

	store := NewLocalModelStore(dir, "/modelsImages")

	reader, contentType, err := store.Open(context.Background(), "model2")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "jpg-bytes", string(data))
	assert.Equal(t, "image/jpeg", contentType)
}

func TestLocalStoreUnknownIdIsNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.jpg", "x")

	store := NewLocalModelStore(dir, "/modelsImages")

	_, _, err := store.Open(context.Background(), "model9")
	assert.ErrorIs(t, err, ErrModelNotFound)

	_, _, err = store.Open(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestLocalStoreMissingDirIsEmptyCatalog(t *testing.T) {
	store := NewLocalModelStore(filepath.Join(t.TempDir(), "missing"), "/modelsImages")

	models, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, models)
}
