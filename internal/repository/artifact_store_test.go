package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStoreMissingIsNil(t *testing.T) {
	s := NewFileArtifactStore(filepath.Join(t.TempDir(), "model.json.gz"))
	data, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestArtifactStoreRoundTripAndReplace(t *testing.T) {
	dir := t.TempDir()
	s := NewFileArtifactStore(filepath.Join(dir, "models", "model.json.gz"))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, []byte(`{"version":1}`)))
	require.NoError(t, s.Save(ctx, []byte(`{"version":2}`)))
	data, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"version":2}`, string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "models"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestArtifactStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json.gz")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))
	_, err := NewFileArtifactStore(path).Load(context.Background())
	assert.Error(t, err)
}
