package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/appliance-compare/internal/storage"
)

func TestMemory_Quota(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemory(20)

	require.NoError(t, m.Set(ctx, "k", []byte("0123456789")))
	assert.Equal(t, int64(11), m.Used())

	assert.ErrorIs(t, m.Set(ctx, "x", []byte("0123456789")), storage.ErrQuotaExceeded)

	// Overwriting reuses the old entry's budget.
	require.NoError(t, m.Set(ctx, "k", []byte("0123456789abcdefgh")))
	assert.Equal(t, int64(19), m.Used())

	require.NoError(t, m.Delete(ctx, "k"))
	assert.Zero(t, m.Used())
	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFile_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "storage.json")

	f, err := storage.NewFile(path, storage.DefaultQuota)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, storage.KeyTheme, []byte(`"dark"`)))
	require.NoError(t, f.Set(ctx, storage.KeyFavorites, []byte(`["a","b"]`)))
	require.NoError(t, f.Delete(ctx, storage.KeyFavorites))

	reopened, err := storage.NewFile(path, storage.DefaultQuota)
	require.NoError(t, err)
	v, err := reopened.Get(ctx, storage.KeyTheme)
	require.NoError(t, err)
	assert.JSONEq(t, `"dark"`, string(v))

	keys, err := reopened.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{storage.KeyTheme}, keys)
}

func TestFile_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	f, err := storage.NewFile(path, storage.DefaultQuota)
	require.NoError(t, err)
	keys, err := f.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFile_RejectsNonJSON(t *testing.T) {
	f, err := storage.NewFile(filepath.Join(t.TempDir(), "s.json"), storage.DefaultQuota)
	require.NoError(t, err)
	assert.Error(t, f.Set(context.Background(), "k", []byte("{oops")))
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	b, err := storage.Open(ctx, "", 0)
	require.NoError(t, err)
	assert.IsType(t, &storage.Memory{}, b)

	b, err = storage.Open(ctx, filepath.Join(t.TempDir(), "s.json"), 0)
	require.NoError(t, err)
	assert.IsType(t, &storage.File{}, b)

	_, err = storage.Open(ctx, "redis://:bad url", 0)
	assert.Error(t, err)
}
