package storage_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/appliance-compare/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingBackend records write attempts on top of a memory store.
type countingBackend struct {
	*storage.Memory
	sets map[string]int
}

func newCounting(quota int64) *countingBackend {
	return &countingBackend{Memory: storage.NewMemory(quota), sets: map[string]int{}}
}

func (c *countingBackend) Set(ctx context.Context, key string, value []byte) error {
	c.sets[key]++
	return c.Memory.Set(ctx, key, value)
}

func TestSafe_SetAndGet(t *testing.T) {
	ctx := context.Background()
	s := storage.NewSafe(storage.NewMemory(0), quietLogger())

	require.True(t, s.Set(ctx, storage.KeyFavorites, []string{"a", "b"}))
	got := storage.Get(ctx, s, storage.KeyFavorites, []string(nil))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestSafe_GetMissingOrCorruptReturnsDefault(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory(0)
	s := storage.NewSafe(mem, quietLogger())

	assert.Equal(t, "light", storage.Get(ctx, s, storage.KeyTheme, "light"))

	require.NoError(t, mem.Set(ctx, storage.KeyTheme, []byte("{corrupt")))
	assert.Equal(t, "light", storage.Get(ctx, s, storage.KeyTheme, "light"))

	require.NoError(t, mem.Set(ctx, storage.KeyFavorites, []byte(`{"not":"a list"}`)))
	assert.Equal(t, []string{"x"}, storage.Get(ctx, s, storage.KeyFavorites, []string{"x"}))
}

func TestSafe_GetNullReturnsDefault(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory(0)
	s := storage.NewSafe(mem, quietLogger())

	require.NoError(t, mem.Set(ctx, storage.KeyTheme, []byte("null")))
	assert.Equal(t, "light", storage.Get(ctx, s, storage.KeyTheme, "light"))

	require.NoError(t, mem.Set(ctx, storage.KeyFavorites, []byte(" null\n")))
	assert.Equal(t, []string{"x"}, storage.Get(ctx, s, storage.KeyFavorites, []string{"x"}))

	require.NoError(t, mem.Set(ctx, storage.KeyFavorites, []byte("[]")))
	assert.Empty(t, storage.Get(ctx, s, storage.KeyFavorites, []string{"x"}))
}

func TestSafe_QuotaTriggersCleanupAndRetry(t *testing.T) {
	ctx := context.Background()
	backend := newCounting(400)
	s := storage.NewSafe(backend, quietLogger())

	history := make([]string, 20)
	for i := range history {
		history[i] = fmt.Sprintf("query-%02d", i)
	}
	require.True(t, s.Set(ctx, storage.KeySearchHistory, history))

	big := make([]byte, 150)
	for i := range big {
		big[i] = 'x'
	}
	require.True(t, s.Set(ctx, storage.KeyTheme, string(big)))

	assert.Equal(t, 2, backend.sets[storage.KeyTheme], "one failed write and one retry")
	kept := storage.Get(ctx, s, storage.KeySearchHistory, []string(nil))
	assert.Equal(t, history[:storage.CleanupKeep], kept)
}

func TestSafe_QuotaWithoutRecencyKeysFailsGracefully(t *testing.T) {
	ctx := context.Background()
	backend := newCounting(10)
	s := storage.NewSafe(backend, quietLogger())

	assert.False(t, s.Set(ctx, storage.KeyFavorites, []string{"a-very-long-product-id"}))
	assert.Equal(t, 2, backend.sets[storage.KeyFavorites])
}

func TestSafe_UnencodableValue(t *testing.T) {
	s := storage.NewSafe(storage.NewMemory(0), quietLogger())
	assert.False(t, s.Set(context.Background(), "k", func() {}))
}

func TestSafe_CleanupDropsCorruptLists(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory(0)
	require.NoError(t, mem.Set(ctx, storage.KeyRecentlyViewed, []byte(`"nope"`)))
	require.NoError(t, mem.Set(ctx, storage.KeyScrollPositions, []byte(`[1,2]`)))

	s := storage.NewSafe(mem, quietLogger())
	assert.Equal(t, 1, s.Cleanup(ctx))
	_, err := mem.Get(ctx, storage.KeyRecentlyViewed)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMapRedisError(t *testing.T) {
	assert.NoError(t, storage.MapRedisError(nil))
	assert.ErrorIs(t, storage.MapRedisError(errors.New("OOM command not allowed when used memory > 'maxmemory'")), storage.ErrQuotaExceeded)
	other := errors.New("connection refused")
	assert.Equal(t, other, storage.MapRedisError(other))
}
