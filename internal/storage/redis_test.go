package storage_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/appliance-compare/internal/storage"
)

var errOOM = errors.New("OOM command not allowed when used memory > 'maxmemory'.")

// oomHook fails SET on chosen keys a fixed number of times, the way a server
// at maxmemory with noeviction answers writes.
type oomHook struct {
	mu    sync.Mutex
	fails map[string]int
	sets  map[string]int
}

func (h *oomHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *oomHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		args := cmd.Args()
		if cmd.Name() == "set" && len(args) > 1 {
			key := fmt.Sprint(args[1])
			h.mu.Lock()
			h.sets[key]++
			fail := h.fails[key] > 0
			if fail {
				h.fails[key]--
			}
			h.mu.Unlock()
			if fail {
				return errOOM
			}
		}
		return next(ctx, cmd)
	}
}

func (h *oomHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newRedisBackend(t *testing.T) (*storage.Redis, *miniredis.Miniredis, *oomHook) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	hook := &oomHook{fails: map[string]int{}, sets: map[string]int{}}
	client.AddHook(hook)
	backend := storage.NewRedisClient(client)
	t.Cleanup(func() { _ = backend.Close() })
	return backend, mr, hook
}

func TestRedis_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend, mr, _ := newRedisBackend(t)

	require.NoError(t, backend.Set(ctx, storage.KeyTheme, []byte(`"dark"`)))
	got, err := backend.Get(ctx, storage.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, `"dark"`, string(got))
	assert.True(t, mr.Exists(storage.KeyTheme))

	require.NoError(t, backend.Delete(ctx, storage.KeyTheme))
	_, err = backend.Get(ctx, storage.KeyTheme)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRedis_KeysOnlyListsNamespace(t *testing.T) {
	ctx := context.Background()
	backend, mr, _ := newRedisBackend(t)

	require.NoError(t, mr.Set("someone-else:key", "x"))
	require.NoError(t, backend.Set(ctx, storage.KeyFavorites, []byte(`[]`)))
	require.NoError(t, backend.Set(ctx, storage.KeyCompare, []byte(`{}`)))

	keys, err := backend.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{storage.KeyFavorites, storage.KeyCompare}, keys)
}

func TestRedis_OOMIsQuotaError(t *testing.T) {
	ctx := context.Background()
	backend, _, hook := newRedisBackend(t)
	hook.fails[storage.KeyTheme] = 1

	err := backend.Set(ctx, storage.KeyTheme, []byte(`"dark"`))
	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)
}

func TestSafe_RedisQuotaTriggersCleanupAndRetry(t *testing.T) {
	ctx := context.Background()
	backend, _, hook := newRedisBackend(t)
	s := storage.NewSafe(backend, quietLogger())

	history := make([]string, 12)
	for i := range history {
		history[i] = fmt.Sprintf("query-%02d", i)
	}
	require.True(t, s.Set(ctx, storage.KeySearchHistory, history))

	hook.fails[storage.KeyFavorites] = 1
	require.True(t, s.Set(ctx, storage.KeyFavorites, []string{"sharp-cv-r71"}))

	assert.Equal(t, 2, hook.sets[storage.KeyFavorites], "one refused write and one retry")
	assert.Equal(t, history[:storage.CleanupKeep], storage.Get(ctx, s, storage.KeySearchHistory, []string(nil)))
	assert.Equal(t, []string{"sharp-cv-r71"}, storage.Get(ctx, s, storage.KeyFavorites, []string(nil)))
}

func TestSafe_RedisPersistentOOMFailsGracefully(t *testing.T) {
	ctx := context.Background()
	backend, _, hook := newRedisBackend(t)
	s := storage.NewSafe(backend, quietLogger())

	hook.fails[storage.KeyFavorites] = 2
	assert.False(t, s.Set(ctx, storage.KeyFavorites, []string{"a"}))
	assert.Equal(t, []string{"fallback"}, storage.Get(ctx, s, storage.KeyFavorites, []string{"fallback"}))
}

func TestOpen_RedisURL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	backend, err := storage.Open(ctx, "redis://"+mr.Addr(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	require.NoError(t, backend.Set(ctx, storage.KeyTheme, []byte(`"light"`)))
	v, err := mr.Get(storage.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, `"light"`, v)

	addr := mr.Addr()
	mr.Close()
	_, err = storage.Open(ctx, "redis://"+addr, 0)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
}
