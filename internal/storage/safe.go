package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// CleanupKeep is how many newest entries each recency list keeps after a
// quota cleanup.
const CleanupKeep = 5

// Safe wraps a Backend with JSON encoding and quota recovery. Its methods
// never panic and never return errors: user state is best effort.
type Safe struct {
	backend Backend
	logger  *slog.Logger
}

// NewSafe wraps backend. A nil logger uses slog.Default.
func NewSafe(backend Backend, logger *slog.Logger) *Safe {
	if logger == nil {
		logger = slog.Default()
	}
	return &Safe{backend: backend, logger: logger}
}

// Backend exposes the wrapped store.
func (s *Safe) Backend() Backend { return s.backend }

// Set stores v under key. On a quota error it truncates the recency lists
// and retries once. It reports whether the value was stored.
func (s *Safe) Set(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("storage encode failed", "key", key, "error", err)
		return false
	}

	err = s.backend.Set(ctx, key, data)
	if errors.Is(err, ErrQuotaExceeded) {
		s.logger.Info("storage quota exceeded, cleaning up", "key", key)
		s.Cleanup(ctx)
		err = s.backend.Set(ctx, key, data)
	}
	if err != nil {
		s.logger.Warn("storage write failed", "key", key, "error", err)
		return false
	}
	return true
}

// Remove deletes key. It reports whether the delete succeeded.
func (s *Safe) Remove(ctx context.Context, key string) bool {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.logger.Warn("storage delete failed", "key", key, "error", err)
		return false
	}
	return true
}

// Cleanup truncates every recency list to its CleanupKeep newest entries.
// Values that are not JSON arrays are dropped. It returns the number of keys
// rewritten or removed.
func (s *Safe) Cleanup(ctx context.Context) int {
	changed := 0
	for _, key := range RecencyKeys {
		data, err := s.backend.Get(ctx, key)
		if err != nil {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			if s.backend.Delete(ctx, key) == nil {
				changed++
			}
			continue
		}
		if len(items) <= CleanupKeep {
			continue
		}
		trimmed, err := json.Marshal(items[:CleanupKeep])
		if err != nil {
			continue
		}
		if s.backend.Set(ctx, key, trimmed) == nil {
			changed++
		}
	}
	s.logger.Debug("storage cleanup finished", "changed", changed)
	return changed
}

// Get decodes key into a fresh T. Missing, null or corrupt values return def.
func Get[T any](ctx context.Context, s *Safe, key string, def T) T {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("storage read failed", "key", key, "error", err)
		}
		return def
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return def
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("storage value corrupt, using default", "key", key, "error", err)
		return def
	}
	return v
}
