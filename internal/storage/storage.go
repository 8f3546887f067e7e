// Package storage is a small namespaced key/value store for user state with a
// byte quota, in the spirit of browser localStorage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrQuotaExceeded is returned by a backend write that would exceed its quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrNotFound is returned when a key has no value.
	ErrNotFound = errors.New("storage key not found")
	// ErrUnavailable is returned when a remote backend cannot be reached.
	ErrUnavailable = errors.New("storage backend unavailable")
)

// DefaultQuota mirrors the common 5 MiB localStorage budget.
const DefaultQuota int64 = 5 << 20

// KeyPrefix namespaces every key written by the application.
const KeyPrefix = "appcmp:"

const (
	KeyFavorites       = KeyPrefix + "favorites"
	KeyRecentlyViewed  = KeyPrefix + "recently-viewed"
	KeySearchHistory   = KeyPrefix + "search-history"
	KeyCookieConsent   = KeyPrefix + "cookie-consent"
	KeyTheme           = KeyPrefix + "theme"
	KeyScrollPositions = KeyPrefix + "scroll-positions"
	KeyCompare         = KeyPrefix + "compare"
)

// RecencyKeys hold newest-first JSON arrays that cleanup may truncate.
var RecencyKeys = []string{KeyRecentlyViewed, KeySearchHistory, KeyScrollPositions}

// Backend is a raw byte store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Open selects a backend from a location: "memory", a redis:// or rediss://
// URL, or a file path. An empty location uses the in-memory backend.
func Open(ctx context.Context, location string, quota int64) (Backend, error) {
	if quota <= 0 {
		quota = DefaultQuota
	}
	switch {
	case location == "" || location == "memory":
		return NewMemory(quota), nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		b, err := NewRedis(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("opening redis storage: %w: %w", ErrUnavailable, err)
		}
		return b, nil
	default:
		b, err := NewFile(location, quota)
		if err != nil {
			return nil, fmt.Errorf("opening file storage: %w", err)
		}
		return b, nil
	}
}
