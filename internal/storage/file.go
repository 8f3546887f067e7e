package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File persists entries as one JSON object on disk. Reads are served from
// memory; every write rewrites the file atomically.
type File struct {
	path string
	mem  *Memory
}

// DefaultPath is <UserConfigDir>/appcmp/storage.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "appcmp", "storage.json"), nil
}

// NewFile opens (or creates) the store at path. A corrupt file is treated as
// empty and overwritten on the next write.
func NewFile(path string, quota int64) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	f := &File{path: path, mem: NewMemory(quota)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("read storage file: %w", err)
	}

	var entries map[string]json.RawMessage
	if len(data) == 0 || json.Unmarshal(data, &entries) != nil {
		return f, nil
	}
	for k, v := range entries {
		f.mem.data[k] = []byte(v)
		f.mem.used += entrySize(k, v)
	}
	return f, nil
}

// Path returns the backing file location.
func (f *File) Path() string { return f.path }

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	return f.mem.Get(ctx, key)
}

func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("storing %s: value is not JSON", key)
	}
	if err := f.mem.Set(ctx, key, value); err != nil {
		return err
	}
	return f.flush()
}

func (f *File) Delete(ctx context.Context, key string) error {
	if err := f.mem.Delete(ctx, key); err != nil {
		return err
	}
	return f.flush()
}

func (f *File) Keys(ctx context.Context) ([]string, error) {
	return f.mem.Keys(ctx)
}

func (f *File) Close() error { return nil }

func (f *File) flush() error {
	f.mem.mu.Lock()
	entries := make(map[string]json.RawMessage, len(f.mem.data))
	for k, v := range f.mem.data {
		entries[k] = json.RawMessage(v)
	}
	f.mem.mu.Unlock()

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace storage: %w", err)
	}
	return nil
}
