package catalog

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/tayloree/appliance-compare/internal/api"
)

//go:embed data/*.json
var bundled embed.FS

// Source yields the raw records of one category.
type Source interface {
	Fetch(ctx context.Context, cat Category) ([]api.RawRecord, error)
}

// StaticSource reads per-category files shaped {"products": [...]} from a
// filesystem. The zero value is unusable; use BundledSource or NewStaticSource.
type StaticSource struct {
	fsys fs.FS
}

// NewStaticSource reads <category>.json files from the root of fsys.
func NewStaticSource(fsys fs.FS) *StaticSource {
	return &StaticSource{fsys: fsys}
}

// BundledSource returns the dataset compiled into the binary.
func BundledSource() *StaticSource {
	sub, err := fs.Sub(bundled, "data")
	if err != nil {
		panic(err)
	}
	return NewStaticSource(sub)
}

// Fetch implements Source.
func (s *StaticSource) Fetch(_ context.Context, cat Category) ([]api.RawRecord, error) {
	data, err := fs.ReadFile(s.fsys, string(cat)+".json")
	if err != nil {
		return nil, fmt.Errorf("reading bundled %s data: %w", cat, err)
	}
	records, err := api.DecodeCatalogFile(data)
	if err != nil {
		return nil, fmt.Errorf("parsing bundled %s data: %w", cat, err)
	}
	return records, nil
}

// RemoteSource adapts the REST client to Source.
type RemoteSource struct {
	Client      *api.Client
	InStockOnly bool
}

// Fetch implements Source.
func (s RemoteSource) Fetch(ctx context.Context, cat Category) ([]api.RawRecord, error) {
	return s.Client.FetchProducts(ctx, string(cat), s.InStockOnly)
}
