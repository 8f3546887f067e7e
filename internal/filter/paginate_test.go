package filter_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/filter"
)

func manyProducts(count int) []catalog.Product {
	out := make([]catalog.Product, count)
	for i := range out {
		out[i] = dehumidifier(fmt.Sprintf("%03d", i), "X", float64(i), nil)
	}
	return out
}

func TestPaginate_Basics(t *testing.T) {
	pg := filter.Paginate(manyProducts(30), 3, 0)
	assert.Equal(t, 3, pg.Page)
	assert.Equal(t, 3, pg.TotalPages)
	assert.Equal(t, 30, pg.Total)
	assert.Len(t, pg.Items, 6)
	assert.Equal(t, "024", pg.Items[0].ID)
	assert.True(t, pg.HasPrev())
	assert.False(t, pg.HasNext())
}

func TestPaginate_Empty(t *testing.T) {
	pg := filter.Paginate(nil, 4, filter.PageSize)
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 0, pg.TotalPages)
	assert.Empty(t, pg.Items)
	assert.Empty(t, pg.Numbers)
}

func TestPaginate_ClampsAfterShrink(t *testing.T) {
	pg := filter.Paginate(manyProducts(120), 10, filter.PageSize)
	assert.Equal(t, 10, pg.Page)

	shrunk := filter.Paginate(manyProducts(13), pg.Page, filter.PageSize)
	assert.Equal(t, 2, shrunk.Page)
	assert.LessOrEqual(t, shrunk.Page, shrunk.TotalPages)
	assert.Len(t, shrunk.Items, 1)
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{2, 10, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{9, 10, []int{6, 7, 8, 9, 10}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{99, 10, []int{6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.current, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, filter.PageWindow(tt.current, tt.total, filter.MaxPageLinks))
		})
	}
}

func TestPageWindow_NeverExceedsLimit(t *testing.T) {
	for total := 0; total <= 40; total++ {
		for page := -1; page <= total+2; page++ {
			w := filter.PageWindow(page, total, filter.MaxPageLinks)
			assert.LessOrEqual(t, len(w), filter.MaxPageLinks)
			if total > 0 {
				assert.Contains(t, w, filter.ClampPage(page, total))
			}
		}
	}
}
