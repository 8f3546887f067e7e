package compare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/compare"
)

type fakeResolver map[string]catalog.Product

func (r fakeResolver) Find(cat catalog.Category, id string) (catalog.Product, bool) {
	p, ok := r[id]
	return p, ok && p.Category == cat
}

func TestSelection_AddAndLimit(t *testing.T) {
	var s compare.Selection
	for i, id := range []string{"1", "2", "3", "4"} {
		replaced, err := s.Add(dehumidifier(id, id, float64(i), 1, 1, 1))
		require.NoError(t, err)
		assert.False(t, replaced)
	}
	assert.True(t, s.Ready())

	_, err := s.Add(dehumidifier("5", "5", 1, 1, 1, 1))
	assert.ErrorIs(t, err, compare.ErrSelectionFull)
	assert.Equal(t, 4, s.Len())

	_, err = s.Add(dehumidifier("2", "2", 1, 1, 1, 1))
	assert.NoError(t, err, "re-adding is a no-op")
	assert.Equal(t, 4, s.Len())
}

func TestSelection_OtherCategoryReplaces(t *testing.T) {
	var s compare.Selection
	_, _ = s.Add(dehumidifier("1", "1", 1, 1, 1, 1))
	_, _ = s.Add(dehumidifier("2", "2", 1, 1, 1, 1))

	fan := catalog.Product{ID: "f1", Category: catalog.Fan, Fan: &catalog.FanSpecs{}}
	replaced, err := s.Add(fan)
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, catalog.Fan, s.Category)
	assert.Equal(t, []string{"f1"}, s.IDs)
	assert.False(t, s.Ready())
}

func TestSelection_ToggleRemoveClear(t *testing.T) {
	var s compare.Selection
	p := dehumidifier("1", "1", 1, 1, 1, 1)
	_, _ = s.Toggle(p)
	assert.True(t, s.Contains("1"))
	_, _ = s.Toggle(p)
	assert.False(t, s.Contains("1"))
	assert.Empty(t, s.Category)

	_, _ = s.Add(p)
	s.Clear()
	assert.Zero(t, s.Len())
}

func TestSelection_Resolve(t *testing.T) {
	a, b := pairAB()[0], pairAB()[1]
	s := compare.Selection{Category: catalog.Dehumidifier, IDs: []string{"b", "gone", "a"}}
	got := s.Resolve(fakeResolver{"a": a, "b": b})
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}
