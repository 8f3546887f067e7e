package compare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/compare"
)

func TestSummary_Leader(t *testing.T) {
	res, err := compare.Analyze(pairAB(), compare.DefaultWeights)
	require.NoError(t, err)

	s := res.Summary
	assert.Equal(t, compare.SummaryLeader, s.Kind)
	assert.Equal(t, "a", s.Leader)
	assert.Equal(t, []compare.Criterion{compare.CriterionPrice, compare.CriterionNoise}, s.Wins["a"])
	assert.Equal(t, []compare.Criterion{compare.CriterionCapacity}, s.Wins["b"])
	assert.Contains(t, s.Text, "Acme A wins on price and noise")
	assert.Contains(t, s.Text, "Acme B wins on capacity")
}

func TestSummary_Unanimous(t *testing.T) {
	products := []catalog.Product{
		dehumidifier("a", "A", 8000, 20, 35, 1),
		dehumidifier("b", "B", 15000, 16, 45, 2),
	}
	res, err := compare.Analyze(products, compare.DefaultWeights)
	require.NoError(t, err)

	assert.True(t, res.Winners.Unanimous())
	assert.Equal(t, compare.SummaryUnanimous, res.Summary.Kind)
	assert.Equal(t, "a", res.Summary.Leader)
	assert.Contains(t, res.Summary.Text, "all-around winner")
}

func TestSummary_EvenSplit(t *testing.T) {
	// a is cheaper, b is quieter, capacity ties.
	products := []catalog.Product{
		dehumidifier("a", "A", 8000, 10, 45, 1),
		dehumidifier("b", "B", 15000, 10, 35, 1),
	}
	res, err := compare.Analyze(products, compare.DefaultWeights)
	require.NoError(t, err)

	assert.Equal(t, compare.SummaryEven, res.Summary.Kind)
	assert.Empty(t, res.Summary.Leader)
	assert.Contains(t, res.Summary.Text, "even split")
}

func TestSummary_EvenSplitZeroZero(t *testing.T) {
	products := []catalog.Product{
		dehumidifier("a", "A", 10000, 10, 40, 3),
		dehumidifier("b", "B", 10000, 10, 40, 1),
	}
	res, err := compare.Analyze(products, compare.DefaultWeights)
	require.NoError(t, err)

	require.False(t, res.Winners.Unanimous())
	assert.Equal(t, compare.SummaryEven, res.Summary.Kind)
	assert.Contains(t, res.Summary.Text, "evenly matched")
}

func TestSummary_GenericForThreeOrMore(t *testing.T) {
	products := append(pairAB(), dehumidifier("c", "C", 12000, 12, 30, 3))
	res, err := compare.Analyze(products, compare.DefaultWeights)
	require.NoError(t, err)

	assert.Equal(t, compare.SummaryGeneric, res.Summary.Kind)
	assert.Contains(t, res.Summary.Text, "3 models")
}
