package compare

import (
	"errors"
	"fmt"
	"math"

	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/filter"
)

const (
	// MinProducts is the smallest comparable selection.
	MinProducts = 2
	// MaxProducts is the number of compare slots.
	MaxProducts = 4
)

var (
	ErrTooFew          = errors.New("at least 2 products are needed to compare")
	ErrTooMany         = errors.New("at most 4 products can be compared")
	ErrMixedCategories = errors.New("compared products must share a category")
	ErrDuplicate       = errors.New("a product appears twice in the comparison")
)

// Criterion is a scored comparison axis.
type Criterion string

const (
	CriterionPrice      Criterion = "price"
	CriterionCapacity   Criterion = "capacity"
	CriterionNoise      Criterion = "noise"
	CriterionEfficiency Criterion = "efficiency"
)

// Score holds one product's per-criterion scores (0-100) and weighted total.
type Score struct {
	ProductID  string  `json:"productId"`
	Price      float64 `json:"price"`
	Capacity   float64 `json:"capacity"`
	Noise      float64 `json:"noise"`
	Efficiency float64 `json:"efficiency"`
	Total      float64 `json:"total"`
}

// Winners names the product ID that wins each category.
type Winners struct {
	Budget   string `json:"budget"`
	Quiet    string `json:"quiet"`
	Powerful string `json:"powerful"`
	Value    string `json:"value"`
	Overall  string `json:"overall"`
}

// Unanimous reports whether a single product won every category.
func (w Winners) Unanimous() bool {
	return w.Budget == w.Quiet && w.Quiet == w.Powerful &&
		w.Powerful == w.Value && w.Value == w.Overall
}

// Result is the full analysis of a selection.
type Result struct {
	Category catalog.Category  `json:"category"`
	Products []catalog.Product `json:"products"`
	Weights  Weights           `json:"weights"`
	Scores   []Score           `json:"scores"`
	Winners  Winners           `json:"winners"`
	Summary  Summary           `json:"summary"`
	Rows     []Row             `json:"rows"`
}

// ScoreFor returns the score of a product in the result.
func (r *Result) ScoreFor(id string) (Score, bool) {
	for _, s := range r.Scores {
		if s.ProductID == id {
			return s, true
		}
	}
	return Score{}, false
}

// Analyze scores 2-4 products of one category under w.
func Analyze(products []catalog.Product, w Weights) (*Result, error) {
	switch {
	case len(products) < MinProducts:
		return nil, fmt.Errorf("comparing %d products: %w", len(products), ErrTooFew)
	case len(products) > MaxProducts:
		return nil, fmt.Errorf("comparing %d products: %w", len(products), ErrTooMany)
	}
	cat := products[0].Category
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		if p.Category != cat {
			return nil, fmt.Errorf("comparing %s with %s: %w", cat, p.Category, ErrMixedCategories)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("comparing %s: %w", p.ID, ErrDuplicate)
		}
		seen[p.ID] = true
	}

	w = w.Clamp()
	scores := scoreAll(products, w)
	winners := pickWinners(products, scores)

	return &Result{
		Category: cat,
		Products: products,
		Weights:  w,
		Scores:   scores,
		Winners:  winners,
		Summary:  summarize(products, winners),
		Rows:     Differences(products),
	}, nil
}

func noiseOrWorst(p catalog.Product) float64 {
	if v := p.Noise(); v != nil {
		return *v
	}
	return filter.WorstNoiseDB
}

func capacityOrWorst(p catalog.Product) float64 {
	if v := p.Capacity(); v != nil {
		return *v
	}
	return filter.WorstCapacity
}

func efficiencyScore(p catalog.Product) float64 {
	level := 5
	if v := p.EnergyEfficiency(); v != nil {
		level = *v
	}
	return float64((6 - level) * 20)
}

// invertedScore maps v into [0,100] where the set minimum scores 100.
func invertedScore(v, lo, hi float64) float64 {
	if hi == lo {
		return 100
	}
	return (hi - v) / (hi - lo) * 100
}

func scoreAll(products []catalog.Product, w Weights) []Score {
	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	minNoise, maxNoise := math.Inf(1), math.Inf(-1)
	maxCapacity := 0.0
	for _, p := range products {
		minPrice, maxPrice = math.Min(minPrice, p.Price), math.Max(maxPrice, p.Price)
		noise := noiseOrWorst(p)
		minNoise, maxNoise = math.Min(minNoise, noise), math.Max(maxNoise, noise)
		maxCapacity = math.Max(maxCapacity, capacityOrWorst(p))
	}

	total := w.Total()
	scores := make([]Score, len(products))
	for i, p := range products {
		s := Score{
			ProductID:  p.ID,
			Price:      invertedScore(p.Price, minPrice, maxPrice),
			Noise:      invertedScore(noiseOrWorst(p), minNoise, maxNoise),
			Efficiency: efficiencyScore(p),
		}
		if maxCapacity > 0 {
			s.Capacity = capacityOrWorst(p) / maxCapacity * 100
		}
		if total > 0 {
			s.Total = (s.Price*w.Price + s.Capacity*w.Capacity +
				s.Noise*w.Noise + s.Efficiency*w.Efficiency) / total
		}
		scores[i] = s
	}
	return scores
}

// bestIndex returns the index of the first product with the lowest key.
func bestIndex(n int, key func(int) float64) int {
	best := 0
	for i := 1; i < n; i++ {
		if key(i) < key(best) {
			best = i
		}
	}
	return best
}

func pickWinners(products []catalog.Product, scores []Score) Winners {
	n := len(products)
	at := func(i int) string { return products[i].ID }
	return Winners{
		Budget:   at(bestIndex(n, func(i int) float64 { return products[i].Price })),
		Quiet:    at(bestIndex(n, func(i int) float64 { return noiseOrWorst(products[i]) })),
		Powerful: at(bestIndex(n, func(i int) float64 { return -capacityOrWorst(products[i]) })),
		Value:    at(bestIndex(n, func(i int) float64 { return filter.ProductValueScore(products[i]) })),
		Overall:  at(bestIndex(n, func(i int) float64 { return -scores[i].Total })),
	}
}
