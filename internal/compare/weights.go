package compare

import "math"

// Weights sets the relative importance of each criterion. Each weight is
// clamped to [0, 100]; the total score divides by their sum.
type Weights struct {
	Price      float64 `json:"price"`
	Capacity   float64 `json:"capacity"`
	Noise      float64 `json:"noise"`
	Efficiency float64 `json:"efficiency"`
}

// DefaultWeights favours price and capacity.
var DefaultWeights = Weights{Price: 30, Capacity: 30, Noise: 20, Efficiency: 20}

// MaxWeight is the upper bound of a single weight.
const MaxWeight = 100

// Clamp returns w with every weight finite and inside [0, MaxWeight].
func (w Weights) Clamp() Weights {
	return Weights{
		Price:      clampWeight(w.Price),
		Capacity:   clampWeight(w.Capacity),
		Noise:      clampWeight(w.Noise),
		Efficiency: clampWeight(w.Efficiency),
	}
}

// Total is the sum of the clamped weights.
func (w Weights) Total() float64 {
	c := w.Clamp()
	return c.Price + c.Capacity + c.Noise + c.Efficiency
}

func clampWeight(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, MaxWeight)
}
