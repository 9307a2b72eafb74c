package pricefeed

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

// Feed is the synthetic tick source: an independent random walk per
// instrument, each step drawn uniformly from [-step, +step] and
// floor-clamped at zero. There is no drift and no correlation between
// instruments.
type Feed struct {
	step float64
	rng  *rand.Rand
}

func New(step float64) *Feed {
	return NewSeeded(step, rand.Uint64())
}

// NewSeeded fixes the walk for tests.
func NewSeeded(step float64, seed uint64) *Feed {
	return &Feed{
		step: step,
		rng:  rand.New(rand.NewPCG(seed, seed)),
	}
}

func (f *Feed) Next(price decimal.Decimal) decimal.Decimal {
	delta := decimal.NewFromFloat((f.rng.Float64()*2 - 1) * f.step)
	next := price.Add(delta)
	if next.IsNegative() {
		return decimal.Zero
	}
	return next
}
