// Package strategy picks an hourly commitment from observed usage.
package strategy

import (
	"fmt"
	"math"

	"finops-arcade/internal/analysis"
)

// Context is what a strategy sees when it commits: the hours observed before
// locking plus the bounds the commitment slider allows.
type Context struct {
	Observed []float64
	Min      float64
	Max      float64
	Step     float64
}

type Strategy interface {
	Name() string
	Commit(ctx Context) float64
}

// Snap clamps c to [ctx.Min, ctx.Max] and rounds it to the nearest step.
func (ctx Context) Snap(c float64) float64 {
	if ctx.Step > 0 {
		c = math.Round((c-ctx.Min)/ctx.Step)*ctx.Step + ctx.Min
		// keep one decimal digit per step from drifting, e.g. 1.2000000000000002
		c = math.Round(c*1e6) / 1e6
	}
	if c < ctx.Min {
		c = ctx.Min
	}
	if ctx.Max > ctx.Min && c > ctx.Max {
		c = ctx.Max
	}
	return c
}

// FixedStrategy always commits the same amount.
type FixedStrategy struct {
	Commitment float64
}

func (s FixedStrategy) Name() string { return fmt.Sprintf("fixed(%.2f)", s.Commitment) }

func (s FixedStrategy) Commit(ctx Context) float64 { return ctx.Snap(s.Commitment) }

// AverageStrategy commits Fraction of the observed mean. Fraction 0 means 1.
type AverageStrategy struct {
	Fraction float64
}

func (s AverageStrategy) Name() string { return fmt.Sprintf("average(%.2f)", s.fraction()) }

func (s AverageStrategy) fraction() float64 {
	if s.Fraction <= 0 {
		return 1
	}
	return s.Fraction
}

func (s AverageStrategy) Commit(ctx Context) float64 {
	if len(ctx.Observed) == 0 {
		return ctx.Snap(0)
	}
	sum := 0.0
	for _, v := range ctx.Observed {
		sum += v
	}
	return ctx.Snap(sum / float64(len(ctx.Observed)) * s.fraction())
}

// PercentileStrategy commits the Q-th quantile (0..1) of observed usage.
type PercentileStrategy struct {
	Q float64
}

func (s PercentileStrategy) Name() string { return fmt.Sprintf("percentile(%.2f)", s.Q) }

func (s PercentileStrategy) Commit(ctx Context) float64 {
	if len(ctx.Observed) == 0 {
		return ctx.Snap(0)
	}
	return ctx.Snap(analysis.Percentile(ctx.Observed, s.Q))
}
