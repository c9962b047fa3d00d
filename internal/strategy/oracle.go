package strategy

import (
	"fmt"

	"finops-arcade/internal/billing"
)

// OracleStrategy is a "perfect hindsight" commitment. It sees the whole
// horizon up front and grid-searches the slider range for the commitment with
// the lowest total cost.
//
// Notes:
//   - This is an upper bound for ranking other strategies, not something a
//     player could do.
//   - Ties go to the smaller commitment.
type OracleStrategy struct {
	series []float64
	rates  billing.Rates
}

func NewOracleStrategy(series []float64, rates billing.Rates) (*OracleStrategy, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no usage")
	}
	if rates.HorizonHours <= 0 {
		return nil, fmt.Errorf("horizon must be positive")
	}
	return &OracleStrategy{series: series, rates: rates}, nil
}

func (s *OracleStrategy) Name() string { return "oracle" }

// Commit ignores ctx.Observed and optimizes over the full series.
func (s *OracleStrategy) Commit(ctx Context) float64 {
	best, _ := Optimize(s.series, s.rates, ctx)
	return best
}

// Optimize returns the grid commitment in [ctx.Min, ctx.Max] minimizing total
// cost for series, together with its billing result.
func Optimize(series []float64, rates billing.Rates, ctx Context) (float64, billing.Result) {
	step := ctx.Step
	if step <= 0 {
		step = 0.1
	}
	hi := ctx.Max
	if hi < ctx.Min {
		hi = ctx.Min
	}

	best := ctx.Min
	bestRes := rates.Compute(series, best)
	steps := int((hi-ctx.Min)/step + 0.5)
	for k := 1; k <= steps; k++ {
		c := ctx.Snap(ctx.Min + float64(k)*step)
		res := rates.Compute(series, c)
		if res.TotalCost < bestRes.TotalCost-1e-9 {
			best, bestRes = c, res
		}
	}
	return best, bestRes
}
