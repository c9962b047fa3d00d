package strategy

import (
	"fmt"
	"strconv"
	"strings"

	"finops-arcade/internal/billing"
)

// Parse builds a strategy from a "name" or "name:param" spec as used by the
// CLI, e.g. "fixed:2", "average:0.9", "percentile:0.5" or "oracle". The
// oracle needs the full series and rates; other strategies ignore them.
func Parse(spec string, series []float64, rates billing.Rates) (Strategy, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(spec), ":")
	param := 0.0
	if hasArg {
		v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return nil, fmt.Errorf("strategy %q: invalid parameter %q: %w", name, arg, err)
		}
		param = v
	}

	switch strings.ToLower(name) {
	case "fixed":
		if !hasArg {
			return nil, fmt.Errorf("strategy fixed needs a commitment, e.g. fixed:2")
		}
		return FixedStrategy{Commitment: param}, nil
	case "average", "avg":
		return AverageStrategy{Fraction: param}, nil
	case "percentile", "p":
		if !hasArg {
			param = 0.5
		}
		if param < 0 || param > 1 {
			return nil, fmt.Errorf("percentile must be in [0, 1], got %v", param)
		}
		return PercentileStrategy{Q: param}, nil
	case "oracle":
		return NewOracleStrategy(series, rates)
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
