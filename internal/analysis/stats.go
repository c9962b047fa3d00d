// Package analysis summarizes usage series and ranks simulation outcomes.
package analysis

import (
	"math"
	"sort"
)

// UsageStats is a persona-independent summary of one usage series.
type UsageStats struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	P05   float64 `json:"p05"`
	P95   float64 `json:"p95"`

	// SpikeHours counts hours above SpikeThreshold times the series minimum.
	// The minimum stands in for the baseline rate, which the series alone
	// does not know.
	SpikeHours int `json:"spike_hours"`
}

// SpikeThreshold is the ratio to the baseline above which an hour counts as a spike.
const SpikeThreshold = 1.5

func ComputeStats(series []float64) UsageStats {
	s := UsageStats{}
	if len(series) == 0 {
		return s
	}
	s.Count = len(series)

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(series))
	for _, v := range series {
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(vals)
	s.Total = sum
	s.Min = minv
	s.Max = maxv
	s.Mean = sum / float64(len(vals))
	s.P05 = percentileSorted(vals, 0.05)
	s.P95 = percentileSorted(vals, 0.95)
	for _, v := range series {
		if v > minv*SpikeThreshold {
			s.SpikeHours++
		}
	}
	return s
}

// Percentile returns the q-th quantile (0..1) of series without modifying it.
func Percentile(series []float64, q float64) float64 {
	sorted := append([]float64(nil), series...)
	sort.Float64s(sorted)
	return percentileSorted(sorted, q)
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// IsSpike reports whether current exceeds SpikeThreshold times the mean of
// the last window samples of previous. Fewer than window samples never spike.
func IsSpike(previous []float64, current float64, window int) bool {
	if window <= 0 || len(previous) < window {
		return false
	}
	sum := 0.0
	for _, v := range previous[len(previous)-window:] {
		sum += v
	}
	return current > sum/float64(window)*SpikeThreshold
}
