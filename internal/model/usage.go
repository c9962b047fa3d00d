package model

// HourKind is a human-friendly label for one simulated hour.
// Keep these values stable; they are intended for CSV output.
type HourKind string

const (
	HourBaseline HourKind = "BASELINE"
	HourSpike    HourKind = "SPIKE"
)

// KindFromSample labels a sample drawn for persona p.
func KindFromSample(sample float64, p Persona) HourKind {
	if p.SpikeFactor > 1 && sample > p.BaseRate {
		return HourSpike
	}
	return HourBaseline
}

// UsageSeries holds one non-negative sample per simulated hour.
type UsageSeries []float64

func (s UsageSeries) Total() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}

// Mean returns 0 for an empty series.
func (s UsageSeries) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	return s.Total() / float64(len(s))
}

func (s UsageSeries) Peak() float64 {
	peak := 0.0
	for i, v := range s {
		if i == 0 || v > peak {
			peak = v
		}
	}
	return peak
}

// Tail returns the last n samples (fewer if the series is shorter).
func (s UsageSeries) Tail(n int) UsageSeries {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
