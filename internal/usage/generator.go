// Package usage simulates hourly resource consumption for a persona.
package usage

import (
	"finops-arcade/internal/model"
	"finops-arcade/internal/random"
)

// Generator draws memoryless usage samples: every hour is independent of
// the previous one and consumes exactly one draw from the source.
type Generator struct {
	src random.Source
}

func NewGenerator(src random.Source) *Generator {
	return &Generator{src: src}
}

// NextSample returns p.BaseRate*p.SpikeFactor with probability p.SpikeProb,
// otherwise p.BaseRate.
func (g *Generator) NextSample(p model.Persona) float64 {
	if g.src.Float64() < p.SpikeProb {
		return p.SpikeRate()
	}
	return p.BaseRate
}

// GenerateHorizon draws n independent samples.
func (g *Generator) GenerateHorizon(p model.Persona, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = g.NextSample(p)
	}
	return out
}
