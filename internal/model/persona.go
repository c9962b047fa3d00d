package model

import (
	"errors"
	"fmt"
)

// Persona is a usage-pattern profile driving the savings-plan simulation.
// Units:
// - BaseRate: usage units per hour (GB RAM in the shipped content)
// - SpikeProb: probability 0..1 that an hour spikes
// - SpikeFactor: multiplier applied to BaseRate on a spike hour
type Persona struct {
	Name        string  `json:"name" yaml:"name"`
	BaseRate    float64 `json:"base_rate" yaml:"base_rate"`
	SpikeProb   float64 `json:"spike_prob" yaml:"spike_prob"`
	SpikeFactor float64 `json:"spike_factor" yaml:"spike_factor"`
	Hint        string  `json:"hint,omitempty" yaml:"hint"`
}

func (p Persona) Validate() error {
	if p.Name == "" {
		return errors.New("persona name is required")
	}
	if p.BaseRate <= 0 {
		return fmt.Errorf("persona %q: base_rate must be > 0", p.Name)
	}
	if p.SpikeProb < 0 || p.SpikeProb > 1 {
		return fmt.Errorf("persona %q: spike_prob must be in [0, 1]", p.Name)
	}
	if p.SpikeFactor < 1 {
		return fmt.Errorf("persona %q: spike_factor must be >= 1", p.Name)
	}
	return nil
}

// SpikeRate is the usage of a spike hour.
func (p Persona) SpikeRate() float64 {
	return p.BaseRate * p.SpikeFactor
}

// ExpectedRate is the long-run mean hourly usage.
func (p Persona) ExpectedRate() float64 {
	return p.BaseRate * (1 - p.SpikeProb + p.SpikeProb*p.SpikeFactor)
}
