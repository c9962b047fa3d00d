// Package simulation runs a persona's full horizon against a commitment
// strategy without a player in the loop.
package simulation

import (
	"fmt"

	"finops-arcade/internal/billing"
	"finops-arcade/internal/model"
	"finops-arcade/internal/random"
	"finops-arcade/internal/strategy"
	"finops-arcade/internal/usage"
)

// Settings are the pricing and slider constants of a run.
type Settings struct {
	OnDemandRate float64
	HorizonHours int

	// ObserveHours is how many hours the strategy sees before committing.
	ObserveHours int

	CommitmentMin  float64
	CommitmentMax  float64
	CommitmentStep float64
}

func (s Settings) Rates() billing.Rates {
	return billing.Rates{OnDemandRate: s.OnDemandRate, HorizonHours: s.HorizonHours}
}

func (s Settings) slider(observed []float64) strategy.Context {
	return strategy.Context{
		Observed: observed,
		Min:      s.CommitmentMin,
		Max:      s.CommitmentMax,
		Step:     s.CommitmentStep,
	}
}

type Engine struct{}

func New() *Engine { return &Engine{} }

// Generate draws the full horizon for persona from stream. Runs that share a
// seed see identical usage, which is what makes strategy comparisons fair.
func (e *Engine) Generate(persona model.Persona, stream random.Stream, hours int) []float64 {
	return usage.NewGenerator(&stream).GenerateHorizon(persona, hours)
}

// Run executes one strategy over a pre-generated series.
func (e *Engine) Run(persona model.Persona, series []float64, strat strategy.Strategy, set Settings) (*Result, error) {
	if strat == nil {
		return nil, fmt.Errorf("strategy is nil")
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no usage")
	}
	if len(series) > set.HorizonHours {
		return nil, fmt.Errorf("series has %d hours, horizon is %d", len(series), set.HorizonHours)
	}
	observe := set.ObserveHours
	if observe > len(series) {
		observe = len(series)
	}
	if observe < 0 {
		observe = 0
	}

	commitment := strat.Commit(set.slider(series[:observe]))

	ledger := make([]LedgerRow, 0, len(series))
	cum := 0.0
	for h, u := range series {
		cum += u
		covered := commitment * float64(h+1)
		over := cum - covered
		if over < 0 {
			over = 0
		}
		ledger = append(ledger, LedgerRow{
			Hour:           h,
			Day:            h/24 + 1,
			HourOfDay:      h % 24,
			Usage:          u,
			Kind:           model.KindFromSample(u, persona),
			Observed:       h < observe,
			CumUsage:       cum,
			OnDemandToDate: cum * set.OnDemandRate,
			CostToDate:     covered + over*set.OnDemandRate,
		})
	}

	bill := set.Rates().Compute(series, commitment)
	return &Result{
		Persona:    persona,
		Strategy:   strat.Name(),
		Commitment: commitment,
		Ledger:     ledger,
		Billing:    bill,
		Verdict:    billing.Grade(bill.SavingsPct),
	}, nil
}
