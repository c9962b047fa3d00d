package simulation

import (
	"finops-arcade/internal/billing"
	"finops-arcade/internal/model"
)

// LedgerRow is one simulated hour.
// This is the primary artifact for "what happened" in a simulation.
type LedgerRow struct {
	Hour      int `json:"hour"`
	Day       int `json:"day"`
	HourOfDay int `json:"hour_of_day"`

	Usage float64        `json:"usage"`
	Kind  model.HourKind `json:"kind"`

	// Observed is true for the hours the strategy saw before committing.
	Observed bool `json:"observed"`

	CumUsage float64 `json:"cum_usage"`

	// Cost-to-date figures price the prefix up to and including this hour
	// as if the horizon ended here.
	OnDemandToDate float64 `json:"on_demand_to_date"`
	CostToDate     float64 `json:"cost_to_date"`
}

type Result struct {
	Persona    model.Persona   `json:"persona"`
	Strategy   string          `json:"strategy"`
	Commitment float64         `json:"commitment"`
	Ledger     []LedgerRow     `json:"ledger"`
	Billing    billing.Result  `json:"billing"`
	Verdict    billing.Verdict `json:"verdict"`
}
