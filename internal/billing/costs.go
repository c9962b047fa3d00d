// Package billing prices usage against a spending commitment and prices
// line-item optimizations on a bill.
package billing

import "math"

// Result is the pure output of ComputeCosts. It is always recomputed from
// its inputs and never stored.
type Result struct {
	TotalUsage     float64 `json:"total_usage"`
	OnDemandCost   float64 `json:"on_demand_cost"`
	CommitmentCost float64 `json:"commitment_cost"`
	OverageCost    float64 `json:"overage_cost"`
	TotalCost      float64 `json:"total_cost"`
	SavingsPct     float64 `json:"savings_pct"`
	AmountSaved    float64 `json:"amount_saved"`
}

// ComputeCosts prices a usage series under an hourly commitment.
//
// The commitment is paid for every hour of the horizon and covers
// commitment*horizonHours usage units; anything above that is billed at
// onDemandRate. SavingsPct is negative when the commitment costs more than
// paying on demand, and 0 when there is no on-demand cost at all.
func ComputeCosts(series []float64, commitment, onDemandRate float64, horizonHours int) Result {
	totalUsage := 0.0
	for _, v := range series {
		totalUsage += v
	}
	covered := commitment * float64(horizonHours)

	r := Result{TotalUsage: totalUsage}
	r.OnDemandCost = totalUsage * onDemandRate
	r.CommitmentCost = covered
	r.OverageCost = math.Max(0, totalUsage-covered) * onDemandRate
	r.TotalCost = r.CommitmentCost + r.OverageCost
	if r.OnDemandCost > 0 {
		r.SavingsPct = (r.OnDemandCost - r.TotalCost) / r.OnDemandCost * 100
	}
	r.AmountSaved = r.OnDemandCost - r.TotalCost
	return r
}

// Rates bundles the pricing constants of a simulation.
type Rates struct {
	OnDemandRate float64
	HorizonHours int
}

// Compute is ComputeCosts with the receiver's constants.
func (r Rates) Compute(series []float64, commitment float64) Result {
	return ComputeCosts(series, commitment, r.OnDemandRate, r.HorizonHours)
}
