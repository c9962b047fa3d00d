package analysis

import (
	"sort"

	"finops-arcade/internal/billing"
)

// Outcome is one strategy's result over a shared usage series.
type Outcome struct {
	Strategy   string         `json:"strategy"`
	Commitment float64        `json:"commitment"`
	Result     billing.Result `json:"result"`
}

type RankedOutcome struct {
	Outcome
	Rank int `json:"rank"`

	// Regret is the extra cost over the cheapest outcome.
	Regret float64 `json:"regret"`
}

// RankByTotalCost sorts outcomes ascending by total cost. Ties keep input order.
func RankByTotalCost(outcomes []Outcome) []RankedOutcome {
	out := make([]RankedOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, RankedOutcome{Outcome: o})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Result.TotalCost < out[j].Result.TotalCost
	})
	for i := range out {
		out[i].Rank = i + 1
		out[i].Regret = out[i].Result.TotalCost - out[0].Result.TotalCost
	}
	return out
}
