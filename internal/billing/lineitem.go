package billing

import (
	"finops-arcade/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultSavingsRate is the share of an item's cost removed by a correct optimization.
var DefaultSavingsRate = decimal.RequireFromString("0.8")

// OptimizationRule prices a player's optimization choice for one line item.
type OptimizationRule struct {
	SavingsRate decimal.Decimal
	NoAction    string
}

func DefaultRule() OptimizationRule {
	return OptimizationRule{SavingsRate: DefaultSavingsRate, NoAction: model.NoAction}
}

// Optimization is the priced outcome of one line item.
type Optimization struct {
	AfterCost decimal.Decimal `json:"after_cost"`
	Saved     decimal.Decimal `json:"saved"`
}

// Apply grants the savings rate when choice matches the item's answer and the
// answer is not the no-action sentinel. Both values are rounded to cents here,
// so aggregate totals are sums of rounded per-item values.
func (r OptimizationRule) Apply(item model.LineItem, choice string) Optimization {
	if choice == item.OptimizationAnswer && item.OptimizationAnswer != r.NoAction {
		saved := item.Cost.Mul(r.SavingsRate).Round(2)
		return Optimization{
			AfterCost: item.Cost.Sub(saved).Round(2),
			Saved:     saved,
		}
	}
	return Optimization{AfterCost: item.Cost, Saved: decimal.Zero}
}

// ComputeLineItemOptimization applies the default 80% rule.
func ComputeLineItemOptimization(item model.LineItem, choice string) Optimization {
	return DefaultRule().Apply(item, choice)
}
