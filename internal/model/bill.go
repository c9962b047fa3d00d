package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// NoAction is the optimization answer meaning "leave this item as it is".
// A matching no-action answer is graded correct but never yields savings.
const NoAction = "no action"

// Bill is a mock cloud bill. It is immutable once loaded.
type Bill struct {
	ID    string     `json:"bill_id"`
	Items []LineItem `json:"items"`
}

// LineItem is one bill row. CategoryAnswer and OptimizationAnswer are ground
// truth and must never leave the server; use Bill.Sanitize for public views.
type LineItem struct {
	ID                 string          `json:"id"`
	Resource           string          `json:"resource"`
	Description        string          `json:"description"`
	Cost               decimal.Decimal `json:"cost"`
	CategoryAnswer     string          `json:"category_answer"`
	OptimizationAnswer string          `json:"optimization_answer"`
}

// PublicBill is the sanitized view sent to players.
type PublicBill struct {
	ID    string           `json:"bill_id"`
	Items []PublicLineItem `json:"items"`
}

// PublicLineItem has no answer fields by construction.
type PublicLineItem struct {
	ID          string          `json:"id"`
	Resource    string          `json:"resource"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

func (b Bill) Sanitize() PublicBill {
	out := PublicBill{ID: b.ID, Items: make([]PublicLineItem, 0, len(b.Items))}
	for _, it := range b.Items {
		out.Items = append(out.Items, PublicLineItem{
			ID:          it.ID,
			Resource:    it.Resource,
			Description: it.Description,
			Cost:        it.Cost,
		})
	}
	return out
}

// Validate enforces that item ids are present and unique within the bill.
func (b Bill) Validate() error {
	if b.ID == "" {
		return errors.New("bill_id is required")
	}
	seen := make(map[string]struct{}, len(b.Items))
	for i, it := range b.Items {
		if it.ID == "" {
			return fmt.Errorf("bill %s: item %d has no id", b.ID, i)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("bill %s: duplicate item id %q", b.ID, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

// Total is the sum of item costs.
func (b Bill) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range b.Items {
		total = total.Add(it.Cost)
	}
	return total
}
