package game

import (
	"finops-arcade/internal/billing"
	apperrors "finops-arcade/internal/errors"
	"finops-arcade/internal/grading"
	"finops-arcade/internal/model"
)

// BillPhase is a step of the bill game.
type BillPhase string

const (
	PhaseCategorize BillPhase = "categorize"
	PhaseOptimize   BillPhase = "optimize"
	PhaseResults    BillPhase = "results"
)

// BillSession tracks one bill play-through. The categorize phase repeats
// until every item is categorized correctly; there is no attempt cap.
type BillSession struct {
	ID       string    `json:"id"`
	BillID   string    `json:"bill_id"`
	Phase    BillPhase `json:"phase"`
	Attempts int       `json:"attempts"`

	Categories   map[string]grading.CategoryResult `json:"categories,omitempty"`
	Optimization *grading.OptimizationSummary      `json:"optimization,omitempty"`
}

type BillGame struct {
	rule billing.OptimizationRule
}

func NewBillGame(rule billing.OptimizationRule) *BillGame {
	return &BillGame{rule: rule}
}

func (g *BillGame) NewSession(id string, bill model.Bill) BillSession {
	return BillSession{ID: id, BillID: bill.ID, Phase: PhaseCategorize}
}

func (g *BillGame) checkBill(s BillSession, bill model.Bill) error {
	if bill.ID != s.BillID {
		return apperrors.Newf(apperrors.CodeInvalidRequest, "session plays bill %s, not %s", s.BillID, bill.ID)
	}
	return nil
}

// SubmitCategories grades a complete category submission. When every item is
// correct the session moves on to optimize; otherwise it stays to retry.
func (g *BillGame) SubmitCategories(s BillSession, bill model.Bill, user map[string]string) (BillSession, error) {
	if err := g.checkBill(s, bill); err != nil {
		return s, err
	}
	if s.Phase != PhaseCategorize {
		return s, apperrors.Newf(apperrors.CodeInvalidState, "cannot categorize in phase %s", s.Phase)
	}
	if err := grading.RequireComplete(bill, user, "category"); err != nil {
		return s, err
	}

	results := grading.ValidateCategories(bill, user)
	s.Attempts++
	s.Categories = results
	if grading.AllCorrect(results) {
		s.Phase = PhaseOptimize
	}
	return s, nil
}

// SubmitOptimizations prices a complete optimization submission and ends the game.
func (g *BillGame) SubmitOptimizations(s BillSession, bill model.Bill, user map[string]string) (BillSession, error) {
	if err := g.checkBill(s, bill); err != nil {
		return s, err
	}
	if s.Phase != PhaseOptimize {
		return s, apperrors.Newf(apperrors.CodeInvalidState, "cannot optimize in phase %s", s.Phase)
	}
	if err := grading.RequireComplete(bill, user, "optimization"); err != nil {
		return s, err
	}
	summary := grading.ValidateOptimizations(bill, user, g.rule)
	s.Optimization = &summary
	s.Phase = PhaseResults
	return s, nil
}

// Reset clears all progress and starts over on bill, which the caller draws
// afresh.
func (g *BillGame) Reset(s BillSession, bill model.Bill) BillSession {
	return g.NewSession(s.ID, bill)
}
