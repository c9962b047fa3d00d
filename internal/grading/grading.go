// Package grading compares player submissions against ground truth.
//
// Every function grades rather than rejects: unknown category strings or
// negative costs are simply wrong answers. Only references to ids that do not
// exist, missing selections and out-of-range indexes are errors.
package grading

import (
	"fmt"

	"finops-arcade/internal/billing"
	apperrors "finops-arcade/internal/errors"
	"finops-arcade/internal/model"

	"github.com/shopspring/decimal"
)

// CategoryResult grades one line item's category. User is nil when the item
// was not submitted.
type CategoryResult struct {
	User      *string `json:"user"`
	Correct   string  `json:"correct"`
	IsCorrect bool    `json:"is_correct"`
}

// ValidateCategories grades every item of the bill. Submissions for ids that
// are not on the bill are ignored.
func ValidateCategories(bill model.Bill, user map[string]string) map[string]CategoryResult {
	out := make(map[string]CategoryResult, len(bill.Items))
	for _, it := range bill.Items {
		res := CategoryResult{Correct: it.CategoryAnswer}
		if v, ok := user[it.ID]; ok {
			v := v
			res.User = &v
			res.IsCorrect = v == it.CategoryAnswer
		}
		out[it.ID] = res
	}
	return out
}

// AllCorrect reports whether every category result is correct.
func AllCorrect(results map[string]CategoryResult) bool {
	for _, r := range results {
		if !r.IsCorrect {
			return false
		}
	}
	return true
}

// OptimizationDetail is the graded outcome of one line item.
type OptimizationDetail struct {
	ID         string          `json:"id"`
	Resource   string          `json:"resource"`
	User       *string         `json:"user"`
	Correct    string          `json:"correct"`
	IsCorrect  bool            `json:"is_correct"`
	BeforeCost decimal.Decimal `json:"before_cost"`
	AfterCost  decimal.Decimal `json:"after_cost"`
	Saved      decimal.Decimal `json:"saved"`
}

// OptimizationSummary aggregates optimization grading for a bill.
type OptimizationSummary struct {
	BeforeTotal decimal.Decimal      `json:"before_total"`
	AfterTotal  decimal.Decimal      `json:"after_total"`
	Savings     decimal.Decimal      `json:"savings"`
	Details     []OptimizationDetail `json:"details"`
}

// ValidateOptimizations prices every item's submitted optimization with rule.
// Totals are sums of per-item values that were already rounded to cents.
func ValidateOptimizations(bill model.Bill, user map[string]string, rule billing.OptimizationRule) OptimizationSummary {
	sum := OptimizationSummary{
		BeforeTotal: decimal.Zero,
		AfterTotal:  decimal.Zero,
		Savings:     decimal.Zero,
		Details:     make([]OptimizationDetail, 0, len(bill.Items)),
	}
	for _, it := range bill.Items {
		d := OptimizationDetail{
			ID:         it.ID,
			Resource:   it.Resource,
			Correct:    it.OptimizationAnswer,
			BeforeCost: it.Cost,
		}
		choice, ok := user[it.ID]
		if ok {
			choice := choice
			d.User = &choice
			d.IsCorrect = choice == it.OptimizationAnswer
		}
		opt := rule.Apply(it, choice)
		if !ok {
			opt = billing.Optimization{AfterCost: it.Cost, Saved: decimal.Zero}
		}
		d.AfterCost, d.Saved = opt.AfterCost, opt.Saved

		sum.BeforeTotal = sum.BeforeTotal.Add(it.Cost)
		sum.AfterTotal = sum.AfterTotal.Add(d.AfterCost)
		sum.Savings = sum.Savings.Add(d.Saved)
		sum.Details = append(sum.Details, d)
	}
	return sum
}

// RequireComplete fails with an incomplete-submission error listing every
// bill item that has no non-empty selection in user.
func RequireComplete(bill model.Bill, user map[string]string, field string) error {
	var missing []string
	for _, it := range bill.Items {
		if user[it.ID] == "" {
			missing = append(missing, it.ID)
		}
	}
	if len(missing) > 0 {
		return apperrors.Incomplete(field, missing)
	}
	return nil
}

// PositionResult grades one slot of an ordering. Positions are 1-based.
type PositionResult struct {
	Position    int    `json:"position"`
	Step        string `json:"step"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
}

// ValidateOrdering compares user and correct position by position. There is
// no partial credit: a step one slot away is just as wrong as one six slots
// away. explanations is indexed by 0-based position and attached only to
// incorrect slots.
func ValidateOrdering(user, correct []string, explanations []string) []PositionResult {
	out := make([]PositionResult, len(correct))
	for i, want := range correct {
		r := PositionResult{Position: i + 1}
		if i < len(user) {
			r.Step = user[i]
		}
		r.IsCorrect = r.Step == want
		if !r.IsCorrect && i < len(explanations) {
			r.Explanation = explanations[i]
		}
		out[i] = r
	}
	return out
}

// CountCorrect returns how many positions are correct.
func CountCorrect(results []PositionResult) int {
	n := 0
	for _, r := range results {
		if r.IsCorrect {
			n++
		}
	}
	return n
}

// MatchResult grades a single problem-to-persona pairing. CorrectAnswer is
// returned whether or not the match is right.
type MatchResult struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
}

// ValidateMatch grades answer against truth[key]. An unknown key is a
// not-found error of the given kind, never a wrong answer.
func ValidateMatch[K comparable](kind string, key K, answer string, truth map[K]string) (MatchResult, error) {
	want, ok := truth[key]
	if !ok {
		return MatchResult{}, apperrors.NotFound(kind, fmt.Sprint(key))
	}
	return MatchResult{IsCorrect: answer == want, CorrectAnswer: want}, nil
}

// ValidateChoice returns the choice at index or an invalid-request error.
func ValidateChoice(stage model.Stage, index int) (model.Choice, error) {
	if index < 0 || index >= len(stage.Choices) {
		return model.Choice{}, apperrors.Newf(apperrors.CodeInvalidRequest,
			"choice index %d out of range for stage %s (%d choices)", index, stage.ID, len(stage.Choices)).
			With("stage", string(stage.ID))
	}
	return stage.Choices[index], nil
}

// SelectionResult grades a multi-select answer.
type SelectionResult struct {
	Exact     bool     `json:"exact"`
	Correct   []string `json:"correct"`
	Missed    []string `json:"missed"`
	Incorrect []string `json:"incorrect"`
}

// ValidateSelection compares a set of picks with the expected set. Order
// does not matter and duplicates in user count once. Output slices keep the
// order of their source lists.
func ValidateSelection(user, correct []string) SelectionResult {
	want := make(map[string]bool, len(correct))
	for _, c := range correct {
		want[c] = true
	}
	picked := make(map[string]bool, len(user))
	res := SelectionResult{Correct: []string{}, Missed: []string{}, Incorrect: []string{}}
	for _, u := range user {
		if picked[u] {
			continue
		}
		picked[u] = true
		if want[u] {
			res.Correct = append(res.Correct, u)
		} else {
			res.Incorrect = append(res.Incorrect, u)
		}
	}
	for _, c := range correct {
		if !picked[c] {
			res.Missed = append(res.Missed, c)
		}
	}
	res.Exact = len(res.Missed) == 0 && len(res.Incorrect) == 0
	return res
}
