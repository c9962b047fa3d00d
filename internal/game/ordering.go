package game

import (
	apperrors "finops-arcade/internal/errors"
	"finops-arcade/internal/grading"
	"finops-arcade/internal/model"
	"finops-arcade/internal/random"
)

// OrderingSession holds the shuffled deck a player is ordering.
type OrderingSession struct {
	ID       string                   `json:"id"`
	Deck     []string                 `json:"deck"`
	Attempts int                      `json:"attempts"`
	Solved   bool                     `json:"solved"`
	Results  []grading.PositionResult `json:"results,omitempty"`
}

// StepCard is the public side of an ordering step.
type StepCard struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type OrderingGame struct {
	steps []model.OrderingStep
	index map[string]model.OrderingStep
}

// NewOrderingGame takes the steps in their canonical order.
func NewOrderingGame(steps []model.OrderingStep) (*OrderingGame, error) {
	if len(steps) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidContent, "no ordering steps")
	}
	idx := make(map[string]model.OrderingStep, len(steps))
	for _, st := range steps {
		if st.ID == "" {
			return nil, apperrors.New(apperrors.CodeInvalidContent, "ordering step without id")
		}
		if _, dup := idx[st.ID]; dup {
			return nil, apperrors.Newf(apperrors.CodeInvalidContent, "duplicate ordering step %q", st.ID)
		}
		idx[st.ID] = st
	}
	return &OrderingGame{steps: steps, index: idx}, nil
}

func (g *OrderingGame) NewSession(id string, src random.Source) OrderingSession {
	ids := make([]string, len(g.steps))
	for i, st := range g.steps {
		ids[i] = st.ID
	}
	return OrderingSession{ID: id, Deck: random.Shuffled(src, ids)}
}

// Reset reshuffles the deck and clears every attempt.
func (g *OrderingGame) Reset(s OrderingSession, src random.Source) OrderingSession {
	return g.NewSession(s.ID, src)
}

// Cards returns the session's deck in its shuffled order.
func (g *OrderingGame) Cards(s OrderingSession) []StepCard {
	out := make([]StepCard, 0, len(s.Deck))
	for _, id := range s.Deck {
		st := g.index[id]
		out = append(out, StepCard{ID: st.ID, Title: st.Title, Description: st.Description})
	}
	return out
}

// Submit grades order, which must list every step exactly once.
func (g *OrderingGame) Submit(s OrderingSession, order []string) (OrderingSession, error) {
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if _, ok := g.index[id]; !ok {
			return s, apperrors.NotFound("step", id)
		}
		if seen[id] {
			return s, apperrors.Newf(apperrors.CodeInvalidRequest, "step %q listed twice", id)
		}
		seen[id] = true
	}
	var missing []string
	for _, st := range g.steps {
		if !seen[st.ID] {
			missing = append(missing, st.ID)
		}
	}
	if len(missing) > 0 {
		return s, apperrors.Incomplete("step", missing)
	}

	correct := make([]string, len(g.steps))
	explanations := make([]string, len(g.steps))
	for i, st := range g.steps {
		correct[i] = st.ID
		explanations[i] = st.Explanation
	}
	s.Results = grading.ValidateOrdering(order, correct, explanations)
	s.Attempts++
	s.Solved = grading.CountCorrect(s.Results) == len(g.steps)
	s.Deck = append([]string(nil), order...)
	return s, nil
}
