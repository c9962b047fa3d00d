package game

import (
	"strconv"

	apperrors "finops-arcade/internal/errors"
	"finops-arcade/internal/grading"
	"finops-arcade/internal/model"
)

// MaturitySession walks through the company scenarios one at a time.
type MaturitySession struct {
	ID       string            `json:"id"`
	Index    int               `json:"index"`
	Feedback *MaturityFeedback `json:"feedback,omitempty"`
}

// MaturityFeedback grades one scenario analysis.
type MaturityFeedback struct {
	StageCorrect bool                    `json:"stage_correct"`
	CorrectStage string                  `json:"correct_stage"`
	Hint         string                  `json:"hint,omitempty"`
	Challenges   grading.SelectionResult `json:"challenges"`
}

// stageHints tell a player what to look for when they misjudged a stage.
var stageHints = map[string]string{
	"Crawl": "Look for signs of basic cloud usage without governance or cost awareness.",
	"Walk":  "Look for some governance and cost allocation, but with gaps in implementation.",
	"Run":   "Look for mature practices with high automation, accuracy, and team involvement.",
}

type MaturityGame struct {
	scenarios []model.MaturityScenario
}

func NewMaturityGame(scenarios []model.MaturityScenario) (*MaturityGame, error) {
	if len(scenarios) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidContent, "no maturity scenarios")
	}
	for i, sc := range scenarios {
		found := false
		for _, o := range sc.StageOptions {
			found = found || o == sc.CorrectStage
		}
		if !found {
			return nil, apperrors.Newf(apperrors.CodeInvalidContent, "maturity scenario %d: correct stage %q is not an option", i, sc.CorrectStage)
		}
	}
	return &MaturityGame{scenarios: scenarios}, nil
}

func (g *MaturityGame) Len() int { return len(g.scenarios) }

// NewSession starts at the first scenario. Scenarios are played in their
// authored order, from crawl to run.
func (g *MaturityGame) NewSession(id string) MaturitySession {
	return MaturitySession{ID: id}
}

func (g *MaturityGame) Reset(s MaturitySession) MaturitySession {
	return MaturitySession{ID: s.ID}
}

func (g *MaturityGame) Current(s MaturitySession) model.MaturityScenario {
	return g.scenarios[s.Index]
}

// Analyze grades a stage pick and a set of challenges for the current
// scenario. Challenges are graded only against the ones the player could
// pick; keys outside ChallengeOptions are not counted as missed.
func (g *MaturityGame) Analyze(s MaturitySession, stage string, challenges []string) (MaturitySession, error) {
	sc := g.Current(s)
	if stage == "" {
		return s, apperrors.Incomplete("stage", []string{strconv.Itoa(s.Index)})
	}
	offered := make(map[string]bool, len(sc.ChallengeOptions))
	for _, o := range sc.ChallengeOptions {
		offered[o] = true
	}
	for _, c := range challenges {
		if !offered[c] {
			return s, apperrors.Newf(apperrors.CodeInvalidRequest, "%q is not a challenge option", c)
		}
	}
	var key []string
	for _, c := range sc.CorrectChallenges {
		if offered[c] {
			key = append(key, c)
		}
	}

	fb := &MaturityFeedback{
		StageCorrect: stage == sc.CorrectStage,
		CorrectStage: sc.CorrectStage,
		Challenges:   grading.ValidateSelection(challenges, key),
	}
	if !fb.StageCorrect {
		fb.Hint = stageHints[sc.CorrectStage]
	}
	s.Feedback = fb
	return s, nil
}

// Next moves to the following scenario and clears the feedback.
func (g *MaturityGame) Next(s MaturitySession) (MaturitySession, error) {
	if s.Index >= len(g.scenarios)-1 {
		return s, apperrors.New(apperrors.CodeInvalidState, "already at the last scenario")
	}
	return MaturitySession{ID: s.ID, Index: s.Index + 1}, nil
}

// Prev moves to the preceding scenario and clears the feedback.
func (g *MaturityGame) Prev(s MaturitySession) (MaturitySession, error) {
	if s.Index == 0 {
		return s, apperrors.New(apperrors.CodeInvalidState, "already at the first scenario")
	}
	return MaturitySession{ID: s.ID, Index: s.Index - 1}, nil
}
