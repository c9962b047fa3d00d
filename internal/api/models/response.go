package models

import (
	"finops-arcade/internal/game"
	"finops-arcade/internal/grading"
	"finops-arcade/internal/model"
)

// CategoriesResponse maps item ids to their grading.
type CategoriesResponse struct {
	Results    map[string]grading.CategoryResult `json:"results"`
	AllCorrect bool                              `json:"all_correct"`
}

type TipResponse struct {
	Tip string `json:"tip"`
}

// BillGameResponse is a bill game with its sanitized bill.
type BillGameResponse struct {
	Session game.BillSession `json:"session"`
	Bill    model.PublicBill `json:"bill"`
}

// ScenarioInfo summarizes a scenario for listing.
type ScenarioInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Intro  string `json:"intro"`
	Stages int    `json:"stages"`
}

// ScenarioSessionResponse is a scenario session and, when it sits on a
// playable stage, the rendered stage.
type ScenarioSessionResponse struct {
	Session game.Session    `json:"session"`
	Stage   *game.StageView `json:"stage,omitempty"`
	Label   string          `json:"label,omitempty"`
}

// ChoiceResponse is the outcome of one submitted choice.
type ChoiceResponse struct {
	Feedback string          `json:"feedback"`
	NewStage model.StageID   `json:"new_stage"`
	Score    int             `json:"score"`
	Badges   []string        `json:"badges"`
	Finished bool            `json:"finished"`
	Stage    *game.StageView `json:"stage,omitempty"`
}

// SavingsResponse is a savings session with its projection on observed usage.
type SavingsResponse struct {
	Session    game.SavingsSession `json:"session"`
	Projection game.Projection     `json:"projection"`
}

type TickResponse struct {
	Session game.SavingsSession `json:"session"`
	Tick    game.Tick           `json:"tick"`
}

type OrderingResponse struct {
	Title    string                   `json:"title"`
	Scenario string                   `json:"scenario"`
	Session  game.OrderingSession     `json:"session"`
	Cards    []game.StepCard          `json:"cards"`
	Results  []grading.PositionResult `json:"results,omitempty"`
	Correct  int                      `json:"correct"`
}

type MatchingResponse struct {
	Session  game.MatchingSession `json:"session"`
	Problems []model.Problem      `json:"problems"`
	Roles    []model.Role         `json:"roles"`
	MaxScore int                  `json:"max_score"`
	Mission  *model.Mission       `json:"mission,omitempty"`
}

type MatchResponse struct {
	Session game.MatchingSession `json:"session"`
	Result  grading.MatchResult  `json:"result"`
	Mission *model.Mission       `json:"mission,omitempty"`
}

type MissionResponse struct {
	Session game.MatchingSession `json:"session"`
	Result  game.MissionResult   `json:"result"`
}

type MaturityResponse struct {
	Session  game.MaturitySession   `json:"session"`
	Scenario model.MaturityScenario `json:"scenario"`
	Position int                    `json:"position"`
	Total    int                    `json:"total"`
}

type PairCheckResponse struct {
	Result        string `json:"result"` // "correct" or "incorrect"
	CorrectAnswer string `json:"correct_answer,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
