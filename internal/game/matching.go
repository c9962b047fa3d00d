package game

import (
	"strconv"

	apperrors "finops-arcade/internal/errors"
	"finops-arcade/internal/grading"
	"finops-arcade/internal/model"
	"finops-arcade/internal/random"
)

// MatchScreen is the screen a matching session is on.
type MatchScreen string

const (
	ScreenStart   MatchScreen = "start"
	ScreenGame    MatchScreen = "game"
	ScreenMission MatchScreen = "mission"
	ScreenResults MatchScreen = "results"
)

// MatchingSession tracks one round of problem-to-persona matching.
// Matches keeps the last persona tried per problem.
type MatchingSession struct {
	ID       string         `json:"id"`
	Screen   MatchScreen    `json:"screen"`
	Score    int            `json:"score"`
	Order    []int          `json:"order"`
	Matches  map[int]string `json:"matches"`
	Solved   []int          `json:"solved"`
	Missions []int          `json:"missions_won"`
	Mission  int            `json:"mission,omitempty"`
}

func (s MatchingSession) solved(id int) bool {
	for _, p := range s.Solved {
		if p == id {
			return true
		}
	}
	return false
}

// MatchingPoints are the rewards per correct match and per won mission.
type MatchingPoints struct {
	Match   int
	Mission int
}

type MatchingGame struct {
	content  model.MatchingContent
	points   MatchingPoints
	truth    map[int]string
	missions map[int]model.Mission
}

func NewMatchingGame(content model.MatchingContent, points MatchingPoints) (*MatchingGame, error) {
	roles := make(map[string]bool, len(content.Roles))
	for _, r := range content.Roles {
		roles[r.Name] = true
	}
	truth := make(map[int]string, len(content.Problems))
	for _, p := range content.Problems {
		if _, dup := truth[p.ID]; dup {
			return nil, apperrors.Newf(apperrors.CodeInvalidContent, "duplicate problem id %d", p.ID)
		}
		if !roles[p.CorrectPersona] {
			return nil, apperrors.Newf(apperrors.CodeInvalidContent, "problem %d: unknown persona %q", p.ID, p.CorrectPersona)
		}
		truth[p.ID] = p.CorrectPersona
	}
	missions := make(map[int]model.Mission, len(content.Missions))
	for _, m := range content.Missions {
		if _, ok := truth[m.ProblemID]; !ok {
			return nil, apperrors.Newf(apperrors.CodeInvalidContent, "mission for unknown problem %d", m.ProblemID)
		}
		if _, ok := m.CorrectOption(); !ok {
			return nil, apperrors.Newf(apperrors.CodeInvalidContent, "mission %d has no correct option", m.ProblemID)
		}
		missions[m.ProblemID] = m
	}
	if len(truth) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidContent, "no problems")
	}
	return &MatchingGame{content: content, points: points, truth: truth, missions: missions}, nil
}

func (g *MatchingGame) Content() model.MatchingContent { return g.content }

// MaxScore is reached by matching every problem and winning every mission.
func (g *MatchingGame) MaxScore() int {
	return len(g.truth)*g.points.Match + len(g.missions)*g.points.Mission
}

func (g *MatchingGame) NewSession(id string, src random.Source) MatchingSession {
	order := make([]int, len(g.content.Problems))
	for i, p := range g.content.Problems {
		order[i] = p.ID
	}
	return MatchingSession{
		ID:       id,
		Screen:   ScreenStart,
		Order:    random.Shuffled(src, order),
		Matches:  map[int]string{},
		Solved:   []int{},
		Missions: []int{},
	}
}

func (g *MatchingGame) Reset(s MatchingSession, src random.Source) MatchingSession {
	return g.NewSession(s.ID, src)
}

func (g *MatchingGame) Start(s MatchingSession) (MatchingSession, error) {
	if s.Screen != ScreenStart {
		return s, apperrors.Newf(apperrors.CodeInvalidState, "cannot start from %s", s.Screen)
	}
	s.Screen = ScreenGame
	return s, nil
}

// Match pairs a problem with a persona. A correct match scores and opens the
// problem's mini-mission, unless it solved the last problem.
func (g *MatchingGame) Match(s MatchingSession, problemID int, persona string) (MatchingSession, grading.MatchResult, error) {
	if s.Screen != ScreenGame {
		return s, grading.MatchResult{}, apperrors.Newf(apperrors.CodeInvalidState, "cannot match on %s screen", s.Screen)
	}
	if persona == "" {
		return s, grading.MatchResult{}, apperrors.Incomplete("persona", []string{strconv.Itoa(problemID)})
	}
	res, err := grading.ValidateMatch("problem", problemID, persona, g.truth)
	if err != nil {
		return s, res, err
	}
	if s.solved(problemID) {
		return s, res, apperrors.Newf(apperrors.CodeInvalidState, "problem %d already solved", problemID)
	}

	matches := make(map[int]string, len(s.Matches)+1)
	for k, v := range s.Matches {
		matches[k] = v
	}
	matches[problemID] = persona
	s.Matches = matches
	if !res.IsCorrect {
		return s, res, nil
	}

	s.Score += g.points.Match
	s.Solved = append(append([]int(nil), s.Solved...), problemID)
	switch {
	case len(s.Solved) == len(g.truth):
		s.Screen = ScreenResults
	case g.hasMission(problemID):
		s.Screen = ScreenMission
		s.Mission = problemID
	}
	return s, res, nil
}

func (g *MatchingGame) hasMission(problemID int) bool {
	_, ok := g.missions[problemID]
	return ok
}

// CurrentMission is the mission shown on the mission screen.
func (g *MatchingGame) CurrentMission(s MatchingSession) (model.Mission, error) {
	if s.Screen != ScreenMission {
		return model.Mission{}, apperrors.New(apperrors.CodeInvalidState, "no mission open")
	}
	return g.missions[s.Mission], nil
}

// MissionResult grades a mini-mission answer.
type MissionResult struct {
	IsCorrect bool                `json:"is_correct"`
	Correct   model.MissionOption `json:"correct"`
}

// AnswerMission grades option and returns to the game screen.
func (g *MatchingGame) AnswerMission(s MatchingSession, optionID string) (MatchingSession, MissionResult, error) {
	m, err := g.CurrentMission(s)
	if err != nil {
		return s, MissionResult{}, err
	}
	if optionID == "" {
		return s, MissionResult{}, apperrors.Incomplete("option", []string{strconv.Itoa(m.ProblemID)})
	}
	known := false
	for _, o := range m.Options {
		known = known || o.ID == optionID
	}
	if !known {
		return s, MissionResult{}, apperrors.Newf(apperrors.CodeInvalidRequest, "unknown option %q", optionID)
	}

	correct, _ := m.CorrectOption()
	res := MissionResult{IsCorrect: optionID == correct.ID, Correct: correct}
	if res.IsCorrect {
		s.Score += g.points.Mission
		s.Missions = append(append([]int(nil), s.Missions...), m.ProblemID)
	}
	s.Mission = 0
	s.Screen = ScreenGame
	return s, res, nil
}

// SkipMission closes the open mission without scoring.
func (g *MatchingGame) SkipMission(s MatchingSession) (MatchingSession, error) {
	if _, err := g.CurrentMission(s); err != nil {
		return s, err
	}
	s.Mission = 0
	s.Screen = ScreenGame
	return s, nil
}

// MatchSummary is one row of the results screen.
type MatchSummary struct {
	Problem   string `json:"problem"`
	Match     string `json:"match"`
	Correct   string `json:"correct"`
	IsCorrect bool   `json:"is_correct"`
}

type MatchingResults struct {
	Score    int            `json:"score"`
	MaxScore int            `json:"max_score"`
	Rating   string         `json:"rating"`
	Summary  []MatchSummary `json:"summary"`
}

// Results rates the round: 80% of the maximum is excellent, 60% good.
func (g *MatchingGame) Results(s MatchingSession) (MatchingResults, error) {
	if s.Screen != ScreenResults {
		return MatchingResults{}, apperrors.New(apperrors.CodeInvalidState, "round not finished")
	}
	maxScore := g.MaxScore()
	out := MatchingResults{Score: s.Score, MaxScore: maxScore}
	switch {
	case float64(s.Score) >= float64(maxScore)*0.8:
		out.Rating = "Excellent!"
	case float64(s.Score) >= float64(maxScore)*0.6:
		out.Rating = "Good job!"
	default:
		out.Rating = "Keep learning!"
	}
	for _, p := range g.content.Problems {
		out.Summary = append(out.Summary, MatchSummary{
			Problem:   p.Title,
			Match:     s.Matches[p.ID],
			Correct:   p.CorrectPersona,
			IsCorrect: s.Matches[p.ID] == p.CorrectPersona,
		})
	}
	return out, nil
}
