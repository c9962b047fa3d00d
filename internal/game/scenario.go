// Package game holds the session machines of every mini-game.
//
// Sessions are plain values. Every operation takes a session and returns the
// next one; nothing is kept between calls, so the hosting layer decides where
// sessions live. An operation that fails returns the input session unchanged.
package game

import (
	"math"
	"regexp"
	"strconv"

	apperrors "finops-arcade/internal/errors"
	"finops-arcade/internal/grading"
	"finops-arcade/internal/model"
	"finops-arcade/internal/random"
	"finops-arcade/internal/scoring"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ChoiceRecord is one answered stage.
type ChoiceRecord struct {
	Stage  model.StageID `json:"stage"`
	Index  int           `json:"index"`
	Text   string        `json:"text"`
	Points int           `json:"points"`
}

// Session is the state of one scenario play-through.
type Session struct {
	ID       string         `json:"id"`
	Scenario string         `json:"scenario"`
	Stage    model.StageID  `json:"stage"`
	Score    int            `json:"score"`
	History  []ChoiceRecord `json:"history"`
	Badges   []string       `json:"badges"`
	Feedback string         `json:"feedback,omitempty"`

	// Values are the randomized numbers substituted into stage text.
	Values map[string]int `json:"values"`
}

func (s Session) Finished() bool { return s.Stage.Terminal() }

// Texts returns the text of every choice made so far.
func (s Session) Texts() []string {
	out := make([]string, len(s.History))
	for i, h := range s.History {
		out[i] = h.Text
	}
	return out
}

// Machine drives sessions of one scenario.
type Machine struct {
	scenario *model.Scenario
	scoring  *scoring.Engine
}

// NewMachine validates sc so that no session can reach a stage that does not exist.
func NewMachine(sc *model.Scenario) (*Machine, error) {
	if err := sc.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidContent, "invalid scenario", err)
	}
	return &Machine{scenario: sc, scoring: scoring.NewEngine(sc.Bands, sc.Rules)}, nil
}

func (m *Machine) Scenario() *model.Scenario { return m.scenario }

// NewSession returns a session at intro with score 0 and freshly drawn values.
func (m *Machine) NewSession(id string, src random.Source) Session {
	return Session{
		ID:       id,
		Scenario: m.scenario.ID,
		Stage:    model.StageIntro,
		History:  []ChoiceRecord{},
		Badges:   []string{},
		Values:   drawValues(m.scenario.Variables, src),
	}
}

// drawValues scales every base value by one multiplier drawn for the
// session, truncating to whole dollars.
func drawValues(v model.Variables, src random.Source) map[string]int {
	lo, hi := v.MultiplierMin, v.MultiplierMax
	if lo == 0 && hi == 0 {
		lo, hi = 1, 1
	}
	mult := random.Uniform(src, lo, hi)
	out := make(map[string]int, len(v.Base))
	for _, name := range v.VariableNames() {
		out[name] = int(float64(v.Base[name]) * mult)
	}
	return out
}

// Begin leaves intro for the scenario's start stage.
func (m *Machine) Begin(s Session) (Session, error) {
	if s.Stage != model.StageIntro {
		return s, apperrors.Newf(apperrors.CodeInvalidState, "session already started (stage %s)", s.Stage)
	}
	s.Stage = m.scenario.Start
	s.Feedback = ""
	return s, nil
}

// Advance answers the current stage with the choice at index. stage must name
// the stage the player saw, so a stale or replayed submission is refused
// instead of being applied to a later stage.
func (m *Machine) Advance(s Session, stage model.StageID, index int) (Session, error) {
	switch {
	case s.Stage == model.StageIntro:
		return s, apperrors.New(apperrors.CodeInvalidState, "session has not started")
	case s.Stage.Terminal():
		return s, apperrors.New(apperrors.CodeInvalidState, "session is finished")
	case stage != s.Stage:
		return s, apperrors.Newf(apperrors.CodeInvalidState, "stage %s is not the current stage %s", stage, s.Stage).
			With("current", string(s.Stage))
	}

	st, ok := m.scenario.Stage(s.Stage)
	if !ok {
		return s, apperrors.NotFound("stage", string(s.Stage))
	}
	ch, err := grading.ValidateChoice(st, index)
	if err != nil {
		return s, err
	}

	next := s
	next.Score += ch.Points
	next.History = append(append([]ChoiceRecord(nil), s.History...), ChoiceRecord{
		Stage:  st.ID,
		Index:  index,
		Text:   ch.Text,
		Points: ch.Points,
	})
	next.Feedback = ch.Feedback
	next.Stage = ch.Next
	next.Badges = m.scoring.ComputeBadges(next.Score, next.Texts())
	return next, nil
}

// Reset discards every mutable field and redraws the randomized values.
func (m *Machine) Reset(s Session, src random.Source) Session {
	return m.NewSession(s.ID, src)
}

// StageView is a stage with its placeholders filled in.
type StageView struct {
	ID          model.StageID  `json:"id"`
	Position    int            `json:"position"`
	Total       int            `json:"total"`
	Description string         `json:"description"`
	Table       []model.Column `json:"table,omitempty"`
	Choices     []string       `json:"choices"`
}

// View renders the current stage. At intro and end there is no stage to render.
func (m *Machine) View(s Session) (StageView, error) {
	if s.Stage == model.StageIntro || s.Stage.Terminal() {
		return StageView{}, apperrors.Newf(apperrors.CodeInvalidState, "no stage to show at %s", s.Stage)
	}
	st, ok := m.scenario.Stage(s.Stage)
	if !ok {
		return StageView{}, apperrors.NotFound("stage", string(s.Stage))
	}
	v := StageView{
		ID:          st.ID,
		Position:    m.scenario.Position(st.ID),
		Total:       len(m.scenario.Stages),
		Description: Render(st.Description, s.Values),
		Choices:     make([]string, len(st.Choices)),
	}
	for i, ch := range st.Choices {
		v.Choices[i] = Render(ch.Text, s.Values)
	}
	for _, col := range st.Table {
		rc := model.Column{Name: col.Name, Values: make([]string, len(col.Values))}
		for i, cell := range col.Values {
			rc.Values[i] = Render(cell, s.Values)
		}
		v.Table = append(v.Table, rc)
	}
	return v, nil
}

var (
	placeholder = regexp.MustCompile(`\$\{(\w+)\}`)
	printer     = message.NewPrinter(language.AmericanEnglish)
)

// Render replaces ${name} with the matching value formatted as whole
// dollars, e.g. "$5,000". Unknown names are left untouched.
func Render(tmpl string, values map[string]int) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		v, ok := values[name]
		if !ok {
			return m
		}
		return printer.Sprintf("$%d", v)
	})
}

// Results is the end-of-scenario report.
type Results struct {
	Score          int            `json:"score"`
	MaxScore       int            `json:"max_score"`
	Success        bool           `json:"success"`
	Tier           string         `json:"tier,omitempty"`
	Badges         []string       `json:"badges"`
	SavingsPct     float64        `json:"savings_pct"`
	InitialCost    int            `json:"initial_cost"`
	FinalCost      int            `json:"final_cost"`
	MonthlySavings int            `json:"monthly_savings"`
	AnnualSavings  int            `json:"annual_savings"`
	Learnings      []string       `json:"learnings,omitempty"`
	History        []ChoiceRecord `json:"history"`
}

// Results is only available once the session reached end. The savings
// percentage grows linearly with the score up to the configured cap and is
// never negative.
func (m *Machine) Results(s Session) (Results, error) {
	if !s.Stage.Terminal() {
		return Results{}, apperrors.New(apperrors.CodeInvalidState, "scenario not finished")
	}
	o := m.scenario.Outcome

	pct := 0.0
	if o.MaxScore > 0 {
		pct = float64(s.Score) * o.SavingsScale / float64(o.MaxScore)
	}
	if o.SavingsCap > 0 {
		pct = math.Min(pct, o.SavingsCap)
	}
	pct = math.Max(pct, 0)

	initial := s.Values[o.CostVariable]
	saved := int(float64(initial) * pct / 100)
	final := initial - saved
	return Results{
		Score:          s.Score,
		MaxScore:       o.MaxScore,
		Success:        s.Score >= o.SuccessScore,
		Tier:           m.scoring.Tier(s.Score),
		Badges:         m.scoring.ComputeBadges(s.Score, s.Texts()),
		SavingsPct:     math.Round(pct*10) / 10,
		InitialCost:    initial,
		FinalCost:      final,
		MonthlySavings: saved,
		AnnualSavings:  saved * 12,
		Learnings:      o.Learnings,
		History:        s.History,
	}, nil
}

// StageLabel is "Stage 2 of 5" style progress text.
func (v StageView) StageLabel() string {
	return "Stage " + strconv.Itoa(v.Position) + " of " + strconv.Itoa(v.Total)
}
