package model

import (
	"errors"
	"fmt"
	"sort"
)

// StageID names a stage. The two sentinels bracket every scenario.
type StageID string

const (
	StageIntro StageID = "intro"
	StageEnd   StageID = "end"
)

func (id StageID) Terminal() bool { return id == StageEnd }

// Choice is one scored answer of a stage. Next, Feedback and Text are required;
// Points may be negative.
type Choice struct {
	Text     string  `json:"text" yaml:"text"`
	Points   int     `json:"points" yaml:"points"`
	Next     StageID `json:"next" yaml:"next"`
	Feedback string  `json:"feedback" yaml:"feedback"`
}

// Column is one column of a stage's data table. Values may contain ${var}
// placeholders filled from the session's randomized values.
type Column struct {
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

// Stage is a node of a scenario graph.
type Stage struct {
	ID          StageID  `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	Table       []Column `json:"table,omitempty" yaml:"table"`
	Choices     []Choice `json:"choices" yaml:"choices"`
}

// Variables are the randomized numbers a scenario's text refers to.
// Every session draws one multiplier in [MultiplierMin, MultiplierMax) and
// scales each base value by it.
type Variables struct {
	Base          map[string]int `json:"base" yaml:"base"`
	MultiplierMin float64        `json:"multiplier_min" yaml:"multiplier_min"`
	MultiplierMax float64        `json:"multiplier_max" yaml:"multiplier_max"`
}

// BadgeBand awards Badge to every score >= MinScore.
type BadgeBand struct {
	MinScore int    `json:"min_score" yaml:"min_score"`
	Badge    string `json:"badge" yaml:"badge"`
}

// BadgeRule awards Badge when any chosen text contains Contains.
type BadgeRule struct {
	Badge      string `json:"badge" yaml:"badge"`
	Contains   string `json:"contains" yaml:"contains"`
	IgnoreCase bool   `json:"ignore_case,omitempty" yaml:"ignore_case"`
}

// Outcome configures the end-of-scenario report.
type Outcome struct {
	MaxScore     int      `json:"max_score" yaml:"max_score"`
	SuccessScore int      `json:"success_score" yaml:"success_score"`
	SavingsScale float64  `json:"savings_scale" yaml:"savings_scale"`
	SavingsCap   float64  `json:"savings_cap" yaml:"savings_cap"`
	CostVariable string   `json:"cost_variable" yaml:"cost_variable"`
	Learnings    []string `json:"learnings,omitempty" yaml:"learnings"`
}

// Scenario is a scripted, scored sequence of stages.
type Scenario struct {
	ID        string      `json:"id" yaml:"id"`
	Title     string      `json:"title" yaml:"title"`
	Intro     string      `json:"intro" yaml:"intro"`
	Start     StageID     `json:"start" yaml:"start"`
	Stages    []Stage     `json:"stages" yaml:"stages"`
	Variables Variables   `json:"variables" yaml:"variables"`
	Bands     []BadgeBand `json:"bands" yaml:"bands"`
	Rules     []BadgeRule `json:"rules" yaml:"rules"`
	Outcome   Outcome     `json:"outcome" yaml:"outcome"`
}

// Stage looks up a stage by id.
func (s *Scenario) Stage(id StageID) (Stage, bool) {
	for _, st := range s.Stages {
		if st.ID == id {
			return st, true
		}
	}
	return Stage{}, false
}

// Position is the 1-based index of a stage in declaration order, 0 if unknown.
func (s *Scenario) Position(id StageID) int {
	for i, st := range s.Stages {
		if st.ID == id {
			return i + 1
		}
	}
	return 0
}

// Validate rejects scenarios that could strand a session: duplicate stage
// ids, choices missing required fields, and links to stages that do not exist.
func (s *Scenario) Validate() error {
	if s == nil {
		return errors.New("scenario is nil")
	}
	if s.ID == "" {
		return errors.New("scenario id is required")
	}
	if len(s.Stages) == 0 {
		return fmt.Errorf("scenario %s: no stages", s.ID)
	}
	ids := make(map[StageID]struct{}, len(s.Stages))
	for _, st := range s.Stages {
		if st.ID == "" || st.ID == StageIntro || st.ID == StageEnd {
			return fmt.Errorf("scenario %s: invalid stage id %q", s.ID, st.ID)
		}
		if _, dup := ids[st.ID]; dup {
			return fmt.Errorf("scenario %s: duplicate stage id %q", s.ID, st.ID)
		}
		ids[st.ID] = struct{}{}
	}
	if _, ok := ids[s.Start]; !ok {
		return fmt.Errorf("scenario %s: start stage %q does not exist", s.ID, s.Start)
	}
	for _, st := range s.Stages {
		if len(st.Choices) == 0 {
			return fmt.Errorf("scenario %s: stage %s has no choices", s.ID, st.ID)
		}
		for i, ch := range st.Choices {
			if ch.Text == "" {
				return fmt.Errorf("scenario %s: stage %s choice %d: text is required", s.ID, st.ID, i)
			}
			if ch.Feedback == "" {
				return fmt.Errorf("scenario %s: stage %s choice %d: feedback is required", s.ID, st.ID, i)
			}
			if ch.Next == "" {
				return fmt.Errorf("scenario %s: stage %s choice %d: next is required", s.ID, st.ID, i)
			}
			if _, ok := ids[ch.Next]; !ok && ch.Next != StageEnd {
				return fmt.Errorf("scenario %s: stage %s choice %d: next %q does not exist", s.ID, st.ID, i, ch.Next)
			}
		}
		for _, col := range st.Table {
			if len(st.Table) > 0 && len(col.Values) != len(st.Table[0].Values) {
				return fmt.Errorf("scenario %s: stage %s: column %q is ragged", s.ID, st.ID, col.Name)
			}
		}
	}
	if s.Variables.MultiplierMin > s.Variables.MultiplierMax {
		return fmt.Errorf("scenario %s: multiplier_min > multiplier_max", s.ID)
	}
	badges := map[string]struct{}{}
	for _, b := range s.Bands {
		if b.Badge == "" {
			return fmt.Errorf("scenario %s: band with empty badge", s.ID)
		}
		if _, dup := badges[b.Badge]; dup {
			return fmt.Errorf("scenario %s: duplicate badge %q", s.ID, b.Badge)
		}
		badges[b.Badge] = struct{}{}
	}
	for _, r := range s.Rules {
		if r.Badge == "" || r.Contains == "" {
			return fmt.Errorf("scenario %s: badge rule needs badge and contains", s.ID)
		}
		if _, dup := badges[r.Badge]; dup {
			return fmt.Errorf("scenario %s: duplicate badge %q", s.ID, r.Badge)
		}
		badges[r.Badge] = struct{}{}
	}
	return nil
}

// VariableNames returns the template variable names in sorted order.
func (v Variables) VariableNames() []string {
	names := make([]string, 0, len(v.Base))
	for k := range v.Base {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
