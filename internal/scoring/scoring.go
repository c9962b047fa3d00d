// Package scoring turns a score and a choice history into badges.
package scoring

import (
	"sort"
	"strings"

	"finops-arcade/internal/model"
)

// Engine evaluates badge bands and behavioral rules. It holds no session
// state; ComputeBadges is a pure function of its arguments.
type Engine struct {
	bands []model.BadgeBand
	rules []model.BadgeRule
}

// NewEngine copies bands and orders them top-down by MinScore. Bands with
// equal thresholds keep their configured order.
func NewEngine(bands []model.BadgeBand, rules []model.BadgeRule) *Engine {
	b := append([]model.BadgeBand(nil), bands...)
	sort.SliceStable(b, func(i, j int) bool { return b[i].MinScore > b[j].MinScore })
	return &Engine{bands: b, rules: append([]model.BadgeRule(nil), rules...)}
}

// ComputeBadges awards every band at or below score, highest first, then
// every rule whose pattern appears in any of the history texts. The result
// holds each badge once.
func (e *Engine) ComputeBadges(score int, history []string) []string {
	out := []string{}
	seen := map[string]bool{}
	add := func(b string) {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	for _, band := range e.bands {
		if score >= band.MinScore {
			add(band.Badge)
		}
	}
	for _, r := range e.rules {
		if matchesAny(r, history) {
			add(r.Badge)
		}
	}
	return out
}

// Tier is the highest band reached, or "" when no band applies.
func (e *Engine) Tier(score int) string {
	for _, band := range e.bands {
		if score >= band.MinScore {
			return band.Badge
		}
	}
	return ""
}

func matchesAny(r model.BadgeRule, history []string) bool {
	pattern := r.Contains
	if r.IgnoreCase {
		pattern = strings.ToLower(pattern)
	}
	for _, text := range history {
		if r.IgnoreCase {
			text = strings.ToLower(text)
		}
		if strings.Contains(text, pattern) {
			return true
		}
	}
	return false
}
