package scoring

import (
	"reflect"
	"testing"

	"finops-arcade/internal/model"
)

func detectiveEngine() *Engine {
	return NewEngine(
		[]model.BadgeBand{
			{MinScore: 200, Badge: "Junior Detective"},
			{MinScore: 400, Badge: "Master Detective"},
			{MinScore: 300, Badge: "Senior Detective"},
		},
		[]model.BadgeRule{
			{Badge: "Investigator", Contains: "Drill into"},
			{Badge: "Organizer", Contains: "tagging", IgnoreCase: true},
		},
	)
}

func TestBandsAreCumulative(t *testing.T) {
	e := detectiveEngine()
	cases := []struct {
		score int
		want  []string
	}{
		{150, []string{}},
		{200, []string{"Junior Detective"}},
		{300, []string{"Senior Detective", "Junior Detective"}},
		{450, []string{"Master Detective", "Senior Detective", "Junior Detective"}},
	}
	for _, tc := range cases {
		if got := e.ComputeBadges(tc.score, nil); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("score %d: got %v want %v", tc.score, got, tc.want)
		}
	}
}

func TestBehavioralRules(t *testing.T) {
	e := detectiveEngine()
	history := []string{"Drill into namespace costs", "Enforce TAGGING policy"}
	got := e.ComputeBadges(0, history)
	want := []string{"Investigator", "Organizer"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	// case-sensitive rule must not match a lowercase variant
	if got := e.ComputeBadges(0, []string{"drill into it"}); len(got) != 0 {
		t.Fatalf("unexpected badges %v", got)
	}
}

func TestComputeBadgesIdempotent(t *testing.T) {
	e := detectiveEngine()
	history := []string{"Drill into namespace costs"}
	a := e.ComputeBadges(320, history)
	b := e.ComputeBadges(320, history)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("%v != %v", a, b)
	}
}

func TestDuplicateBadgeAwardedOnce(t *testing.T) {
	e := NewEngine(
		[]model.BadgeBand{{MinScore: 10, Badge: "Star"}},
		[]model.BadgeRule{{Badge: "Star", Contains: "x"}},
	)
	if got := e.ComputeBadges(20, []string{"x"}); len(got) != 1 {
		t.Fatalf("got %v", got)
	}
}

func TestTier(t *testing.T) {
	e := detectiveEngine()
	if e.Tier(350) != "Senior Detective" || e.Tier(10) != "" {
		t.Fatalf("tiers: %q %q", e.Tier(350), e.Tier(10))
	}
}
