package game

import (
	"math"
	"reflect"
	"testing"

	apperrors "finops-arcade/internal/errors"
	"finops-arcade/internal/model"
	"finops-arcade/internal/random"
	"finops-arcade/internal/usage"
)

var savingsSettings = SavingsSettings{
	OnDemandRate:      1.5,
	HorizonHours:      48,
	MinObservations:   5,
	CommitmentMin:     0,
	CommitmentMax:     5,
	CommitmentStep:    0.1,
	CommitmentDefault: 1,
}

var personas = []model.Persona{
	{Name: "Steady SaaS", BaseRate: 2, SpikeProb: 0.15, SpikeFactor: 2},
	{Name: "Spiky Batch", BaseRate: 1, SpikeProb: 0.35, SpikeFactor: 4},
}

func newSavingsGame(t *testing.T) *SavingsGame {
	t.Helper()
	g, err := NewSavingsGame(savingsSettings, personas)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func tickN(t *testing.T, g *SavingsGame, s SavingsSession, n int) SavingsSession {
	t.Helper()
	for i := 0; i < n; i++ {
		var err error
		s, _, err = g.Tick(s)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	return s
}

func TestSavingsLockFillsHorizon(t *testing.T) {
	g := newSavingsGame(t)
	s := tickN(t, g, g.NewSession("s", 21), 6)
	observed := append([]float64(nil), s.Usage...)

	if _, err := g.Results(s); !apperrors.IsCode(err, apperrors.CodeInvalidState) {
		t.Fatalf("results before lock: %v", err)
	}

	s, err := g.SetCommitment(s, 1.84)
	if err != nil || math.Abs(s.Commitment-1.8) > 1e-9 {
		t.Fatalf("commitment=%v err=%v", s.Commitment, err)
	}
	locked, err := g.Lock(s)
	if err != nil {
		t.Fatal(err)
	}
	if !locked.Locked || len(locked.Usage) != savingsSettings.HorizonHours {
		t.Fatalf("locked=%v len=%d", locked.Locked, len(locked.Usage))
	}
	if !reflect.DeepEqual([]float64(locked.Usage[:6]), observed) {
		t.Fatal("lock rewrote observed hours")
	}
	if len(s.Usage) != 6 || s.Locked {
		t.Fatal("lock mutated its input session")
	}

	if _, _, err := g.Tick(locked); !apperrors.IsCode(err, apperrors.CodeInvalidState) {
		t.Fatalf("tick after lock: %v", err)
	}
	if _, err := g.SetCommitment(locked, 2); !apperrors.IsCode(err, apperrors.CodeInvalidState) {
		t.Fatalf("commit after lock: %v", err)
	}
	if _, err := g.Lock(locked); !apperrors.IsCode(err, apperrors.CodeInvalidState) {
		t.Fatalf("double lock: %v", err)
	}

	res, err := g.Results(locked)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Count != savingsSettings.HorizonHours || res.Commitment != locked.Commitment {
		t.Fatalf("results %+v", res)
	}
	if res.OptimalBilling.TotalCost > res.Billing.TotalCost+1e-9 {
		t.Fatal("hindsight optimum costs more than the player's commitment")
	}
}

func TestSavingsMatchesBatchGeneration(t *testing.T) {
	g := newSavingsGame(t)
	s := tickN(t, g, g.NewSession("s", 77), 10)
	s, err := g.Lock(s)
	if err != nil {
		t.Fatal(err)
	}

	// Replay: first draw picks the persona, the rest are one draw per hour.
	st := random.NewStream(77)
	random.Pick(&st, personas)
	want := usage.NewGenerator(&st).GenerateHorizon(s.Persona, savingsSettings.HorizonHours)
	if !reflect.DeepEqual([]float64(s.Usage), want) {
		t.Fatal("streamed and locked usage differs from one batch draw")
	}
}

func TestLockNeedsObservations(t *testing.T) {
	g := newSavingsGame(t)
	s := tickN(t, g, g.NewSession("s", 1), 4)
	got, err := g.Lock(s)
	if !apperrors.IsCode(err, apperrors.CodeInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
	if got.Locked || len(got.Usage) != 4 {
		t.Fatal("failed lock changed the session")
	}
}

func TestTickRefusedAtHorizon(t *testing.T) {
	g := newSavingsGame(t)
	s := tickN(t, g, g.NewSession("s", 3), savingsSettings.HorizonHours)
	if _, _, err := g.Tick(s); !apperrors.IsCode(err, apperrors.CodeInvalidState) {
		t.Fatalf("tick past horizon: %v", err)
	}
	if s, err := g.Lock(s); err != nil || len(s.Usage) != savingsSettings.HorizonHours {
		t.Fatalf("lock at horizon: len=%d err=%v", len(s.Usage), err)
	}
}

func TestSetCommitmentBounds(t *testing.T) {
	g := newSavingsGame(t)
	s := g.NewSession("s", 1)
	for _, c := range []float64{-0.1, 5.1, math.NaN()} {
		if _, err := g.SetCommitment(s, c); !apperrors.IsCode(err, apperrors.CodeInvalidRequest) {
			t.Fatalf("commitment %v: %v", c, err)
		}
	}
}

func TestProjection(t *testing.T) {
	g := newSavingsGame(t)
	s := g.NewSession("s", 1)
	if p := g.Projection(s); p.Hours != 0 || p.Billing.SavingsPct != 0 {
		t.Fatalf("empty projection %+v", p)
	}
	s = tickN(t, g, s, 8)
	p := g.Projection(s)
	if p.Hours != 8 || math.Abs(p.Billing.TotalUsage-s.Usage.Total()) > 1e-9 {
		t.Fatalf("projection %+v", p)
	}
	if p.Advice == "" {
		t.Fatal("missing advice")
	}
}

func TestSavingsResetDrawsFreshRound(t *testing.T) {
	g := newSavingsGame(t)
	s, _ := g.Lock(tickN(t, g, g.NewSession("s", 9), 5))
	r := g.Reset(s, 10)
	if r.Locked || len(r.Usage) != 0 || r.Commitment != savingsSettings.CommitmentDefault || r.ID != "s" {
		t.Fatalf("reset %+v", r)
	}
}

func TestNewSavingsGameValidates(t *testing.T) {
	if _, err := NewSavingsGame(savingsSettings, nil); !apperrors.IsCode(err, apperrors.CodeInvalidContent) {
		t.Fatalf("no personas: %v", err)
	}
	bad := []model.Persona{{Name: "x", BaseRate: -1, SpikeFactor: 1}}
	if _, err := NewSavingsGame(savingsSettings, bad); !apperrors.IsCode(err, apperrors.CodeInvalidContent) {
		t.Fatalf("bad persona: %v", err)
	}
}
