package game

import (
	"math"

	"finops-arcade/internal/analysis"
	"finops-arcade/internal/billing"
	apperrors "finops-arcade/internal/errors"
	"finops-arcade/internal/model"
	"finops-arcade/internal/random"
	"finops-arcade/internal/strategy"
	"finops-arcade/internal/usage"
)

// SavingsSettings are the constants of the savings-plan game.
type SavingsSettings struct {
	OnDemandRate      float64
	HorizonHours      int
	MinObservations   int
	CommitmentMin     float64
	CommitmentMax     float64
	CommitmentStep    float64
	CommitmentDefault float64
}

func (s SavingsSettings) rates() billing.Rates {
	return billing.Rates{OnDemandRate: s.OnDemandRate, HorizonHours: s.HorizonHours}
}

func (s SavingsSettings) slider() strategy.Context {
	return strategy.Context{Min: s.CommitmentMin, Max: s.CommitmentMax, Step: s.CommitmentStep}
}

// SavingsSession is one savings-plan round. Stream is the session's own
// generator; it travels with the session so no two sessions share draws.
type SavingsSession struct {
	ID         string            `json:"id"`
	Persona    model.Persona     `json:"persona"`
	Usage      model.UsageSeries `json:"usage"`
	Commitment float64           `json:"commitment"`
	Locked     bool              `json:"locked"`
	Stream     random.Stream     `json:"-"`
}

// Complete is true once the commitment is locked and the horizon is filled.
func (s SavingsSession) Complete() bool { return s.Locked }

type SavingsGame struct {
	settings SavingsSettings
	personas []model.Persona
}

func NewSavingsGame(settings SavingsSettings, personas []model.Persona) (*SavingsGame, error) {
	if len(personas) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidContent, "no personas")
	}
	for _, p := range personas {
		if err := p.Validate(); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInvalidContent, "invalid persona", err)
		}
	}
	if settings.HorizonHours <= 0 || settings.MinObservations > settings.HorizonHours {
		return nil, apperrors.Newf(apperrors.CodeInvalidContent,
			"horizon %d must be positive and hold %d observations", settings.HorizonHours, settings.MinObservations)
	}
	return &SavingsGame{settings: settings, personas: append([]model.Persona(nil), personas...)}, nil
}

func (g *SavingsGame) Settings() SavingsSettings { return g.settings }

// NewSession picks a persona with the first draw of a stream seeded by seed.
func (g *SavingsGame) NewSession(id string, seed int64) SavingsSession {
	st := random.NewStream(seed)
	p, _ := random.Pick(&st, g.personas)
	return SavingsSession{
		ID:         id,
		Persona:    p,
		Usage:      model.UsageSeries{},
		Commitment: g.settings.CommitmentDefault,
		Stream:     st,
	}
}

// Reset discards the round and draws a new persona.
func (g *SavingsGame) Reset(s SavingsSession, seed int64) SavingsSession {
	return g.NewSession(s.ID, seed)
}

// Tick is one observed hour.
type Tick struct {
	Hour  int            `json:"hour"`
	Usage float64        `json:"usage"`
	Kind  model.HourKind `json:"kind"`

	// Alert flags a jump above 1.5x the mean of the previous three hours.
	Alert bool `json:"alert"`
}

// Tick observes one more hour. It is refused once the commitment is locked or
// the horizon is full.
func (g *SavingsGame) Tick(s SavingsSession) (SavingsSession, Tick, error) {
	if s.Locked {
		return s, Tick{}, apperrors.New(apperrors.CodeInvalidState, "commitment is locked")
	}
	if len(s.Usage) >= g.settings.HorizonHours {
		return s, Tick{}, apperrors.New(apperrors.CodeInvalidState, "horizon reached; lock a commitment")
	}
	st := s.Stream
	v := usage.NewGenerator(&st).NextSample(s.Persona)

	t := Tick{
		Hour:  len(s.Usage),
		Usage: v,
		Kind:  model.KindFromSample(v, s.Persona),
		Alert: analysis.IsSpike(s.Usage, v, 3),
	}
	n := len(s.Usage)
	s.Usage = append(s.Usage[:n:n], v)
	s.Stream = st
	return s, t, nil
}

// SetCommitment moves the slider. Values outside the slider range are
// rejected; values inside are snapped to the slider step.
func (g *SavingsGame) SetCommitment(s SavingsSession, c float64) (SavingsSession, error) {
	if s.Locked {
		return s, apperrors.New(apperrors.CodeInvalidState, "commitment is locked")
	}
	if math.IsNaN(c) || c < g.settings.CommitmentMin || c > g.settings.CommitmentMax {
		return s, apperrors.Newf(apperrors.CodeInvalidRequest,
			"commitment must be between %.2f and %.2f", g.settings.CommitmentMin, g.settings.CommitmentMax)
	}
	s.Commitment = g.settings.slider().Snap(c)
	return s, nil
}

// Lock fixes the commitment and fills the rest of the horizon in one batch.
// The new session is either fully locked and filled or, on error, the input.
func (g *SavingsGame) Lock(s SavingsSession) (SavingsSession, error) {
	if s.Locked {
		return s, apperrors.New(apperrors.CodeInvalidState, "commitment is already locked")
	}
	if len(s.Usage) < g.settings.MinObservations {
		return s, apperrors.Newf(apperrors.CodeInvalidState,
			"observe at least %d hours before locking (%d so far)", g.settings.MinObservations, len(s.Usage))
	}
	st := s.Stream
	rest := usage.NewGenerator(&st).GenerateHorizon(s.Persona, g.settings.HorizonHours-len(s.Usage))

	full := make(model.UsageSeries, 0, g.settings.HorizonHours)
	full = append(append(full, s.Usage...), rest...)
	s.Usage = full
	s.Stream = st
	s.Locked = true
	return s, nil
}

// Projection prices the hours observed so far as if they were the whole horizon.
type Projection struct {
	Hours        int              `json:"hours"`
	ObservedMean float64          `json:"observed_mean"`
	Peak         float64          `json:"peak"`
	Billing      billing.Result   `json:"billing"`
	Guidance     billing.Guidance `json:"guidance"`
	Advice       string           `json:"advice"`
}

// Projection prices the observed prefix only, so the live savings figure is
// meaningful from the first tick.
func (g *SavingsGame) Projection(s SavingsSession) Projection {
	mean := s.Usage.Mean()
	adv := billing.Advise(s.Commitment, mean)
	return Projection{
		Hours:        len(s.Usage),
		ObservedMean: mean,
		Peak:         s.Usage.Peak(),
		Billing:      billing.ComputeCosts(s.Usage, s.Commitment, g.settings.OnDemandRate, len(s.Usage)),
		Guidance:     adv,
		Advice:       adv.Message(),
	}
}

// SavingsResults is the end-of-round report.
type SavingsResults struct {
	Persona    model.Persona       `json:"persona"`
	Commitment float64             `json:"commitment"`
	Billing    billing.Result      `json:"billing"`
	Verdict    billing.Verdict     `json:"verdict"`
	Message    string              `json:"message"`
	Stats      analysis.UsageStats `json:"stats"`

	// Hindsight is the cheapest slider position for the realized usage.
	OptimalCommitment float64        `json:"optimal_commitment"`
	OptimalBilling    billing.Result `json:"optimal_billing"`
}

// Results is available only once the round is locked.
func (g *SavingsGame) Results(s SavingsSession) (SavingsResults, error) {
	if !s.Complete() {
		return SavingsResults{}, apperrors.New(apperrors.CodeInvalidState, "lock a commitment to see results")
	}
	res := g.settings.rates().Compute(s.Usage, s.Commitment)
	verdict := billing.Grade(res.SavingsPct)
	best, bestRes := strategy.Optimize(s.Usage, g.settings.rates(), g.settings.slider())
	return SavingsResults{
		Persona:           s.Persona,
		Commitment:        s.Commitment,
		Billing:           res,
		Verdict:           verdict,
		Message:           verdict.Message(res.SavingsPct),
		Stats:             analysis.ComputeStats(s.Usage),
		OptimalCommitment: best,
		OptimalBilling:    bestRes,
	}, nil
}
