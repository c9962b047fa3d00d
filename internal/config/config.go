package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"finops-arcade/internal/billing"
	"finops-arcade/internal/data"
	"finops-arcade/internal/game"
	"finops-arcade/internal/model"
	"finops-arcade/internal/simulation"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk game tuning (YAML).
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Bill       BillConfig       `yaml:"bill"`
	Matching   MatchingConfig   `yaml:"matching"`
}

type SimulationConfig struct {
	// Optional: load personas from a separate YAML (a top-level `personas:` list).
	// Personas listed inline replace same-named personas from the file.
	PersonasFile string          `yaml:"personas_file"`
	Personas     []model.Persona `yaml:"personas"`

	OnDemandRate    float64 `yaml:"on_demand_rate"`
	HorizonHours    int     `yaml:"horizon_hours"`
	MinObservations int     `yaml:"min_observations"`
	// ObserveHours is the prefix batch strategies see before committing.
	ObserveHours int `yaml:"observe_hours"`

	CommitmentMin     float64 `yaml:"commitment_min"`
	CommitmentMax     float64 `yaml:"commitment_max"`
	CommitmentStep    float64 `yaml:"commitment_step"`
	CommitmentDefault float64 `yaml:"commitment_default"`
}

type BillConfig struct {
	SavingsRate float64 `yaml:"savings_rate"`
	NoAction    string  `yaml:"no_action"`
}

type MatchingConfig struct {
	MatchPoints   int `yaml:"match_points"`
	MissionPoints int `yaml:"mission_points"`
}

// Default returns the built-in tuning: a 30-day hourly horizon, a 0..5
// commitment slider and the 80% line-item savings rule.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			OnDemandRate:      1.5,
			HorizonHours:      720,
			MinObservations:   5,
			ObserveHours:      24,
			CommitmentMin:     0,
			CommitmentMax:     5,
			CommitmentStep:    0.1,
			CommitmentDefault: 1,
		},
		Bill: BillConfig{
			SavingsRate: 0.8,
			NoAction:    model.NoAction,
		},
		Matching: MatchingConfig{
			MatchPoints:   10,
			MissionPoints: 5,
		},
	}
}

// Load reads path over the defaults and validates the result. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		c := Default()
		return c, c.Validate()
	}
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, err
	}
	if c.Simulation.PersonasFile != "" {
		personasPath := c.Simulation.PersonasFile
		if !filepath.IsAbs(personasPath) {
			// Relative paths resolve against the config file's directory first,
			// then against the working directory.
			cand := filepath.Join(filepath.Dir(path), personasPath)
			if _, err := os.Stat(cand); err == nil {
				personasPath = cand
			}
		}
		loaded, err := loadPersonasFile(personasPath)
		if err != nil {
			return nil, err
		}
		c.Simulation.Personas = MergePersonas(loaded, c.Simulation.Personas)
	}
	return c, nil
}

func loadPersonasFile(path string) ([]model.Persona, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ps, err := data.ParsePersonas(raw)
	if err != nil {
		return nil, fmt.Errorf("personas file %s: %w", path, err)
	}
	return ps, nil
}

// MergePersonas overlays override onto base by name; new names are appended.
func MergePersonas(base, override []model.Persona) []model.Persona {
	out := append([]model.Persona(nil), base...)
	for _, p := range override {
		replaced := false
		for i := range out {
			if out[i].Name == p.Name {
				out[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	s := c.Simulation
	if s.OnDemandRate <= 0 {
		return errors.New("simulation.on_demand_rate must be > 0")
	}
	if s.HorizonHours <= 0 {
		return errors.New("simulation.horizon_hours must be > 0")
	}
	if s.MinObservations < 1 || s.MinObservations > s.HorizonHours {
		return fmt.Errorf("simulation.min_observations must be in [1, %d]", s.HorizonHours)
	}
	if s.ObserveHours < 1 || s.ObserveHours > s.HorizonHours {
		return fmt.Errorf("simulation.observe_hours must be in [1, %d]", s.HorizonHours)
	}
	if s.CommitmentMin < 0 || s.CommitmentMax <= s.CommitmentMin {
		return errors.New("simulation: commitment range must satisfy 0 <= min < max")
	}
	if s.CommitmentStep <= 0 {
		return errors.New("simulation.commitment_step must be > 0")
	}
	if s.CommitmentDefault < s.CommitmentMin || s.CommitmentDefault > s.CommitmentMax {
		return errors.New("simulation.commitment_default must lie inside the commitment range")
	}
	for _, p := range s.Personas {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("simulation personas invalid: %w", err)
		}
	}
	if c.Bill.SavingsRate <= 0 || c.Bill.SavingsRate > 1 {
		return errors.New("bill.savings_rate must be in (0, 1]")
	}
	if c.Bill.NoAction == "" {
		return errors.New("bill.no_action is required")
	}
	if c.Matching.MatchPoints < 0 || c.Matching.MissionPoints < 0 {
		return errors.New("matching points must be >= 0")
	}
	return nil
}

// SavingsSettings converts the simulation section for the savings game.
func (s SimulationConfig) SavingsSettings() game.SavingsSettings {
	return game.SavingsSettings{
		OnDemandRate:      s.OnDemandRate,
		HorizonHours:      s.HorizonHours,
		MinObservations:   s.MinObservations,
		CommitmentMin:     s.CommitmentMin,
		CommitmentMax:     s.CommitmentMax,
		CommitmentStep:    s.CommitmentStep,
		CommitmentDefault: s.CommitmentDefault,
	}
}

// RunSettings converts the simulation section for batch runs.
func (s SimulationConfig) RunSettings() simulation.Settings {
	return simulation.Settings{
		OnDemandRate:   s.OnDemandRate,
		HorizonHours:   s.HorizonHours,
		ObserveHours:   s.ObserveHours,
		CommitmentMin:  s.CommitmentMin,
		CommitmentMax:  s.CommitmentMax,
		CommitmentStep: s.CommitmentStep,
	}
}

// PersonasOr returns the configured personas, or fallback when none are set.
func (s SimulationConfig) PersonasOr(fallback []model.Persona) []model.Persona {
	if len(s.Personas) > 0 {
		return s.Personas
	}
	return fallback
}

func (b BillConfig) Rule() billing.OptimizationRule {
	return billing.OptimizationRule{
		SavingsRate: decimal.NewFromFloat(b.SavingsRate),
		NoAction:    b.NoAction,
	}
}

func (m MatchingConfig) Points() game.MatchingPoints {
	return game.MatchingPoints{Match: m.MatchPoints, Mission: m.MissionPoints}
}
