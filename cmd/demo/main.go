package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"finops-arcade/internal/billing"
	"finops-arcade/internal/config"
	"finops-arcade/internal/data"
	"finops-arcade/internal/game"
	"finops-arcade/internal/random"
)

// Demo:
// - Load the built-in content and tuning
// - Play one scenario with a scripted list of choices
// - Play one savings round: observe some hours, commit, lock
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	dataDir := flag.String("data", "", "Content overlay directory (optional)")
	scenario := flag.String("scenario", "kubecost-detective", "Scenario id")
	choices := flag.String("choices", "0,0,0,0,0", "Choice index per stage, comma-separated")
	seed := flag.Int64("seed", 42, "Seed for scenario values and usage")
	ticks := flag.Int("ticks", 24, "Hours to observe before locking")
	commit := flag.Float64("commit", -1, "Hourly commitment (default: observed mean)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	catalog, err := data.Load(*dataDir)
	if err != nil {
		panic(err)
	}

	playScenario(catalog, *scenario, *choices, *seed)
	fmt.Println()
	playSavings(cfg, catalog, *seed, *ticks, *commit)
}

func playScenario(catalog *data.Catalog, id, choices string, seed int64) {
	sc, err := catalog.Scenario(id)
	if err != nil {
		panic(err)
	}
	m, err := game.NewMachine(sc)
	if err != nil {
		panic(err)
	}
	st := random.NewStream(seed)
	s, err := m.Begin(m.NewSession("demo", &st))
	if err != nil {
		panic(err)
	}

	fmt.Printf("== %s ==\n%s\n\n", sc.Title, sc.Intro)
	for _, raw := range strings.Split(choices, ",") {
		if s.Finished() {
			break
		}
		idx, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			panic(fmt.Errorf("invalid choice %q: %w", raw, err))
		}
		v, err := m.View(s)
		if err != nil {
			panic(err)
		}
		fmt.Printf("[%s] %s\n", v.StageLabel(), v.Description)
		for _, col := range v.Table {
			fmt.Printf("    %-20s %s\n", col.Name, strings.Join(col.Values, " | "))
		}
		if s, err = m.Advance(s, v.ID, idx); err != nil {
			panic(err)
		}
		fmt.Printf("  -> %s\n  %s (score %d)\n\n", v.Choices[idx], s.Feedback, s.Score)
	}

	res, err := m.Results(s)
	if err != nil {
		fmt.Printf("Scenario not finished: %v\n", err)
		return
	}
	fmt.Printf("Score %d/%d success=%v tier=%q badges=%s\n", res.Score, res.MaxScore, res.Success, res.Tier, strings.Join(res.Badges, ", "))
	fmt.Printf("Monthly cost $%d -> $%d (%.1f%% saved, $%d/year)\n", res.InitialCost, res.FinalCost, res.SavingsPct, res.AnnualSavings)
}

func playSavings(cfg *config.Config, catalog *data.Catalog, seed int64, ticks int, commit float64) {
	g, err := game.NewSavingsGame(cfg.Simulation.SavingsSettings(), cfg.Simulation.PersonasOr(catalog.Personas))
	if err != nil {
		panic(err)
	}
	s := g.NewSession("demo", seed)
	fmt.Printf("== Savings plan: %s ==\n%s\n", s.Persona.Name, s.Persona.Hint)
	fmt.Printf("Long-run mean usage: %.2f/h\n", s.Persona.ExpectedRate())

	for i := 0; i < ticks; i++ {
		var t game.Tick
		if s, t, err = g.Tick(s); err != nil {
			panic(err)
		}
		if t.Alert {
			fmt.Printf("  hour %3d usage=%.2f (%s) spike!\n", t.Hour, t.Usage, t.Kind)
		}
	}

	p := g.Projection(s)
	if commit < 0 {
		commit = p.ObservedMean
	}
	if commit > g.Settings().CommitmentMax {
		commit = g.Settings().CommitmentMax
	}
	if s, err = g.SetCommitment(s, commit); err != nil {
		panic(err)
	}
	fmt.Printf("Observed %d hours, mean %.2f, peak %.2f. %s\n", p.Hours, p.ObservedMean, p.Peak, p.Advice)
	fmt.Printf("Committing %.2f/h\n", s.Commitment)

	if s, err = g.Lock(s); err != nil {
		panic(err)
	}
	res, err := g.Results(s)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Total %s vs on-demand %s: %s (%s)\n",
		billing.FormatUSD(res.Billing.TotalCost), billing.FormatUSD(res.Billing.OnDemandCost), res.Verdict, res.Message)
	fmt.Printf("Hindsight best: %.2f/h for %s\n", res.OptimalCommitment, billing.FormatUSD(res.OptimalBilling.TotalCost))
}
