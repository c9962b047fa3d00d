package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"finops-arcade/internal/analysis"
	"finops-arcade/internal/billing"
	"finops-arcade/internal/client"
	"finops-arcade/internal/config"
	"finops-arcade/internal/data"
	"finops-arcade/internal/model"
	"finops-arcade/internal/random"
	"finops-arcade/internal/simulation"
	"finops-arcade/internal/strategy"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	case "bill":
		cmdBill(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --persona \"Spiky Batch\" --strategy average:0.9 --seed 42 --out results/ledger.csv")
	fmt.Println("  cli compare --persona \"Steady SaaS\" --strategies fixed:1,average,percentile:0.5,oracle --seed 42")
	fmt.Println("  cli bill --server http://localhost:8080 --id aws-startup-001 --categories ec2-web=Compute,...")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate writes one CSV row per hour of the horizon")
	fmt.Println("  - compare runs every strategy over the same usage and ranks them by total cost")
	fmt.Println("  - --config and --data overlay the built-in tuning and content")
}

// env is the content and tuning shared by the offline subcommands.
type env struct {
	cfg     *config.Config
	catalog *data.Catalog
}

func loadEnv(fs *flag.FlagSet, args []string) (*env, *string, *int64) {
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	dataDir := fs.String("data", "", "Content overlay directory (optional)")
	persona := fs.String("persona", "", "Persona name (default: the first persona)")
	seed := fs.Int64("seed", 0, "Usage seed (0=random)")
	_ = fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	catalog, err := data.Load(*dataDir)
	if err != nil {
		panic(err)
	}
	if *seed == 0 {
		s, err := random.NewSeed()
		if err != nil {
			panic(err)
		}
		*seed = s
	}
	return &env{cfg: cfg, catalog: catalog}, persona, seed
}

func (e *env) persona(name string) model.Persona {
	personas := e.cfg.Simulation.PersonasOr(e.catalog.Personas)
	if name == "" {
		return personas[0]
	}
	for _, p := range personas {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	names := make([]string, len(personas))
	for i, p := range personas {
		names[i] = p.Name
	}
	fmt.Printf("unknown persona %q (have: %s)\n", name, strings.Join(names, ", "))
	os.Exit(2)
	return model.Persona{}
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	spec := fs.String("strategy", "average", "Commitment strategy: fixed:<c>, average[:f], percentile[:q], oracle")
	outPath := fs.String("out", "results/ledger.csv", "Output CSV path")
	e, personaName, seed := loadEnv(fs, args)

	set := e.cfg.Simulation.RunSettings()
	p := e.persona(*personaName)
	engine := simulation.New()
	series := engine.Generate(p, random.NewStream(*seed), set.HorizonHours)

	strat, err := strategy.Parse(*spec, series, set.Rates())
	if err != nil {
		panic(err)
	}
	res, err := engine.Run(p, series, strat, set)
	if err != nil {
		panic(err)
	}

	// ensure output dir exists
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := simulation.WriteLedgerCSV(*outPath, res.Ledger); err != nil {
		panic(err)
	}

	fmt.Printf("Wrote %d rows to %s (persona=%s seed=%d)\n", len(res.Ledger), *outPath, p.Name, *seed)
	fmt.Printf("Strategy %s committed %.2f/h: total %s vs on-demand %s (%.1f%% saved) -> %s\n",
		res.Strategy, res.Commitment, billing.FormatUSD(res.Billing.TotalCost), billing.FormatUSD(res.Billing.OnDemandCost),
		res.Billing.SavingsPct, res.Verdict)
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	specs := fs.String("strategies", "fixed:1,average,percentile:0.5,oracle", "Comma-separated strategies")
	e, personaName, seed := loadEnv(fs, args)

	set := e.cfg.Simulation.RunSettings()
	p := e.persona(*personaName)
	engine := simulation.New()
	series := engine.Generate(p, random.NewStream(*seed), set.HorizonHours)

	var outcomes []analysis.Outcome
	for _, spec := range splitList(*specs) {
		strat, err := strategy.Parse(spec, series, set.Rates())
		if err != nil {
			panic(err)
		}
		res, err := engine.Run(p, series, strat, set)
		if err != nil {
			panic(err)
		}
		outcomes = append(outcomes, analysis.Outcome{Strategy: res.Strategy, Commitment: res.Commitment, Result: res.Billing})
	}

	stats := analysis.ComputeStats(series)
	fmt.Printf("persona=%s seed=%d hours=%d mean=%.2f p95=%.2f peak=%.2f\n",
		p.Name, *seed, stats.Count, stats.Mean, stats.P95, stats.Max)
	fmt.Printf("%-4s %-18s %-10s %-14s %-10s %-12s\n", "rank", "strategy", "commit/h", "total", "saved%", "regret")
	for _, r := range analysis.RankByTotalCost(outcomes) {
		fmt.Printf("%-4d %-18s %-10.2f %-14s %-10.1f %-12s\n",
			r.Rank, r.Strategy, r.Commitment, billing.FormatUSD(r.Result.TotalCost), r.Result.SavingsPct, billing.FormatUSD(r.Regret))
	}
}

func cmdBill(args []string) {
	fs := flag.NewFlagSet("bill", flag.ExitOnError)
	server := fs.String("server", "http://localhost:8080", "API server base URL")
	id := fs.String("id", "", "Bill id (default: random)")
	categories := fs.String("categories", "", "item=category pairs, comma-separated")
	optimizations := fs.String("optimizations", "", "item=optimization pairs, comma-separated")
	_ = fs.Parse(args)

	ctx := context.Background()
	c := client.New(*server)
	bill, err := c.GetBill(ctx, *id)
	if err != nil {
		panic(err)
	}
	fmt.Printf("bill %s\n", bill.ID)
	for _, it := range bill.Items {
		fmt.Printf("  %-16s $%10s  %s (%s)\n", it.ID, it.Cost.StringFixed(2), it.Resource, it.Description)
	}

	if *categories != "" {
		res, err := c.ValidateCategories(ctx, bill.ID, splitPairs(*categories))
		if err != nil {
			panic(err)
		}
		ids := make([]string, 0, len(res.Results))
		for k := range res.Results {
			ids = append(ids, k)
		}
		sort.Strings(ids)
		for _, k := range ids {
			r := res.Results[k]
			mark := "x"
			if r.IsCorrect {
				mark = "ok"
			}
			fmt.Printf("  [%s] %-16s correct=%s\n", mark, k, r.Correct)
		}
		fmt.Printf("all correct: %v\n", res.AllCorrect)
	}

	if *optimizations != "" {
		sum, err := c.ValidateOptimizations(ctx, bill.ID, splitPairs(*optimizations))
		if err != nil {
			panic(err)
		}
		fmt.Printf("before $%s after $%s savings $%s\n",
			sum.BeforeTotal.StringFixed(2), sum.AfterTotal.StringFixed(2), sum.Savings.StringFixed(2))
	}

	if tip, err := c.Tip(ctx); err == nil {
		fmt.Printf("tip: %s\n", tip)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitPairs(s string) map[string]string {
	out := map[string]string{}
	for _, p := range splitList(s) {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			fmt.Printf("invalid pair %q, want item=value\n", p)
			os.Exit(2)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}
