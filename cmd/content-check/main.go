package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"finops-arcade/internal/api"
	"finops-arcade/internal/config"
	"finops-arcade/internal/data"
)

// content-check validates a content overlay and config the way the API server
// would load them, or exports the built-in content as a starting point for
// an overlay.
func main() {
	var (
		dataDir   = flag.String("data", "", "Content overlay directory to check (default: built-in content only)")
		cfgPath   = flag.String("config", "", "YAML config to check together with the content")
		exportDir = flag.String("export", "", "Write the built-in content to this directory and exit")
	)
	flag.Parse()

	if *exportDir != "" {
		written, err := data.Export(*exportDir)
		if err != nil {
			log.Fatalf("Failed to export content: %v", err)
		}
		for _, p := range written {
			fmt.Println(p)
		}
		fmt.Printf("Exported %d files to %s\n", len(written), *exportDir)
		return
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	catalog, err := data.Load(*dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "content: %v\n", err)
		os.Exit(1)
	}

	// Building the server constructs every game, which checks what catalog
	// validation cannot: scenario graphs, personas against the tuning.
	if _, err := api.NewServer(api.Options{Catalog: catalog, Config: cfg}); err != nil {
		fmt.Fprintf(os.Stderr, "games: %v\n", err)
		os.Exit(1)
	}

	for _, b := range catalog.Bills {
		fmt.Printf("bill:       %s (%d items, $%s)\n", b.ID, len(b.Items), b.Total().StringFixed(2))
	}
	fmt.Printf("tips:       %d\n", len(catalog.Tips))
	fmt.Printf("personas:   %d\n", len(cfg.Simulation.PersonasOr(catalog.Personas)))
	fmt.Printf("scenarios:  %v\n", catalog.ScenarioIDs())
	fmt.Printf("ordering:   %d steps\n", len(catalog.Ordering.Steps))
	fmt.Printf("matching:   %d problems, %d roles, %d missions\n",
		len(catalog.Matching.Problems), len(catalog.Matching.Roles), len(catalog.Matching.Missions))
	fmt.Printf("maturity:   %d scenarios\n", len(catalog.Maturity))
	fmt.Printf("pairs:      %d\n", len(catalog.Pairs))
	fmt.Printf("flipcards:  %d\n", len(catalog.Flipcards))
	fmt.Println("OK")
}
