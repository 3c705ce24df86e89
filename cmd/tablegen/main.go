// tablegen pre-computes the archetype lookup tables: every shot shape at
// every speed variant, written as full and mobile JSON artifacts, with
// optional SQLite persistence and an HTML comparison report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fairway-data/carry.report/internal/config"
	"github.com/fairway-data/carry.report/internal/flight"
	"github.com/fairway-data/carry.report/internal/report"
	"github.com/fairway-data/carry.report/internal/storage"
)

func main() {
	var (
		outDir     string
		configPath string
		dbPath     string
		reportPath string
		parallel   int
		skipMobile bool
	)

	flag.StringVar(&outDir, "out", "tables", "output directory for generated table JSON")
	flag.StringVar(&configPath, "config", "", "path to tuning config JSON (defaults when empty)")
	flag.StringVar(&dbPath, "db", "", "optional SQLite path; persists the run when set")
	flag.StringVar(&reportPath, "report", "", "optional path for the HTML archetype comparison")
	flag.IntVar(&parallel, "parallel", 0, "max concurrently simulated archetypes (0 = unbounded)")
	flag.BoolVar(&skipMobile, "skip-mobile", false, "skip writing the reduced mobile tables")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tuning := config.EmptyTuningConfig()
	if configPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	sim, err := flight.NewSimulator(flight.SimConfigFromTuning(tuning))
	if err != nil {
		log.Fatalf("simulator: %v", err)
	}
	gen, err := flight.NewTableGenerator(sim)
	if err != nil {
		log.Fatalf("generator: %v", err)
	}
	gen.Parallelism = parallel

	started := time.Now()
	set, err := gen.Generate(ctx)
	if err != nil {
		log.Fatalf("generate tables: %v", err)
	}
	fmt.Printf("generated %d archetypes in %s\n", len(set.Archetypes), time.Since(started).Round(time.Millisecond))

	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	fullPath := filepath.Join(outDir, "shot_tables.json")
	if err := writeJSON(fullPath, set); err != nil {
		log.Fatalf("write tables: %v", err)
	}
	fmt.Printf("wrote %s\n", fullPath)

	if !skipMobile {
		mobilePath := filepath.Join(outDir, "shot_tables_mobile.json")
		if err := writeJSON(mobilePath, set.Mobile()); err != nil {
			log.Fatalf("write mobile tables: %v", err)
		}
		fmt.Printf("wrote %s\n", mobilePath)
	}

	if dbPath != "" {
		store, err := storage.NewStore(dbPath)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer store.Close()

		runID, err := store.SaveTableSet(set)
		if err != nil {
			log.Fatalf("persist run: %v", err)
		}
		fmt.Printf("persisted run %s to %s\n", runID, dbPath)
	}

	if reportPath != "" {
		if err := report.WriteComparisonHTML(reportPath, set); err != nil {
			log.Fatalf("write report: %v", err)
		}
		fmt.Printf("wrote %s\n", reportPath)
	}
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}
