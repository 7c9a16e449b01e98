// Command trainer is a single-shot CLI entry point into trainer.Execute:
// it loads configuration, wires a store (Postgres when DATABASE_DSN is
// set, in-memory otherwise), runs one generation for a given uid, and
// prints the resulting sessions as JSON. Modeled on the teacher's
// cmd/server/main.go (config load, logger setup) trimmed to a one-shot
// CLI since the HTTP surface itself is out of scope for this module.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	trainer "github.com/smilemakc/trainerflow"
	"github.com/smilemakc/trainerflow/internal/config"
	"github.com/smilemakc/trainerflow/internal/llmclient"
	"github.com/smilemakc/trainerflow/internal/logging"
	"github.com/smilemakc/trainerflow/internal/metrics"
	"github.com/smilemakc/trainerflow/internal/store"
)

func main() {
	uid := flag.String("uid", "", "user id to generate a plan for (required)")
	requestType := flag.String("request-type", "weekly", "weekly|daily|session")
	flag.Parse()

	if *uid == "" {
		fmt.Fprintln(os.Stderr, "Error: -uid is required")
		flag.Usage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	metricsCollector := metrics.NewCollector()
	llmClient := llmclient.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, metricsCollector)
	dataStore := buildStore(cfg)

	deps := trainer.Dependencies{
		Store:      dataStore,
		LLM:        llmClient,
		Log:        log,
		Metrics:    metricsCollector,
		RunTimeout: cfg.RunTimeout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout+time.Minute)
	defer cancel()

	result, err := trainer.Execute(ctx, deps, *uid, trainer.RequestType(*requestType))
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result.Sessions, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal result")
		os.Exit(1)
	}
	fmt.Println(string(out))

	nodeMetrics, aiMetrics := metricsCollector.Snapshot()
	log.Info().
		Int("nodeCount", len(nodeMetrics)).
		Int("llmRequests", aiMetrics.TotalRequests).
		Dur("llmLatency", aiMetrics.TotalLatency).
		Msg("run complete")
}

// buildStore picks BunStore when DATABASE_DSN is configured, MemStore
// otherwise (handy for demoing against a fixed in-process catalogue
// without standing up Postgres).
func buildStore(cfg *config.Config) store.Store {
	if cfg.DatabaseDSN == "" {
		return store.NewMemStore(nil)
	}

	bunStore := store.NewBunStore(cfg.DatabaseDSN)
	if err := bunStore.InitSchema(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init schema: %v\n", err)
		os.Exit(1)
	}
	return bunStore
}
