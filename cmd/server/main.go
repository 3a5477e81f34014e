/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the workforce ledger server.
  Handles configuration, seeding, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env, then parse command-line flags (environment variables
     supply defaults)
  2. Open the SQLite seed database, if configured
  3. Build the initial population (seed file, database, or demo scenario)
  4. Create the ledger, API handler and suggestion scheduler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port                 HTTP server port (PORT, default: 8080)
  -seed                 YAML seed file (SEED_FILE)
  -db                   SQLite seed database path (SEED_DB)
                        Use ":memory:" for an in-memory database
  -scenario             Demo scenario used when no seed data exists
                        (SCENARIO, default: nashik-site)
  -suggestion-interval  How often to log urgent suggestions
                        (SUGGESTION_INTERVAL, default: 1h, 0 disables)
  -suggestion-schedule  Cron expression replacing the interval
                        (SUGGESTION_SCHEDULE, e.g. "0 8 * * *")
  -payout-threshold     Balance above which a payout is suggested
                        (PAYOUT_THRESHOLD, default: 40000)

SEEDING:
  A seed file wins over the database and is imported into it when both
  are given. Otherwise a non-empty database is loaded. Failing both, the
  scenario is built for today. Ledger mutations are held in memory only.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the suggestion scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Seed from YAML and keep a copy in SQLite
  ./server -seed=./site.yaml -db=./data/site.db

  # Boot the quiet demo site on a different port
  ./server -scenario=quiet-week -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Seed database
  - seed/yaml.go: Seed files
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/warp/workforce-ledger/api"
	"github.com/warp/workforce-ledger/seed"
	"github.com/warp/workforce-ledger/store/sqlite"
	"github.com/warp/workforce-ledger/workforce"
)

// config is the resolved server configuration.
type config struct {
	Port               int
	SeedFile           string
	DBPath             string
	Scenario           string
	SuggestionInterval time.Duration
	SuggestionSchedule string
	PayoutThreshold    decimal.Decimal
}

// parseConfig reads flags from args, taking defaults from getenv.
func parseConfig(args []string, getenv func(string) string) (config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	defaultPort := 8080
	if v := getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return config{}, fmt.Errorf("PORT: %w", err)
		}
		defaultPort = p
	}
	defaultInterval := api.DefaultSuggestionInterval
	if v := getenv("SUGGESTION_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return config{}, fmt.Errorf("SUGGESTION_INTERVAL: %w", err)
		}
		defaultInterval = d
	}

	port := fs.Int("port", defaultPort, "HTTP server port")
	seedFile := fs.String("seed", getenv("SEED_FILE"), "YAML seed file")
	dbPath := fs.String("db", getenv("SEED_DB"), "SQLite seed database path")
	scenario := fs.String("scenario", envOr(getenv, "SCENARIO", "nashik-site"), "demo scenario used when no seed data exists")
	interval := fs.Duration("suggestion-interval", defaultInterval, "how often to log urgent suggestions (0 disables)")
	schedule := fs.String("suggestion-schedule", getenv("SUGGESTION_SCHEDULE"), "cron expression replacing -suggestion-interval")
	threshold := fs.String("payout-threshold", envOr(getenv, "PAYOUT_THRESHOLD", workforce.DefaultPayoutThreshold.String()), "balance above which a payout is suggested")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	t, err := decimal.NewFromString(*threshold)
	if err != nil {
		return config{}, fmt.Errorf("payout threshold: %w", err)
	}
	if *interval < 0 {
		return config{}, errors.New("suggestion interval must not be negative")
	}

	return config{
		Port:               *port,
		SeedFile:           *seedFile,
		DBPath:             *dbPath,
		Scenario:           *scenario,
		SuggestionInterval: *interval,
		SuggestionSchedule: *schedule,
		PayoutThreshold:    t,
	}, nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

// initialPopulation resolves the boot population. It returns the scenario
// id when the population came from a scenario.
func initialPopulation(ctx context.Context, cfg config, store *sqlite.Store, today workforce.Date) (workforce.Population, string, error) {
	if cfg.SeedFile != "" {
		pop, err := seed.ReadFile(cfg.SeedFile)
		if err != nil {
			return workforce.Population{}, "", err
		}
		if store != nil {
			if err := store.Save(ctx, pop); err != nil {
				return workforce.Population{}, "", fmt.Errorf("import seed file: %w", err)
			}
			log.Printf("[Seed] Imported %s into %s", cfg.SeedFile, cfg.DBPath)
		}
		return pop, "", nil
	}

	if store != nil {
		pop, err := store.Load(ctx)
		if err != nil {
			return workforce.Population{}, "", err
		}
		if len(pop.Labourers) > 0 || len(pop.Contractors) > 0 || len(pop.WorkOrders) > 0 {
			return pop, "", nil
		}
	}

	if cfg.Scenario == "" {
		return workforce.Population{}, "", nil
	}
	pop, err := api.ScenarioPopulation(cfg.Scenario, today)
	if err != nil {
		return workforce.Population{}, "", err
	}
	return pop, cfg.Scenario, nil
}

func main() {
	_ = godotenv.Load()

	cfg, err := parseConfig(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize seed database
	var store *sqlite.Store
	if cfg.DBPath != "" {
		store, err = sqlite.New(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()
	}

	ctx := context.Background()
	pop, scenario, err := initialPopulation(ctx, cfg, store, workforce.DateOf(time.Now()))
	if err != nil {
		log.Fatalf("Failed to build initial population: %v", err)
	}

	ledger, err := workforce.NewLedger(pop, workforce.WithPayoutThreshold(cfg.PayoutThreshold))
	if err != nil {
		log.Fatalf("Failed to load ledger: %v", err)
	}
	log.Printf("[Ledger] Loaded %d labourers, %d contractors, %d work orders",
		len(pop.Labourers), len(pop.Contractors), len(pop.WorkOrders))

	// Initialize handler
	var handler *api.Handler
	if store != nil {
		handler = api.NewHandler(ledger, store)
	} else {
		handler = api.NewHandler(ledger, nil)
	}
	if scenario != "" {
		handler.SetCurrentScenario(scenario)
		log.Printf("[Ledger] Booted with scenario %s", scenario)
	}

	scheduler := api.NewSuggestionScheduler(ledger, cfg.SuggestionInterval)
	if cfg.SuggestionSchedule != "" {
		scheduler.WithSchedule(cfg.SuggestionSchedule)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start suggestion scheduler: %v", err)
	}

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", cfg.Port)
		log.Printf("📊 API available at http://localhost:%d/api", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
