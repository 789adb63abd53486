package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bestball-lab/internal/catalog"
	"bestball-lab/internal/domain"
	"bestball-lab/internal/draftorder"
	"bestball-lab/internal/learning"
	"bestball-lab/internal/observability"
	"bestball-lab/internal/pool"
	"bestball-lab/internal/reporting"
	"bestball-lab/internal/simulation"
	chstore "bestball-lab/internal/storage/clickhouse"
	"bestball-lab/internal/storage/migrations"
	pgstore "bestball-lab/internal/storage/postgres"
)

func main() {
	// Draft setup
	poolPath := flag.String("pool", "", "Player pool file, .csv or .json (required)")
	teams := flag.Int("teams", 12, "Number of teams")
	rounds := flag.Int("rounds", 7, "Number of rounds")
	snake := flag.Bool("snake", true, "Snake draft order")
	picks := flag.String("picks", "", "Comma-separated player IDs already drafted, in overall order")

	// Simulation parameters
	trials := flag.Int("trials", 800, "Trials to run")
	variance := flag.Bool("variance", false, "Sample lineup scores from N(mean, sd)")
	qbWeight := flag.Float64("qb-weight", 0.85, "QB scoring discount (0.5-1)")
	maxRoster := flag.Int("max-roster", 7, "Picks per team that count toward scoring")
	seed := flag.String("seed", "", "RNG seed (empty = time-based)")

	// Learning
	recordTeam := flag.Int("record-team", 0, "Team slot (1-based) whose outcome feeds rating updates; 0 disables")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string for rating persistence")

	// Telemetry
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for trial telemetry")
	runID := flag.String("run-id", "", "Run identifier for telemetry (default: generated)")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")
	markdownOut := flag.String("markdown-out", "", "Write a Markdown report to this path")
	csvOut := flag.String("csv-out", "", "Write a CSV report to this path")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[standings] ", log.LstdFlags)

	if *poolPath == "" {
		logger.Fatal("--pool is required")
	}
	if *recordTeam < 0 || *recordTeam > *teams {
		logger.Fatalf("--record-team must be between 1 and %d (0 disables)", *teams)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Load pool
	raws, loadStats, err := pool.LoadFile(*poolPath)
	if err != nil {
		logger.Fatalf("load pool: %v", err)
	}
	cat, buildStats := catalog.New(raws)
	logger.Printf("Pool loaded: %d accepted, %d malformed, %d filtered",
		buildStats.Accepted, loadStats.SkippedMalformed,
		buildStats.SkippedEmptyName+buildStats.SkippedPosition+buildStats.SkippedDuplicate)

	// Build board
	board, err := buildBoard(cat, *teams, *rounds, *snake, *picks)
	if err != nil {
		logger.Fatalf("build board: %v", err)
	}

	cfg := domain.SimulationConfig{
		NumTrials:           *trials,
		UseVarianceSampling: *variance,
		QBScoreWeight:       *qbWeight,
		ADPGateWindow:       domain.DefaultSimulationConfig().ADPGateWindow,
		MinRoundForSecondQB: domain.DefaultSimulationConfig().MinRoundForSecondQB,
		ShortlistSize:       domain.DefaultSimulationConfig().ShortlistSize,
		MaxRosterSize:       *maxRoster,
		Seed:                *seed,
	}

	agg := simulation.NewAggregator(cat.Players(), cfg)
	for _, note := range agg.ConfigNotes() {
		logger.Printf("Config adjusted: %s", note)
	}

	// Attach trial telemetry
	id := *runID
	if id == "" {
		id = fmt.Sprintf("standings-%d", time.Now().UnixMilli())
	}
	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()

		agg.WithTelemetry(chstore.NewTrialStore(conn), id)
		logger.Printf("Trial telemetry enabled, run_id=%s", id)
	}

	// Project standings
	start := time.Now()
	standings, err := agg.ProjectFinalStandings(ctx, board)
	if err != nil {
		logger.Fatalf("project standings: %v", err)
	}
	elapsed := time.Since(start)

	effective := agg.Config()
	observability.RecordTrials(domain.ModeStandings, effective.NumTrials)
	observability.DefaultMetrics.SimulationDuration.
		WithLabelValues(domain.ModeStandings).Observe(elapsed.Seconds())
	logger.Printf("Projected %d teams x %d trials in %v", board.Teams, effective.NumTrials, elapsed)

	// Record the outcome into the learning tracker
	if *recordTeam > 0 {
		if err := recordOutcome(ctx, logger, agg, board, standings, *recordTeam-1, *postgresDSN); err != nil {
			logger.Fatalf("record outcome: %v", err)
		}
	}

	report := reporting.NewStandingsReport(id, effective, agg.ConfigNotes(), cat.Len(), standings)
	writeReports(logger, report, *markdownOut, *csvOut)

	// Output result
	if *outputJSON {
		output, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(output))
	} else {
		printStandings(standings)
	}
}

// recordOutcome feeds the projected result for one team into the rating
// tracker, persisting to Postgres when a DSN is configured.
func recordOutcome(ctx context.Context, logger *log.Logger, agg *simulation.Aggregator, board *domain.Board, standings []domain.TeamStanding, teamIndex int, postgresDSN string) error {
	tracker := learning.NewTracker()

	if postgresDSN != "" {
		dbpool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer dbpool.Close()

		if err := migrations.RunPostgresMigrations(ctx, dbpool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		tracker.WithStores(pgstore.NewRatingStore(dbpool), pgstore.NewOutcomeStore(dbpool))
		if err := tracker.Load(ctx); err != nil {
			return err
		}
	}

	roster := agg.RosterFor(board, teamIndex)
	if err := tracker.Record(ctx, standings, teamIndex, roster); err != nil {
		return err
	}

	observability.RecordRatingsUpdated(len(roster))
	logger.Printf("Recorded outcome for team %d: %d rating updates", teamIndex+1, len(roster))
	return nil
}

// buildBoard constructs the board and applies pre-existing picks to the
// leading slots in overall order.
func buildBoard(cat *catalog.Catalog, teams, rounds int, snake bool, picks string) (*domain.Board, error) {
	board := draftorder.BuildBoard(teams, rounds, snake)

	if strings.TrimSpace(picks) == "" {
		return board, nil
	}

	ids := strings.Split(picks, ",")
	if len(ids) > len(board.Slots) {
		return nil, fmt.Errorf("%d picks exceed %d board slots", len(ids), len(board.Slots))
	}
	for i, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, err := cat.Lookup(id); err != nil {
			return nil, fmt.Errorf("pick %d: %w", i+1, err)
		}
		board.Slots[i].PlayerID = id
	}
	return board, nil
}

// writeReports renders the requested report files.
func writeReports(logger *log.Logger, report *reporting.Report, markdownOut, csvOut string) {
	if markdownOut != "" {
		if err := os.WriteFile(markdownOut, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
			logger.Fatalf("write markdown report: %v", err)
		}
		logger.Printf("Markdown report written to %s", markdownOut)
	}
	if csvOut != "" {
		if err := os.WriteFile(csvOut, []byte(reporting.RenderStandingsCSV(report.Standings)), 0o644); err != nil {
			logger.Fatalf("write csv report: %v", err)
		}
		logger.Printf("CSV report written to %s", csvOut)
	}
}

// printStandings outputs a human-readable standings table.
func printStandings(standings []domain.TeamStanding) {
	fmt.Println()
	fmt.Println("=== Projected Standings ===")
	fmt.Printf("%-6s %-6s %8s %10s\n", "Rank", "Team", "Win%", "Avg Score")
	for i, s := range standings {
		fmt.Printf("%-6d %-6d %8.2f %10.2f\n", i+1, s.TeamIndex+1, s.WinPct, s.AvgScore)
	}
}
