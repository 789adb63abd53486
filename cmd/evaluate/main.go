package main

import (
	"context"
	"encoding/json"
	"errors"
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
	"bestball-lab/internal/observability"
	"bestball-lab/internal/pool"
	"bestball-lab/internal/reporting"
	"bestball-lab/internal/simulation"
	chstore "bestball-lab/internal/storage/clickhouse"
	"bestball-lab/internal/storage/migrations"
)

func main() {
	// Draft setup
	poolPath := flag.String("pool", "", "Player pool file, .csv or .json (required)")
	teams := flag.Int("teams", 12, "Number of teams")
	rounds := flag.Int("rounds", 7, "Number of rounds")
	snake := flag.Bool("snake", true, "Snake draft order")
	picks := flag.String("picks", "", "Comma-separated player IDs already drafted, in overall order")

	// Simulation parameters
	trials := flag.Int("trials", 800, "Trials per candidate")
	variance := flag.Bool("variance", false, "Sample lineup scores from N(mean, sd)")
	qbWeight := flag.Float64("qb-weight", 0.85, "QB scoring discount (0.5-1)")
	adpGate := flag.Float64("adp-gate", 16, "ADP gate window")
	minRoundSecondQB := flag.Int("min-round-second-qb", 6, "Earliest round opponents draft a second QB")
	shortlist := flag.Int("shortlist", 8, "Candidates to evaluate")
	maxRoster := flag.Int("max-roster", 7, "Picks per team that count toward scoring")
	seed := flag.String("seed", "", "RNG seed (empty = time-based)")

	// Telemetry
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for trial telemetry")
	runID := flag.String("run-id", "", "Run identifier for telemetry (default: generated)")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")
	markdownOut := flag.String("markdown-out", "", "Write a Markdown report to this path")
	csvOut := flag.String("csv-out", "", "Write a CSV report to this path")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[evaluate] ", log.LstdFlags)

	if *poolPath == "" {
		logger.Fatal("--pool is required")
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
	logger.Printf("Pool loaded: %d accepted, %d malformed rows, %d skipped (name=%d position=%d duplicate=%d)",
		buildStats.Accepted, loadStats.SkippedMalformed,
		buildStats.SkippedEmptyName+buildStats.SkippedPosition+buildStats.SkippedDuplicate,
		buildStats.SkippedEmptyName, buildStats.SkippedPosition, buildStats.SkippedDuplicate)

	// Build board
	board, err := buildBoard(cat, *teams, *rounds, *snake, *picks)
	if err != nil {
		logger.Fatalf("build board: %v", err)
	}

	cfg := domain.SimulationConfig{
		NumTrials:           *trials,
		UseVarianceSampling: *variance,
		QBScoreWeight:       *qbWeight,
		ADPGateWindow:       *adpGate,
		MinRoundForSecondQB: *minRoundSecondQB,
		ShortlistSize:       *shortlist,
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
		id = fmt.Sprintf("eval-%d", time.Now().UnixMilli())
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

	// Evaluate
	start := time.Now()
	results, err := agg.EvaluateCandidates(ctx, board)
	if err != nil {
		switch {
		case errors.Is(err, simulation.ErrNoOpenPick):
			logger.Fatal("Board is already full, nothing to evaluate")
		case errors.Is(err, simulation.ErrEmptyCandidateSet):
			logger.Fatal("No eligible candidates; widen --adp-gate or check the pool")
		default:
			logger.Fatalf("evaluate failed: %v", err)
		}
	}
	elapsed := time.Since(start)

	effective := agg.Config()
	observability.RecordTrials(domain.ModeCandidate, effective.NumTrials*len(results))
	observability.DefaultMetrics.SimulationDuration.
		WithLabelValues(domain.ModeCandidate).Observe(elapsed.Seconds())
	logger.Printf("Evaluated %d candidates x %d trials in %v", len(results), effective.NumTrials, elapsed)

	report := reporting.NewCandidateReport(id, effective, agg.ConfigNotes(), cat.Len(), results)
	writeReports(logger, report, *markdownOut, *csvOut)

	// Output result
	if *outputJSON {
		output, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(output))
	} else {
		printResults(results)
	}
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
		if err := os.WriteFile(csvOut, []byte(reporting.RenderCandidatesCSV(report.Candidates)), 0o644); err != nil {
			logger.Fatalf("write csv report: %v", err)
		}
		logger.Printf("CSV report written to %s", csvOut)
	}
}

// printResults outputs a human-readable candidate ranking.
func printResults(results []domain.CandidateResult) {
	fmt.Println()
	fmt.Println("=== Candidate Rankings ===")
	fmt.Printf("%-4s %-24s %-4s %8s %8s %10s\n", "#", "Player", "Pos", "ADP", "Win%", "Avg Score")
	for i, r := range results {
		fmt.Printf("%-4d %-24s %-4s %8.1f %8.2f %10.2f\n",
			i+1, r.Player.Name, r.Player.Position, r.Player.ADP, r.WinPct, r.AvgScore)
	}
}
