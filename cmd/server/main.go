package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"bestball-lab/internal/catalog"
	"bestball-lab/internal/domain"
	"bestball-lab/internal/draftorder"
	"bestball-lab/internal/learning"
	"bestball-lab/internal/liveboard"
	"bestball-lab/internal/observability"
	"bestball-lab/internal/pool"
	"bestball-lab/internal/scoring"
	"bestball-lab/internal/simulation"
	chstore "bestball-lab/internal/storage/clickhouse"
	"bestball-lab/internal/storage/memory"
	"bestball-lab/internal/storage/migrations"
	pgstore "bestball-lab/internal/storage/postgres"
)

// Server holds the shared state of the HTTP service.
type Server struct {
	catalog  *catalog.Catalog
	tracker  *learning.Tracker
	defaults domain.SimulationConfig
	trials   simulation.TrialSink
	logger   *log.Logger
	started  time.Time

	// Live draft board, maintained by the feed consumer.
	boardMu   sync.RWMutex
	liveBoard *domain.Board
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", ":8080", "HTTP listen address")
	poolPath := flag.String("pool", os.Getenv("POOL_FILE"), "Player pool file, .csv or .json (required)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for trial telemetry")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	feedEndpoint := flag.String("feed-endpoint", os.Getenv("DRAFT_FEED_ENDPOINT"), "WebSocket draft feed endpoint (optional)")
	teams := flag.Int("teams", 12, "Live board teams")
	rounds := flag.Int("rounds", 7, "Live board rounds")
	snake := flag.Bool("snake", true, "Live board snake order")
	trials := flag.Int("trials", 800, "Default trials per simulation run")
	seed := flag.String("seed", "", "Default RNG seed (empty = time-based)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if *poolPath == "" {
		logger.Fatal("--pool is required")
	}
	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory ratings)")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load pool
	raws, loadStats, err := pool.LoadFile(*poolPath)
	if err != nil {
		logger.Fatalf("load pool: %v", err)
	}
	cat, buildStats := catalog.New(raws)
	logger.Printf("Pool loaded: %d accepted, %d malformed, %d filtered",
		buildStats.Accepted, loadStats.SkippedMalformed,
		buildStats.SkippedEmptyName+buildStats.SkippedPosition+buildStats.SkippedDuplicate)

	// Learning tracker with persistence
	tracker := learning.NewTracker()
	if *useMemory {
		tracker.WithStores(memory.NewRatingStore(), memory.NewOutcomeStore())
	} else {
		dbpool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer dbpool.Close()

		if err := migrations.RunPostgresMigrations(ctx, dbpool); err != nil {
			logger.Fatalf("run postgres migrations: %v", err)
		}
		tracker.WithStores(pgstore.NewRatingStore(dbpool), pgstore.NewOutcomeStore(dbpool))
	}
	if err := tracker.Load(ctx); err != nil {
		logger.Fatalf("load ratings: %v", err)
	}
	logger.Printf("Ratings loaded: %d players tracked", len(tracker.Ratings()))

	// Trial telemetry
	var trialSink simulation.TrialSink
	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()
		trialSink = chstore.NewTrialStore(conn)
		logger.Println("Trial telemetry enabled")
	}

	defaults := domain.DefaultSimulationConfig()
	defaults.NumTrials = *trials
	defaults.Seed = *seed

	server := &Server{
		catalog:  cat,
		tracker:  tracker,
		defaults: defaults,
		trials:   trialSink,
		logger:   logger,
		started:  time.Now(),
	}

	// Live draft feed
	if *feedEndpoint != "" {
		server.liveBoard = draftorder.BuildBoard(*teams, *rounds, *snake)
		feed, err := liveboard.NewFeed(ctx, *feedEndpoint, nil)
		if err != nil {
			logger.Fatalf("connect to draft feed: %v", err)
		}
		defer feed.Close()

		go server.consumeFeed(feed)
		logger.Printf("Live board feed connected: %s", *feedEndpoint)
	}

	// HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/recommend", server.handleRecommend)
	mux.HandleFunc("/evaluate", server.handleEvaluate)
	mux.HandleFunc("/standings", server.handleStandings)
	mux.HandleFunc("/board", server.handleBoard)

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: mux,
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
	}()

	logger.Printf("Starting HTTP server on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// consumeFeed applies pick events from the draft feed to the live board.
func (s *Server) consumeFeed(feed *liveboard.Feed) {
	for event := range feed.Events() {
		s.boardMu.Lock()
		err := liveboard.Apply(s.liveBoard, event)
		s.boardMu.Unlock()
		if err != nil {
			s.logger.Printf("Pick event rejected: %v", err)
			continue
		}
		s.logger.Printf("Pick %d: team %d took %s", event.Overall, event.TeamSlot, event.PlayerID)
	}
}

// liveBoardSnapshot returns a private copy of the live board, or nil
// when no feed is configured.
func (s *Server) liveBoardSnapshot() *domain.Board {
	s.boardMu.RLock()
	defer s.boardMu.RUnlock()
	if s.liveBoard == nil {
		return nil
	}
	return s.liveBoard.Clone()
}

// RecommendRequest is the JSON body of POST /recommend.
type RecommendRequest struct {
	PickNumber  int            `json:"pickNumber"`
	Roster      map[string]int `json:"roster"` // position -> count
	TakenIDs    []string       `json:"takenIds"`
	Exposures   map[string]int `json:"exposures"`
	TotalDrafts int            `json:"totalDrafts"`
	Limit       int            `json:"limit"` // 0 = all
}

// RecommendationRow is one entry of the /recommend response.
type RecommendationRow struct {
	PlayerID string  `json:"playerId"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	ADP      float64 `json:"adp"`
	Score    float64 `json:"score"`
}

// handleRecommend ranks the pool for the next pick.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}
	if req.PickNumber < 1 {
		http.Error(w, "pickNumber must be >= 1", http.StatusBadRequest)
		return
	}

	roster := make(map[domain.Position]int, len(req.Roster))
	for pos, count := range req.Roster {
		canonical, err := catalog.CanonicalPosition(pos)
		if err != nil {
			http.Error(w, fmt.Sprintf("roster position %q: %v", pos, err), http.StatusBadRequest)
			return
		}
		roster[canonical] += count
	}

	taken := make(map[string]struct{}, len(req.TakenIDs))
	for _, id := range req.TakenIDs {
		taken[id] = struct{}{}
	}

	state := &domain.DraftState{
		PickNumber: req.PickNumber,
		Roster:     roster,
		TakenIDs:   taken,
	}
	draftCtx := &domain.DraftContext{
		Exposures:   req.Exposures,
		TotalDrafts: req.TotalDrafts,
	}

	recs := scoring.RecommendPicks(s.catalog.Players(), state, draftCtx, domain.DefaultScoringOptions(), s.tracker)
	observability.RecordRecommendation()

	if req.Limit > 0 && len(recs) > req.Limit {
		recs = recs[:req.Limit]
	}

	rows := make([]RecommendationRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, RecommendationRow{
			PlayerID: rec.Player.ID,
			Name:     rec.Player.Name,
			Position: string(rec.Player.Position),
			ADP:      rec.Player.ADP,
			Score:    rec.Score,
		})
	}
	writeJSON(w, rows)
}

// BoardRequest describes the board for simulation endpoints. With
// UseLiveBoard set the feed-maintained board is used instead.
type BoardRequest struct {
	Teams        int      `json:"teams"`
	Rounds       int      `json:"rounds"`
	Snake        *bool    `json:"snake"` // default true
	Picks        []string `json:"picks"` // player IDs in overall order
	UseLiveBoard bool     `json:"useLiveBoard"`
}

// SimRequest is the JSON body of POST /evaluate and POST /standings.
type SimRequest struct {
	Board      BoardRequest `json:"board"`
	Trials     int          `json:"trials"`
	Seed       string       `json:"seed"`
	RecordTeam int          `json:"recordTeam"` // standings only, 1-based, 0 disables
}

// resolveBoard builds the simulation board from a request.
func (s *Server) resolveBoard(req BoardRequest) (*domain.Board, error) {
	if req.UseLiveBoard {
		board := s.liveBoardSnapshot()
		if board == nil {
			return nil, errors.New("no live board: server started without --feed-endpoint")
		}
		return board, nil
	}

	if req.Teams < 2 || req.Rounds < 1 {
		return nil, errors.New("board requires teams >= 2 and rounds >= 1")
	}
	snake := true
	if req.Snake != nil {
		snake = *req.Snake
	}

	board := draftorder.BuildBoard(req.Teams, req.Rounds, snake)
	if len(req.Picks) > len(board.Slots) {
		return nil, fmt.Errorf("%d picks exceed %d board slots", len(req.Picks), len(board.Slots))
	}
	for i, id := range req.Picks {
		if id == "" {
			continue
		}
		if _, err := s.catalog.Lookup(id); err != nil {
			return nil, fmt.Errorf("pick %d: %w", i+1, err)
		}
		board.Slots[i].PlayerID = id
	}
	return board, nil
}

// aggregatorFor builds a run-scoped aggregator from request overrides.
func (s *Server) aggregatorFor(req SimRequest, runID string) *simulation.Aggregator {
	cfg := s.defaults
	if req.Trials > 0 {
		cfg.NumTrials = req.Trials
	}
	if req.Seed != "" {
		cfg.Seed = req.Seed
	}

	agg := simulation.NewAggregator(s.catalog.Players(), cfg)
	if s.trials != nil {
		agg.WithTelemetry(s.trials, runID)
	}
	return agg
}

// EvaluateResponse is the JSON body returned by POST /evaluate.
type EvaluateResponse struct {
	RunID       string               `json:"runId"`
	Trials      int                  `json:"trials"`
	ConfigNotes []string             `json:"configNotes,omitempty"`
	Results     []CandidateResultRow `json:"results"`
}

// CandidateResultRow is one entry of the /evaluate response.
type CandidateResultRow struct {
	PlayerID string  `json:"playerId"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	WinPct   float64 `json:"winPct"`
	AvgScore float64 `json:"avgScore"`
}

// handleEvaluate runs candidate-mode simulation for the first open pick.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}

	board, err := s.resolveBoard(req.Board)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	runID := fmt.Sprintf("eval-%d", time.Now().UnixMilli())
	agg := s.aggregatorFor(req, runID)

	start := time.Now()
	results, err := agg.EvaluateCandidates(r.Context(), board)
	if err != nil {
		switch {
		case errors.Is(err, simulation.ErrNoOpenPick):
			http.Error(w, "board is already full", http.StatusUnprocessableEntity)
		case errors.Is(err, simulation.ErrEmptyCandidateSet):
			observability.DefaultMetrics.EmptyShortlists.Inc()
			http.Error(w, "no eligible candidates for the open pick", http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	effective := agg.Config()
	observability.RecordTrials(domain.ModeCandidate, effective.NumTrials*len(results))
	observability.DefaultMetrics.CandidatesEvaluated.Add(float64(len(results)))
	observability.DefaultMetrics.SimulationDuration.
		WithLabelValues(domain.ModeCandidate).Observe(time.Since(start).Seconds())

	rows := make([]CandidateResultRow, 0, len(results))
	for _, res := range results {
		rows = append(rows, CandidateResultRow{
			PlayerID: res.Player.ID,
			Name:     res.Player.Name,
			Position: string(res.Player.Position),
			WinPct:   res.WinPct,
			AvgScore: res.AvgScore,
		})
	}
	writeJSON(w, EvaluateResponse{
		RunID:       runID,
		Trials:      effective.NumTrials,
		ConfigNotes: agg.ConfigNotes(),
		Results:     rows,
	})
}

// StandingsResponse is the JSON body returned by POST /standings.
type StandingsResponse struct {
	RunID       string                `json:"runId"`
	Trials      int                   `json:"trials"`
	ConfigNotes []string              `json:"configNotes,omitempty"`
	Recorded    bool                  `json:"recorded"`
	Standings   []domain.TeamStanding `json:"standings"`
}

// handleStandings projects final standings, optionally recording one
// team's outcome into the rating tracker.
func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}

	board, err := s.resolveBoard(req.Board)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.RecordTeam < 0 || req.RecordTeam > board.Teams {
		http.Error(w, fmt.Sprintf("recordTeam must be between 1 and %d (0 disables)", board.Teams), http.StatusBadRequest)
		return
	}

	runID := fmt.Sprintf("standings-%d", time.Now().UnixMilli())
	agg := s.aggregatorFor(req, runID)

	start := time.Now()
	standings, err := agg.ProjectFinalStandings(r.Context(), board)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	effective := agg.Config()
	observability.RecordTrials(domain.ModeStandings, effective.NumTrials)
	observability.DefaultMetrics.SimulationDuration.
		WithLabelValues(domain.ModeStandings).Observe(time.Since(start).Seconds())

	recorded := false
	if req.RecordTeam > 0 {
		teamIndex := req.RecordTeam - 1
		roster := agg.RosterFor(board, teamIndex)
		if err := s.tracker.Record(r.Context(), standings, teamIndex, roster); err != nil {
			http.Error(w, fmt.Sprintf("record outcome: %v", err), http.StatusInternalServerError)
			return
		}
		observability.RecordRatingsUpdated(len(roster))
		recorded = true
	}

	writeJSON(w, StandingsResponse{
		RunID:       runID,
		Trials:      effective.NumTrials,
		ConfigNotes: agg.ConfigNotes(),
		Recorded:    recorded,
		Standings:   standings,
	})
}

// handleBoard returns the live board state.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	board := s.liveBoardSnapshot()
	if board == nil {
		http.Error(w, "no live board: server started without --feed-endpoint", http.StatusNotFound)
		return
	}
	writeJSON(w, board)
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
