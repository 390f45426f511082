package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/avelis/millebot/internal/bot"
	"github.com/avelis/millebot/internal/config"
	"github.com/avelis/millebot/internal/logger"
	"github.com/avelis/millebot/internal/repository"
	"github.com/avelis/millebot/internal/repository/postgres"
	millredis "github.com/avelis/millebot/internal/repository/redis"
)

func main() {
	logger.Init()

	var (
		strategies string
		numMatches int
		workers    int
		points     int
		seed       int64
		dbURL      string
		redisURL   string
		dryRun     bool
		jsonOut    bool
		debug      bool
	)

	flag.StringVar(&strategies, "strategies", "counting,counting", "Comma-separated strategy per seat (2-4 of random|greedy|counting)")
	flag.IntVar(&numMatches, "n", 1, "Number of matches to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel matches)")
	flag.IntVar(&points, "points", 0, "Points to win (0 = rules default)")
	flag.Int64Var(&seed, "seed", 0, "Base seed (0 = random)")
	flag.StringVar(&dbURL, "db", "", "Database URL (or use DATABASE_URL env)")
	flag.StringVar(&redisURL, "redis", "", "Redis URL (or use REDIS_URL env)")
	flag.BoolVar(&dryRun, "dry-run", false, "Skip database and leaderboard writes")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.BoolVar(&debug, "debug", false, "Log per-move valuations")

	flag.Parse()

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	seats := splitStrategies(strategies)
	if len(seats) < 2 || len(seats) > 4 {
		log.Fatal().Str("strategies", strategies).Msg("Need 2-4 comma-separated strategies")
	}

	cfg := config.Load()
	if dbURL == "" {
		dbURL = cfg.DatabaseURL
	}
	if redisURL == "" {
		redisURL = cfg.RedisURL
	}

	label := buildLabel(seats)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	// Connect to DB and Redis (unless dry-run)
	var matchRepo *postgres.MatchRepo
	var handRepo *postgres.HandRepo
	var board *millredis.Client

	if !dryRun {
		db, err := postgres.Connect(dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()
		matchRepo = postgres.NewMatchRepo(db)
		handRepo = postgres.NewHandRepo(db)

		board, err = millredis.NewClient(redisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, leaderboard disabled")
			board = nil
		} else {
			defer board.Close()
		}
	}

	// Run matches
	results := make([]*bot.ArenaResult, numMatches)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	errCount := 0

	for i := 0; i < numMatches; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			matchSeed := seed
			if seed != 0 {
				matchSeed = seed + int64(idx)
			}

			arenaCfg := bot.ArenaConfig{
				MatchName:   fmt.Sprintf("%s-%d", label, idx+1),
				Strategies:  seats,
				PointsToWin: points,
				Seed:        matchSeed,
				DryRun:      dryRun,
				Debug:       debug,
			}

			result, err := runOne(ctx, arenaCfg, matchRepo, handRepo, board)
			if err != nil {
				log.Error().Err(err).Int("match", idx+1).Msg("Match failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			results[idx] = result
			mu.Unlock()

			log.Info().
				Int("match", idx+1).
				Int("winnerTeam", result.WinnerTeam).
				Str("strategy", result.WinnerStrategy).
				Int("hands", result.HandsPlayed).
				Msg("Match completed")
		}(i)
	}

	wg.Wait()

	if jsonOut {
		printJSON(results, numMatches, errCount)
	} else {
		printSummary(results, seats, errCount, label, dryRun)
	}
}

// runOne wraps RunMatch so nil repo pointers stay nil interfaces.
func runOne(ctx context.Context, cfg bot.ArenaConfig, matchRepo *postgres.MatchRepo, handRepo *postgres.HandRepo, board *millredis.Client) (*bot.ArenaResult, error) {
	var mr repository.MatchRepository
	if matchRepo != nil {
		mr = matchRepo
	}
	var hr repository.HandRepository
	if handRepo != nil {
		hr = handRepo
	}
	var lb repository.Leaderboard
	if board != nil {
		lb = board
	}
	return bot.RunMatch(ctx, cfg, mr, hr, lb)
}

func splitStrategies(s string) []string {
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

func buildLabel(seats []string) string {
	counts := make(map[string]int)
	for _, s := range seats {
		counts[s]++
	}
	if len(counts) == 1 {
		return fmt.Sprintf("botmatch: all-%s", seats[0])
	}
	var parts []string
	for s, c := range counts {
		name := s
		if c > 1 {
			name = fmt.Sprintf("%d %s", c, s)
		}
		parts = append(parts, name)
	}
	sort.Strings(parts)
	return strings.Join(parts, " vs ")
}

func printSummary(results []*bot.ArenaResult, seats []string, errCount int, label string, dryRun bool) {
	type stats struct {
		wins  int
		games int
	}

	byStrategy := make(map[string]*stats)
	for _, s := range seats {
		if byStrategy[s] == nil {
			byStrategy[s] = &stats{}
		}
	}

	completed := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		completed++
		for s := range byStrategy {
			byStrategy[s].games++
		}
		if st := byStrategy[r.WinnerStrategy]; st != nil {
			st.wins++
		}
	}

	fmt.Printf("\nResults (%d matches):\n", completed)
	if errCount > 0 {
		fmt.Printf("  (%d matches failed)\n", errCount)
	}

	names := make([]string, 0, len(byStrategy))
	for s := range byStrategy {
		names = append(names, s)
	}
	sort.Strings(names)
	for _, s := range names {
		st := byStrategy[s]
		rate := 0.0
		if st.games > 0 {
			rate = float64(st.wins) / float64(st.games) * 100
		}
		fmt.Printf("  %-10s  %d wins / %d matches  (%.1f%%)\n", s, st.wins, st.games, rate)
	}

	if !dryRun && completed > 0 {
		fmt.Printf("\nMatches saved to database under \"%s #1\" through \"#%d\"\n", label, completed)
	}
}

func printJSON(results []*bot.ArenaResult, total, errCount int) {
	out := struct {
		Total   int                `json:"total"`
		Errors  int                `json:"errors"`
		Results []*bot.ArenaResult `json:"results"`
	}{
		Total:   total,
		Errors:  errCount,
		Results: results,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
