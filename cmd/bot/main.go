package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/avelis/millebot/internal/bot"
	"github.com/avelis/millebot/internal/config"
	"github.com/avelis/millebot/internal/logger"
)

func main() {
	url := flag.String("url", "", "server base URL (or use SERVER_URL env)")
	strategy := flag.String("strategy", "counting", "bot strategy (random, greedy, counting)")
	tableID := flag.String("table", "", "table to join (empty = create a new one)")
	seats := flag.Int("seats", 2, "seats when creating a table (2-4)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger.Init()
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	baseURL := *url
	if baseURL == "" {
		baseURL = config.Load().ServerURL
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Received shutdown signal")
		cancel()
	}()

	player := bot.ForDifficulty(*strategy)
	orch := bot.NewOrchestrator(baseURL, player, *tableID, *seats)
	if err := orch.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Bot orchestrator failed")
	}
	log.Info().Msg("Bot match completed")
}
