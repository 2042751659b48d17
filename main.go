package main

import (
	"fmt"
	"os"
	"time"

	"squadtop/internal/bmapi"
	"squadtop/internal/bot"
	"squadtop/internal/config"
	"squadtop/internal/leaderboard"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {

	// Logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Msg(fmt.Sprintf("Could not load configuration: %v", err))
	}

	// Battlemetrics API
	bmApi := bmapi.NewBmApi(cfg.BmToken, cfg.Shards, cfg.HttpTimeout)

	// Refresh pipeline
	cache := leaderboard.NewCache()
	enricher := leaderboard.NewEnricher(&bmApi, cfg.Enricher)
	refresher := leaderboard.NewRefresher(&bmApi, enricher, cache, cfg.PageSize)

	// Bot
	squadtop := bot.CreateBot(cfg, cache, refresher)
	if err := squadtop.Run(); err != nil {
		log.Fatal().Msg(fmt.Sprintf("Bot stopped: %v", err))
	}
}
