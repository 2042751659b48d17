package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"squadtop/internal/bmapi"
	"squadtop/internal/leaderboard"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	BotToken string
	BmToken  string
	Shards   []bmapi.ShardId

	PageSize    int
	HttpTimeout time.Duration

	RefreshInterval time.Duration
	MaxDataAge      time.Duration

	AutoUpdateChannelId string
	AutoUpdateInterval  time.Duration

	PrivilegedUsers []string

	Enricher leaderboard.EnricherConfig
}

// Load reads a .env file if there is one and falls back to the
// environment for everything else. Only the discord token is mandatory:
// a missing battlemetrics token is a runtime degradation, not a startup
// failure, because the fetcher refuses to fetch without it
func Load() (Config, error) {

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using environment variables")
	}

	cfg := Config{
		BotToken: os.Getenv("TOKEN_BOT"),
		BmToken:  os.Getenv("TOKEN_BM"),
		Shards: []bmapi.ShardId{
			bmapi.ShardId(getEnv("SERVER_ID_SQ_1", "30985204")),
			bmapi.ShardId(getEnv("SERVER_ID_SQ_2", "31020814")),
		},
		PageSize:            getEnvInt("PAGE_SIZE", 100),
		HttpTimeout:         getEnvSeconds("HTTP_TIMEOUT", 30),
		RefreshInterval:     getEnvSeconds("DATA_UPDATE_INTERVAL", 600),
		MaxDataAge:          getEnvSeconds("MAX_DATA_AGE", 15*60),
		AutoUpdateChannelId: os.Getenv("AUTO_UPDATE_CHANNEL_ID"),
		AutoUpdateInterval:  getEnvSeconds("AUTO_UPDATE_INTERVAL", 600),
		PrivilegedUsers:     splitIds(os.Getenv("ALLOWED_USER_IDS")),
		Enricher: leaderboard.EnricherConfig{
			Concurrency: getEnvInt("STEAM_ID_CONCURRENCY", leaderboard.DEFAULT_CONCURRENCY),
			BatchSize:   getEnvInt("STEAM_ID_BATCH_SIZE", leaderboard.DEFAULT_BATCH_SIZE),
			LookupDelay: getEnvMilliseconds("STEAM_ID_LOOKUP_DELAY", 500),
			BatchDelay:  getEnvSeconds("STEAM_ID_BATCH_DELAY", 3),
			Attempts:    getEnvInt("STEAM_ID_ATTEMPTS", leaderboard.DEFAULT_ATTEMPTS),
		},
	}

	if cfg.BotToken == "" {
		return Config{}, fmt.Errorf("TOKEN_BOT is required")
	}
	if cfg.BmToken == "" {
		log.Warn().Msg("TOKEN_BM is empty, leaderboard fetches will return nothing")
	}

	log.Info().
		Int("shards", len(cfg.Shards)).
		Dur("refresh_interval", cfg.RefreshInterval).
		Dur("max_data_age", cfg.MaxDataAge).
		Int("privileged_users", len(cfg.PrivilegedUsers)).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	number, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Value %q of %s is not a number, using %d", v, key, fallback))
		return fallback
	}
	return number
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}

func getEnvMilliseconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Millisecond
}

func splitIds(value string) []string {
	var ids []string
	for _, id := range strings.Split(value, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
