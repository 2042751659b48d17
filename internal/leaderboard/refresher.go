package leaderboard

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"squadtop/internal/bmapi"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// How many players a ranked leaderboard keeps per period
const TOP_SIZE = 100

// Provides the raw leaderboard rows this package ranks and caches
type Source interface {
	Leaderboard(ctx context.Context, period bmapi.Period, pageSize int) []bmapi.Player
}

// Drives the fetch, merge, enrich, cache cycle.
// At most one cycle runs at a time: triggers that land while a cycle
// is going are dropped by the in progress guard
type Refresher struct {
	source     Source
	enricher   Enricher
	cache      *Cache
	pageSize   int
	refreshing atomic.Bool
}

func NewRefresher(source Source, enricher Enricher, cache *Cache, pageSize int) *Refresher {
	return &Refresher{source: source, enricher: enricher, cache: cache, pageSize: pageSize}
}

func (refresher *Refresher) Refreshing() bool {
	return refresher.refreshing.Load()
}

// Run one refresh cycle now, unless one is already going.
// Returns false when the cycle was skipped because of that
func (refresher *Refresher) Refresh(ctx context.Context) bool {

	if !refresher.refreshing.CompareAndSwap(false, true) {
		log.Warn().Msg("Refresh already in progress, skipping")
		return false
	}
	defer refresher.refreshing.Store(false)

	logger := log.With().Str("cycle", uuid.NewString()).Logger()
	logger.Info().Msg("Starting refresh cycle")

	if err := refresher.refresh(ctx, logger); err != nil {
		logger.Error().Msg(fmt.Sprintf("Refresh cycle failed: %v", err))
		return true
	}

	refresher.cache.StampRefresh(time.Now().UTC())
	logger.Info().Msg("Refresh cycle completed")
	return true
}

// The body of a cycle. Catches panics so a broken cycle can never take
// the scheduler down or leave the in progress flag set
func (refresher *Refresher) refresh(ctx context.Context, logger zerolog.Logger) (err error) {

	defer func() {
		if cause := recover(); cause != nil {
			err = fmt.Errorf("refresh cycle panicked: %v", cause)
		}
	}()

	now := time.Now().UTC()

	// The two periods are fetched independently on purpose: a failed or
	// empty current month fetch must not blank out known previous month
	// data, and the other way around
	if players := refresher.fetchPeriod(ctx, bmapi.CurrentPeriod(now)); len(players) > 0 {
		refresher.cache.SetCurrent(players)
		logger.Info().Msg(fmt.Sprintf("Updated current month data: %d players", len(players)))
	}
	if players := refresher.fetchPeriod(ctx, bmapi.PreviousPeriod(now)); len(players) > 0 {
		refresher.cache.SetPrevious(players)
		logger.Info().Msg(fmt.Sprintf("Updated previous month data: %d players", len(players)))
	}
	return nil
}

func (refresher *Refresher) fetchPeriod(ctx context.Context, period bmapi.Period) []bmapi.Player {

	rows := refresher.source.Leaderboard(ctx, period, refresher.pageSize)
	players := MergeRank(rows, TOP_SIZE)
	refresher.enricher.Enrich(ctx, players)
	return players
}

// Refresh immediately and then on every tick until the context is cancelled.
// Ticks that land during a running cycle are dropped by the guard, so a
// slow cycle delays the next one instead of overlapping with it
func (refresher *Refresher) Run(ctx context.Context, interval time.Duration) {

	refresher.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresher.Refresh(ctx)
		}
	}
}
