package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"squadtop/internal/bmapi"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/semaphore"
)

// Resolves a single player id to its steam id
type IdentifierSource interface {
	SteamId(ctx context.Context, id bmapi.PlayerId) (bmapi.SteamId, error)
}

// Tunables for the identifier lookups.
// Non positive values fall back to the defaults below
type EnricherConfig struct {
	Concurrency int
	BatchSize   int
	LookupDelay time.Duration
	BatchDelay  time.Duration
	Attempts    int
}

const (
	DEFAULT_CONCURRENCY  = 5
	DEFAULT_BATCH_SIZE   = 20
	DEFAULT_LOOKUP_DELAY = 500 * time.Millisecond
	DEFAULT_BATCH_DELAY  = 3 * time.Second
	DEFAULT_ATTEMPTS     = 3
)

type Enricher struct {
	source IdentifierSource
	config EnricherConfig
}

func NewEnricher(source IdentifierSource, config EnricherConfig) Enricher {

	if config.Concurrency <= 0 {
		config.Concurrency = DEFAULT_CONCURRENCY
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DEFAULT_BATCH_SIZE
	}
	if config.LookupDelay <= 0 {
		config.LookupDelay = DEFAULT_LOOKUP_DELAY
	}
	if config.BatchDelay <= 0 {
		config.BatchDelay = DEFAULT_BATCH_DELAY
	}
	if config.Attempts <= 0 {
		config.Attempts = DEFAULT_ATTEMPTS
	}
	return Enricher{source, config}
}

// Fill in the steam id of every player that is missing one.
// Strictly best effort: a lookup that keeps failing leaves the id at zero.
// Lookups run through a counting gate and in paced batches so we do not
// hammer the remote API
func (enricher *Enricher) Enrich(ctx context.Context, players []bmapi.Player) {

	gate := semaphore.NewWeighted(int64(enricher.config.Concurrency))
	batchSize := enricher.config.BatchSize
	batches := (len(players) + batchSize - 1) / batchSize

	for start := 0; start < len(players); start += batchSize {

		end := min(start+batchSize, len(players))
		log.Debug().Msg(fmt.Sprintf("Processing identifier batch %d/%d (%d players)", start/batchSize+1, batches, end-start))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			if players[i].SteamId != 0 {
				continue
			}
			if err := gate.Acquire(ctx, 1); err != nil {
				wg.Wait()
				return
			}
			wg.Add(1)
			go func(player *bmapi.Player) {
				defer wg.Done()
				defer gate.Release(1)
				enricher.fetch(ctx, player)
				time.Sleep(enricher.config.LookupDelay)
			}(&players[i])
		}
		wg.Wait()

		if end < len(players) {
			time.Sleep(enricher.config.BatchDelay)
		}
	}
}

func (enricher *Enricher) fetch(ctx context.Context, player *bmapi.Player) {

	// Default pause between attempts, overridden by the delay
	// the server asks for when it rate limits us
	wait := 2 * time.Second
	backoff := retry.WithMaxRetries(uint64(enricher.config.Attempts-1), retry.BackoffFunc(func() (time.Duration, bool) {
		return wait, false
	}))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		steamid, err := enricher.source.SteamId(ctx, player.Id)
		if err != nil {
			var ratelimited *bmapi.RateLimitedError
			if errors.As(err, &ratelimited) && ratelimited.RetryAfter > 0 {
				wait = ratelimited.RetryAfter
			}
			return retry.RetryableError(err)
		}
		player.SteamId = steamid
		return nil
	})
	if err != nil {
		log.Debug().Msg(fmt.Sprintf("Could not find steam id for player %d: %v", player.Id, err))
	}
}
