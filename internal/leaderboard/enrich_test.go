package leaderboard

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"squadtop/internal/bmapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idSourceFunc func(ctx context.Context, id bmapi.PlayerId) (bmapi.SteamId, error)

func (f idSourceFunc) SteamId(ctx context.Context, id bmapi.PlayerId) (bmapi.SteamId, error) {
	return f(ctx, id)
}

func fastEnricherConfig() EnricherConfig {
	return EnricherConfig{
		Concurrency: 2,
		BatchSize:   10,
		LookupDelay: time.Millisecond,
		BatchDelay:  time.Millisecond,
		Attempts:    3,
	}
}

func TestEnrichSetsSteamIds(t *testing.T) {
	enricher := NewEnricher(idSourceFunc(func(ctx context.Context, id bmapi.PlayerId) (bmapi.SteamId, error) {
		return bmapi.SteamId(id) * 2, nil
	}), fastEnricherConfig())

	players := []bmapi.Player{{Id: 1}, {Id: 2}, {Id: 3}}
	enricher.Enrich(context.Background(), players)

	for _, player := range players {
		assert.Equal(t, bmapi.SteamId(player.Id)*2, player.SteamId)
	}
}

func TestEnrichRetriesOnRateLimit(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	enricher := NewEnricher(idSourceFunc(func(ctx context.Context, id bmapi.PlayerId) (bmapi.SteamId, error) {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 3 {
			return 0, &bmapi.RateLimitedError{RetryAfter: time.Millisecond}
		}
		return 99, nil
	}), fastEnricherConfig())

	players := []bmapi.Player{{Id: 7}}
	enricher.Enrich(context.Background(), players)

	assert.Equal(t, bmapi.SteamId(99), players[0].SteamId)
	assert.Equal(t, 3, attempts)
}

func TestEnrichGivesUpAfterMaxAttempts(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	enricher := NewEnricher(idSourceFunc(func(ctx context.Context, id bmapi.PlayerId) (bmapi.SteamId, error) {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		return 0, &bmapi.RateLimitedError{RetryAfter: time.Millisecond}
	}), fastEnricherConfig())

	players := []bmapi.Player{{Id: 7}}
	enricher.Enrich(context.Background(), players)

	assert.Equal(t, bmapi.SteamId(0), players[0].SteamId)
	assert.Equal(t, 3, attempts)
}

func TestEnrichFailedLookupDoesNotAbortSiblings(t *testing.T) {
	enricher := NewEnricher(idSourceFunc(func(ctx context.Context, id bmapi.PlayerId) (bmapi.SteamId, error) {
		if id == 2 {
			return 0, fmt.Errorf("connection reset")
		}
		return bmapi.SteamId(id) * 10, nil
	}), EnricherConfig{
		Concurrency: 2,
		BatchSize:   10,
		LookupDelay: time.Millisecond,
		BatchDelay:  time.Millisecond,
		Attempts:    1,
	})

	players := []bmapi.Player{{Id: 1}, {Id: 2}, {Id: 3}}
	enricher.Enrich(context.Background(), players)

	assert.Equal(t, bmapi.SteamId(10), players[0].SteamId)
	assert.Equal(t, bmapi.SteamId(0), players[1].SteamId)
	assert.Equal(t, bmapi.SteamId(30), players[2].SteamId)
}

func TestEnrichSkipsPlayersThatAlreadyHaveAnId(t *testing.T) {
	var mu sync.Mutex
	var looked []bmapi.PlayerId
	enricher := NewEnricher(idSourceFunc(func(ctx context.Context, id bmapi.PlayerId) (bmapi.SteamId, error) {
		mu.Lock()
		looked = append(looked, id)
		mu.Unlock()
		return 5, nil
	}), fastEnricherConfig())

	players := []bmapi.Player{{Id: 1, SteamId: 42}, {Id: 2}}
	enricher.Enrich(context.Background(), players)

	require.Equal(t, []bmapi.PlayerId{2}, looked)
	assert.Equal(t, bmapi.SteamId(42), players[0].SteamId)
}

func TestEnrichRespectsConcurrencyBound(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0
	enricher := NewEnricher(idSourceFunc(func(ctx context.Context, id bmapi.PlayerId) (bmapi.SteamId, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return 1, nil
	}), fastEnricherConfig())

	players := make([]bmapi.Player, 8)
	for i := range players {
		players[i].Id = bmapi.PlayerId(i + 1)
	}
	enricher.Enrich(context.Background(), players)

	assert.LessOrEqual(t, peak, 2)
}
