package leaderboard

import (
	"testing"
	"time"

	"squadtop/internal/bmapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentScrubsSteamIds(t *testing.T) {
	cache := NewCache()
	cache.SetCurrent([]bmapi.Player{
		{Name: "alpha", Id: 1, Duration: 100, SteamId: 76561198000000001},
		{Name: "bravo", Id: 2, Duration: 50, SteamId: 76561198000000002},
	})

	for _, player := range cache.Current(false) {
		assert.Equal(t, bmapi.SteamId(0), player.SteamId)
	}
	// The stored snapshot still has them
	players := cache.Current(true)
	require.Len(t, players, 2)
	assert.Equal(t, bmapi.SteamId(76561198000000001), players[0].SteamId)
}

func TestReadersGetCopies(t *testing.T) {
	cache := NewCache()
	cache.SetCurrent([]bmapi.Player{{Name: "alpha", Id: 1, Duration: 100}})
	cache.SetPrevious([]bmapi.Player{{Name: "bravo", Id: 2, Duration: 200}})

	current := cache.Current(true)
	current[0].Name = "mutated"
	current[0].Duration = 0
	assert.Equal(t, "alpha", cache.Current(true)[0].Name)
	assert.Equal(t, 100, cache.Current(true)[0].Duration)

	previous := cache.Previous()
	previous[0].Duration = 0
	assert.Equal(t, 200, cache.Previous()[0].Duration)
}

func TestEmptyCacheReads(t *testing.T) {
	cache := NewCache()
	assert.Empty(t, cache.Current(false))
	assert.Empty(t, cache.Previous())
}

func TestFreshness(t *testing.T) {
	cache := NewCache()

	// Never refreshed
	assert.False(t, cache.Fresh(15*time.Minute))

	// Refreshed long ago
	cache.StampRefresh(time.Now().UTC().Add(-20 * time.Minute))
	assert.False(t, cache.Fresh(15*time.Minute))

	// Refreshed just now
	cache.StampRefresh(time.Now().UTC())
	assert.True(t, cache.Fresh(15*time.Minute))
}

func TestFreshnessAtTheBoundary(t *testing.T) {
	cache := NewCache()
	cache.StampRefresh(time.Now().UTC().Add(-15 * time.Minute))
	assert.False(t, cache.Fresh(15*time.Minute))
}

func TestStatusSummary(t *testing.T) {
	cache := NewCache()
	assert.Equal(t, "No data loaded yet", cache.Status(15*time.Minute))

	cache.SetCurrent([]bmapi.Player{{Id: 1}, {Id: 2}})
	cache.SetPrevious([]bmapi.Player{{Id: 3}})
	cache.StampRefresh(time.Now().UTC().Add(-2 * time.Minute))

	status := cache.Status(15 * time.Minute)
	assert.Contains(t, status, "Fresh")
	assert.Contains(t, status, "updated 2 min ago")
	assert.Contains(t, status, "Current month: 2 players")
	assert.Contains(t, status, "Previous month: 1 players")

	cache.StampRefresh(time.Now().UTC().Add(-30 * time.Minute))
	assert.Contains(t, cache.Status(15*time.Minute), "Stale")
}
