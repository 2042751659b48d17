package leaderboard

import (
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"squadtop/internal/bmapi"
)

// Holds the last successfully fetched leaderboards.
// Each slot is replaced whole on a successful fetch, so readers never
// observe a half written list, and a failed cycle leaves the slot alone
type Cache struct {
	current     atomic.Pointer[[]bmapi.Player]
	previous    atomic.Pointer[[]bmapi.Player]
	lastRefresh atomic.Pointer[time.Time]
}

func NewCache() *Cache {
	return &Cache{}
}

// Copy of the current month leaderboard.
// Steam ids are scrubbed unless the caller is allowed to see them
func (cache *Cache) Current(includeSteamIds bool) []bmapi.Player {

	players := copyPlayers(cache.current.Load())
	if !includeSteamIds {
		for i := range players {
			players[i].SteamId = 0
		}
	}
	return players
}

// Copy of the previous month leaderboard, steam ids included
func (cache *Cache) Previous() []bmapi.Player {
	return copyPlayers(cache.previous.Load())
}

func (cache *Cache) SetCurrent(players []bmapi.Player) {
	cache.current.Store(&players)
}

func (cache *Cache) SetPrevious(players []bmapi.Player) {
	cache.previous.Store(&players)
}

func (cache *Cache) StampRefresh(t time.Time) {
	cache.lastRefresh.Store(&t)
}

func (cache *Cache) LastRefresh() (time.Time, bool) {
	t := cache.lastRefresh.Load()
	if t == nil {
		return time.Time{}, false
	}
	return *t, true
}

// True if a refresh has ever completed and it happened less than maxAge ago
func (cache *Cache) Fresh(maxAge time.Duration) bool {
	last, ok := cache.LastRefresh()
	return ok && time.Since(last) < maxAge
}

// Short human readable summary for the status command
func (cache *Cache) Status(maxAge time.Duration) string {

	last, ok := cache.LastRefresh()
	if !ok {
		return "No data loaded yet"
	}

	state := "Stale"
	if cache.Fresh(maxAge) {
		state = "Fresh"
	}
	age := int(time.Since(last).Minutes())
	return fmt.Sprintf("%s (updated %d min ago)\nCurrent month: %d players\nPrevious month: %d players",
		state, age, len(cache.Current(false)), len(cache.Previous()))
}

func copyPlayers(players *[]bmapi.Player) []bmapi.Player {
	if players == nil {
		return nil
	}
	return slices.Clone(*players)
}
