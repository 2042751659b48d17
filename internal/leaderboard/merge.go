package leaderboard

import (
	"sort"

	"squadtop/internal/bmapi"
)

// Collapse raw shard rows into one record per player.
// A player with playtime on both shards gets the durations summed;
// the name comes from the first row seen for that player
func Merge(rows []bmapi.Player) []bmapi.Player {

	merged := make([]bmapi.Player, 0, len(rows))
	indices := make(map[bmapi.PlayerId]int, len(rows))
	for _, row := range rows {
		if index, ok := indices[row.Id]; ok {
			merged[index].Duration += row.Duration
			continue
		}
		indices[row.Id] = len(merged)
		merged = append(merged, row)
	}
	return merged
}

// Order merged records by time played, keeping at most limit of them.
// The sort is stable, so players with equal durations stay in encounter order
func Rank(players []bmapi.Player, limit int) []bmapi.Player {

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Duration > players[j].Duration
	})
	if len(players) > limit {
		players = players[:limit]
	}
	return players
}

func MergeRank(rows []bmapi.Player, limit int) []bmapi.Player {
	return Rank(Merge(rows), limit)
}
