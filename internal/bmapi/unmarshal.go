package bmapi

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Extract leaderboard rows from a servers/.../leaderboards/time response.
// Rows that cannot be decoded are skipped individually, so one bad row
// never costs us the rest of the page
func UnmarshalLeaderboard(data []byte) ([]Player, error) {

	var raw struct{ Data []json.RawMessage }
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	players := make([]Player, 0, len(raw.Data))
	for _, row := range raw.Data {

		var entry struct {
			Id         string
			Attributes struct {
				Name  string
				Value float64
			}
		}
		if err := json.Unmarshal(row, &entry); err != nil {
			log.Warn().Msg(fmt.Sprintf("Skipping leaderboard row that could not be decoded: %v", err))
			continue
		}

		id, err := strconv.ParseInt(entry.Id, 10, 64)
		if err != nil {
			log.Warn().Msg(fmt.Sprintf("Skipping leaderboard row with malformed player id %q", entry.Id))
			continue
		}
		if id == 0 || entry.Attributes.Name == "" || entry.Attributes.Value <= 0 {
			continue
		}

		players = append(players, Player{Name: entry.Attributes.Name, Id: PlayerId(id), Duration: int(entry.Attributes.Value)})
	}

	return players, nil
}

// Find the steam id among the identifiers included in a player response.
// Zero with no error means no identifier of that kind is present
func UnmarshalSteamId(data []byte) (SteamId, error) {

	var raw struct {
		Included []struct {
			Type       string
			Attributes struct {
				Type       string
				Identifier string
			}
		}
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, err
	}

	for _, included := range raw.Included {
		if included.Type != "identifier" || included.Attributes.Type != "steamID" {
			continue
		}
		steamid, err := strconv.ParseInt(included.Attributes.Identifier, 10, 64)
		if err != nil {
			log.Debug().Msg(fmt.Sprintf("Identifier %q is not a valid steam id", included.Attributes.Identifier))
			continue
		}
		return SteamId(steamid), nil
	}

	return 0, nil
}
