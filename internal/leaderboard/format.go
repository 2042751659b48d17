package leaderboard

import "fmt"

// Format a number of seconds the way the leaderboard displays it: "1d 2h 3m 4s"
func FormatDuration(seconds int) string {

	days := seconds / (24 * 3600)
	hours := seconds % (24 * 3600) / 3600
	minutes := seconds % 3600 / 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds%60)
}
