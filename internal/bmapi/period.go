package bmapi

import (
	"fmt"
	"time"
)

// Timestamp layouts accepted by the leaderboard period filter.
// The alternate layout encodes the same instants with millisecond
// precision, for servers that reject the plain one
const PERIOD_LAYOUT = "2006-01-02T15:04:05Z"
const PERIOD_LAYOUT_ALT = "2006-01-02T15:04:05.000Z"

// A leaderboard query window, always in UTC
type Period struct {
	Start time.Time
	End   time.Time
}

// Window from the first instant of the current month up to now
func CurrentPeriod(now time.Time) Period {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{start, now}
}

// Window covering the whole previous calendar month,
// ending on the last second of its last day
func PreviousPeriod(now time.Time) Period {
	now = now.UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{firstOfMonth.AddDate(0, -1, 0), firstOfMonth.Add(-time.Second)}
}

func (period Period) String() string {
	return period.format(PERIOD_LAYOUT)
}

// The same window in the alternate timestamp layout
func (period Period) Alternative() string {
	return period.format(PERIOD_LAYOUT_ALT)
}

func (period Period) format(layout string) string {
	return fmt.Sprintf("%s:%s", period.Start.UTC().Format(layout), period.End.UTC().Format(layout))
}
