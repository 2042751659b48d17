package bmapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentPeriod(t *testing.T) {
	now := time.Date(2024, 3, 17, 9, 30, 12, 0, time.UTC)
	period := CurrentPeriod(now)
	assert.Equal(t, "2024-03-01T00:00:00Z:2024-03-17T09:30:12Z", period.String())
}

func TestPreviousPeriodYearRollover(t *testing.T) {
	// January rolls back to December of the prior year
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	period := PreviousPeriod(now)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), period.Start)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC), period.End)
	assert.Equal(t, "2023-12-01T00:00:00Z:2023-12-31T23:59:59Z", period.String())
}

func TestPreviousPeriodMonthLengths(t *testing.T) {
	cases := []struct {
		now time.Time
		end time.Time
	}{
		// February in a leap year
		{time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)},
		// February in a regular year
		{time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2023, 2, 28, 23, 59, 59, 0, time.UTC)},
		// 30 day month
		{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 30, 23, 59, 59, 0, time.UTC)},
		// 31 day month
		{time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC), time.Date(2024, 7, 31, 23, 59, 59, 0, time.UTC)},
	}
	for _, c := range cases {
		period := PreviousPeriod(c.now)
		assert.Equal(t, c.end, period.End, "for now = %s", c.now)
	}
}

func TestAlternativeEncodesTheSameWindow(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	period := PreviousPeriod(now)
	assert.Equal(t, "2023-12-01T00:00:00.000Z:2023-12-31T23:59:59.000Z", period.Alternative())
}

func TestPeriodsNormaliseToUtc(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	// 01:30 local on the 1st is still the previous month in UTC
	now := time.Date(2024, 6, 1, 1, 30, 0, 0, zone)
	period := CurrentPeriod(now)
	require.Equal(t, time.Month(5), period.Start.Month())
	assert.Equal(t, "2024-05-01T00:00:00Z:2024-05-31T22:30:00Z", period.String())
}
