package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)

func TestParseDateTimeFormats(t *testing.T) {
	cases := []struct {
		name string
		date string
		time string
		want time.Time
	}{
		{
			"month name with year and 12h time",
			"Oct 05, 2025", "02:30 PM",
			time.Date(2025, time.October, 5, 14, 30, 0, 0, time.Local),
		},
		{
			"month name with year, no time",
			"Oct 05, 2025", "",
			time.Date(2025, time.October, 5, 0, 0, 0, 0, time.Local),
		},
		{
			"month name with year and 24h time",
			"Oct 05, 2025", "14:30",
			time.Date(2025, time.October, 5, 14, 30, 0, 0, time.Local),
		},
		{
			"iso with seconds",
			"2025-10-05", "14:30:00",
			time.Date(2025, time.October, 5, 14, 30, 0, 0, time.Local),
		},
		{
			"iso without seconds",
			"2025-10-05", "14:30",
			time.Date(2025, time.October, 5, 14, 30, 0, 0, time.Local),
		},
		{
			"iso date only",
			"2025-10-05", "",
			time.Date(2025, time.October, 5, 0, 0, 0, 0, time.Local),
		},
		{
			"month name without year resolves to current year",
			"Oct 05", "10:00 AM",
			time.Date(2026, time.October, 5, 10, 0, 0, 0, time.Local),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseDateTime(tc.date, tc.time, now)
			require.True(t, ok)
			assert.True(t, tc.want.Equal(got), "want %v, got %v", tc.want, got)
		})
	}
}

func TestParseDateTimeUnparsable(t *testing.T) {
	for _, tc := range []struct{ date, time string }{
		{"", ""},
		{"soon", ""},
		{"05/10/2025", "14:30"},
		{"2025-10-05", "half past two"},
	} {
		_, ok := ParseDateTime(tc.date, tc.time, now)
		assert.False(t, ok, "%q %q should not parse", tc.date, tc.time)
	}
}

// A year-bearing layout must win even when a no-year layout could also
// claim the prefix of the input.
func TestParseDateTimeYearPriority(t *testing.T) {
	got, ok := ParseDateTime("Oct 05, 2025", "14:30", now)
	require.True(t, ok)
	assert.Equal(t, 2025, got.Year())
}
