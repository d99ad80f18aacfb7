package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"Tues":           time.Tuesday,
		"wed":            time.Wednesday,
		"THURSDAY":       time.Thursday,
		"thur":           time.Thursday,
		"Thu.":           time.Thursday,
		"Friday (01/10)": time.Friday,
		"Week 2 Sat":     time.Saturday,
		"sun":            time.Sunday,
	}
	for in, want := range cases {
		got, ok := ParseWeekday(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "Holiday", "Moonday"} {
		_, ok := ParseWeekday(in)
		assert.False(t, ok, in)
	}
}

func TestDayLabelWithAnchor(t *testing.T) {
	assert.Equal(t, "01/06/Mon", DayLabel("Monday", monday))
	assert.Equal(t, "01/07/Tues", DayLabel("tue", monday))
	assert.Equal(t, "01/10/Fri", DayLabel("Friday (01/10)", monday))
	assert.Equal(t, "01/12/Sun", DayLabel("Sun", monday))
}

func TestDayLabelWrapsForwardOnly(t *testing.T) {
	wednesday := time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "12/30/Mon", DayLabel("Mon", wednesday))
	assert.Equal(t, "12/25/Wed", DayLabel("Wed", wednesday))
}

func TestDayLabelStaysWithinWeek(t *testing.T) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		label := ShortWeekday(day)
		first := DateFor(monday, day)
		assert.False(t, first.Before(monday), label)
		assert.False(t, first.After(monday.AddDate(0, 0, 6)), label)
		assert.Equal(t, DayLabel(label, monday), DayLabel(label, monday))
	}
}

func TestDayLabelFallbacks(t *testing.T) {
	assert.Equal(t, "Thurs", DayLabel("thursday", time.Time{}))
	assert.Equal(t, "Holiday", DayLabel("  Holiday ", monday))
	assert.Equal(t, "-", DayLabel("", time.Time{}))
}

func TestSortKey(t *testing.T) {
	assert.Equal(t, 107, SortKey("01/07/Tues"))
	assert.Equal(t, 1231, SortKey("12/31/Wed"))
	assert.Equal(t, NoSortKey, SortKey("Tues"))
	assert.Equal(t, NoSortKey, SortKey("-"))
}
