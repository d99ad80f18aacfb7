package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
)

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil, monday, models.OptionalHours{})
	assert.Zero(t, s.TotalHours)
	assert.Zero(t, s.MissedDays)
	assert.Empty(t, s.Rows)
	assert.Empty(t, s.Series)
}

func TestAggregateSumsAndSorts(t *testing.T) {
	entries := []models.ScheduleEntry{
		{Day: "Wednesday", Time: "10:00 PM - 6:00 AM", Location: "Plant"},
		{Day: "Monday", Time: "8:00 AM - 5:00 PM", Location: "Plant"},
		{Day: "Holiday", Time: "", Location: ""},
		{Day: "Tues", Time: "off", Location: "Plant"},
	}

	s := Aggregate(entries, monday, models.OptionalHours{})

	assert.InDelta(t, 17.0, s.TotalHours, 1e-9)
	assert.Equal(t, 2, s.MissedDays)

	require.Len(t, s.Rows, 4)
	labels := []string{s.Rows[0].Label, s.Rows[1].Label, s.Rows[2].Label, s.Rows[3].Label}
	assert.Equal(t, []string{"01/06/Mon", "01/07/Tues", "01/08/Wed", "Holiday"}, labels)
	assert.Equal(t, "8:00 AM - 5:00 PM", s.Rows[0].Shift)
	assert.False(t, s.Rows[1].Parsed)

	require.Len(t, s.Series, 4)
	assert.Equal(t, Point{Label: "01/08/Wed", Hours: 8}, s.Series[2])
}

func TestAggregateOverrideWins(t *testing.T) {
	entries := []models.ScheduleEntry{{Day: "Mon", Time: "8:00 AM - 5:00 PM"}}

	s := Aggregate(entries, monday, models.Hours(3.25))
	assert.InDelta(t, 3.25, s.TotalHours, 1e-9)
	assert.Equal(t, 0, s.MissedDays)

	s = Aggregate(entries, monday, models.Hours(0))
	assert.Zero(t, s.TotalHours)
}

func TestAggregateIsOrderIndependent(t *testing.T) {
	a := []models.ScheduleEntry{
		{Day: "Fri", Time: "9 AM - 1 PM"},
		{Day: "Mon", Time: "9 AM - 5 PM"},
	}
	b := []models.ScheduleEntry{a[1], a[0]}

	assert.Equal(t, Aggregate(a, monday, models.OptionalHours{}), Aggregate(b, monday, models.OptionalHours{}))
}
