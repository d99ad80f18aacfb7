package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionDecodesBackendShapes(t *testing.T) {
	payload := `{
		"id": 42,
		"employee_name": "Jane Doe",
		"requestor_name": "Sam",
		"request_date": "2025-01-03T00:00:00",
		"service_week_start": "2025-01-06",
		"service_week_end": null,
		"status": "Confirmed",
		"total_hours": "12.5",
		"pdf_filename": "Jane_Doe.pdf"
	}`

	var s Submission
	require.NoError(t, json.Unmarshal([]byte(payload), &s))

	assert.Equal(t, int64(42), s.ID)
	assert.Equal(t, StatusSent, s.Status)
	assert.Equal(t, "01/03", s.RequestDate.MonthDay())
	assert.True(t, s.ServiceWeekEnd.IsZero())
	assert.Equal(t, "01/10", s.WeekEnd().MonthDay())
	assert.True(t, s.TotalHours.Valid)
	assert.InDelta(t, 12.5, s.TotalHours.Value, 1e-9)
}

func TestOptionalHoursAbsentValues(t *testing.T) {
	for _, raw := range []string{`null`, `""`, `"-"`, `"n/a"`} {
		var h OptionalHours
		require.NoError(t, json.Unmarshal([]byte(raw), &h), raw)
		assert.False(t, h.Valid, raw)
		assert.Equal(t, "—", h.Format())
	}

	assert.Equal(t, "8.00", Hours(8).Format())
	out, err := json.Marshal(OptionalHours{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestDateRoundTripAndFallbacks(t *testing.T) {
	d := ParseDate("01/06/2025")
	assert.Equal(t, NewDate(2025, time.January, 6), d)
	assert.True(t, ParseDate("garbage").IsZero())
	assert.Equal(t, "", Date{}.MonthDay())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-06"`, string(out))
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"pending":    StatusPending,
		" APPROVED ": StatusApproved,
		"sent":       StatusSent,
		"confirmed":  StatusSent,
		"Deleted":    StatusDeleted,
		"":           StatusPending,
		"processing": StatusPending,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseStatus(raw), raw)
	}
	assert.Equal(t, "Sent", StatusSent.DisplayName())
	assert.True(t, StatusDeleted.Terminal())
}

func TestTabIncludes(t *testing.T) {
	assert.True(t, TabPending.Includes(StatusPending, false))
	assert.False(t, TabPending.Includes(StatusApproved, false))
	assert.True(t, TabAll.Includes(StatusSent, false))
	assert.False(t, TabAll.Includes(StatusDeleted, false))
	assert.True(t, TabAll.Includes(StatusDeleted, true))
	assert.Equal(t, "Approved Submissions", TabApproved.Title())
}

func TestParseActionAliases(t *testing.T) {
	a, ok := ParseAction("Confirm")
	require.True(t, ok)
	assert.Equal(t, ActionSend, a)

	_, ok = ParseAction("reject")
	assert.False(t, ok)
}

func TestPaginateClamps(t *testing.T) {
	p, start, end := Paginate(5, 10, 23)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 20, start)
	assert.Equal(t, 23, end)

	p, start, end = Paginate(0, 10, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
