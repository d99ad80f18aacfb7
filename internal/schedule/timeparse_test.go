package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1:30 PM", 13.5, true},
		{"12:00 AM", 0, true},
		{"12:00 PM", 12, true},
		{"9 AM", 9, true},
		{"01:30pm", 13.5, true},
		{"  11:15   am ", 11.25, true},
		{"13:00", 13, true},
		{"0:05", 5.0 / 60, true},
		{"25:00", 0, false},
		{"13:00 PM", 0, false},
		{"0 AM", 0, false},
		{"9:60 AM", 0, false},
		{"9:5", 0, false},
		{"noon", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseClock(tc.in)
			require.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestShiftDuration(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"8:00 AM - 5:00 PM", 9, true},
		{"10:00 PM - 6:00 AM", 8, true},
		{"9:00 AM–1:30 PM", 4.5, true},
		{"9:00 AM — 9:00 AM", 0, true},
		{"13:00~17:45", 4.75, true},
		{"garbage", 0, false},
		{"8:00 AM -", 0, false},
		{"8:00 AM - later", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ShiftDuration(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want, got, 1e-9)
			assert.InDelta(t, tc.want, ShiftHours(tc.in), 1e-9)
		})
	}
}

func TestShiftDurationNeverExceedsOneDay(t *testing.T) {
	for _, raw := range []string{"11:59 PM - 12:00 AM", "12:01 AM - 12:00 AM", "23:59 - 0:00"} {
		got := ShiftHours(raw)
		assert.GreaterOrEqual(t, got, 0.0, raw)
		assert.Less(t, got, 24.0, raw)
	}
}

func TestFormatShift(t *testing.T) {
	assert.Equal(t, "1:00 PM - 9:30 PM", FormatShift("13:00 - 21:30"))
	assert.Equal(t, "12:00 AM - 8:05 AM", FormatShift("12 am ~ 8:05 AM"))
	assert.Equal(t, "8:00 AM - late", FormatShift("8:00 AM – late"))
	assert.Equal(t, "Off", FormatShift("  Off "))
	assert.Equal(t, "-", FormatShift("   "))
}

func TestFormatClockRoundsMinutes(t *testing.T) {
	assert.Equal(t, "12:00 PM", FormatClock(12))
	assert.Equal(t, "11:59 PM", FormatClock(23.99))
	assert.Equal(t, "12:00 AM", FormatClock(23.999))
}
