package schedule

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	clock12Pattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(AM|PM)$`)
	clock24Pattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	rangeSeparator = regexp.MustCompile(`\s*(?:-|–|—|~)\s*`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// ParseClock converts a clock token such as "1:30 PM", "9 AM" or "13:00" into
// fractional hours in [0, 24). ok is false when the token is not a valid clock
// time, so a parsed midnight (0, true) stays distinct from a failure.
func ParseClock(token string) (hours float64, ok bool) {
	s := strings.ToUpper(whitespace.ReplaceAllString(strings.TrimSpace(token), " "))
	if s == "" {
		return 0, false
	}

	if m := clock12Pattern.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return 0, false
		}
		switch {
		case m[3] == "PM" && hour != 12:
			hour += 12
		case m[3] == "AM" && hour == 12:
			hour = 0
		}
		return float64(hour) + float64(minute)/60, true
	}

	if m := clock24Pattern.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return 0, false
		}
		return float64(hour) + float64(minute)/60, true
	}

	return 0, false
}

// splitRange returns the start and end tokens of a shift token. Everything after
// the first separator is rejoined with "-" to form the end token.
func splitRange(raw string) (start, end string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false
	}
	parts := rangeSeparator.Split(raw, -1)
	if len(parts) < 2 {
		return "", "", false
	}
	start = strings.TrimSpace(parts[0])
	end = strings.TrimSpace(strings.Join(parts[1:], "-"))
	if start == "" || end == "" {
		return "", "", false
	}
	return start, end, true
}

// ShiftDuration computes the hours covered by a shift token like
// "8:00 AM - 5:00 PM". An end before the start is treated as crossing one
// midnight. ok is false when either side fails to parse.
func ShiftDuration(raw string) (hours float64, ok bool) {
	startToken, endToken, found := splitRange(raw)
	if !found {
		return 0, false
	}

	start, okStart := ParseClock(startToken)
	end, okEnd := ParseClock(endToken)
	if !okStart || !okEnd {
		return 0, false
	}

	diff := end - start
	if end < start {
		diff += 24
	}
	if diff < 0 || math.IsNaN(diff) || math.IsInf(diff, 0) {
		return 0, false
	}
	return diff, true
}

// ShiftHours is ShiftDuration with failures absorbed as zero hours.
func ShiftHours(raw string) float64 {
	hours, _ := ShiftDuration(raw)
	return hours
}

// FormatClock renders fractional hours as "h:mm AM".
func FormatClock(hours float64) string {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return ""
	}
	total := int(math.Round(hours * 60))
	hour := (total / 60) % 24
	minute := total % 60

	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, meridiem)
}

// FormatShift renders a shift token in 12-hour form, e.g. "1:00 PM - 9:30 PM",
// whatever format it was stored in. Unparseable clocks are echoed as
// "start - end"; tokens without a range come back trimmed, empty ones as "-".
func FormatShift(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "-"
	}

	startToken, endToken, ok := splitRange(trimmed)
	if !ok {
		return trimmed
	}

	start, okStart := ParseClock(startToken)
	end, okEnd := ParseClock(endToken)
	if okStart && okEnd {
		return FormatClock(start) + " - " + FormatClock(end)
	}
	return startToken + " - " + endToken
}
