package schedule

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// NoSortKey orders labels without a leading MM/DD after every dated label.
const NoSortKey = math.MaxInt

var (
	nonAlpha    = regexp.MustCompile(`[^a-z]`)
	monthDayKey = regexp.MustCompile(`^\s*(\d{1,2})/(\d{1,2})`)
)

var weekdayIndex = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"thur":      time.Thursday,
	"thurs":     time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
}

var shortWeekday = [7]string{"Sun", "Mon", "Tues", "Wed", "Thurs", "Fri", "Sat"}

// ShortWeekday is the abbreviation used in schedule labels.
func ShortWeekday(d time.Weekday) string {
	return shortWeekday[d%7]
}

// ParseWeekday finds the weekday in a free-form label such as "Tues",
// "WEDNESDAY" or "Friday (01/10)". Labels with a trailing weekday word
// ("Week 1 Mon") are also recognised.
func ParseWeekday(label string) (time.Weekday, bool) {
	raw := strings.ToLower(strings.TrimSpace(label))
	if raw == "" {
		return 0, false
	}

	if d, ok := weekdayIndex[nonAlpha.ReplaceAllString(raw, "")]; ok {
		return d, true
	}

	fields := strings.Fields(raw)
	last := nonAlpha.ReplaceAllString(fields[len(fields)-1], "")
	if d, ok := weekdayIndex[last]; ok {
		return d, true
	}
	return 0, false
}

// DateFor returns the first date on or after anchor that falls on day.
func DateFor(anchor time.Time, day time.Weekday) time.Time {
	offset := (int(day) - int(anchor.Weekday()) + 7) % 7
	return anchor.AddDate(0, 0, offset)
}

// DayLabel builds the "MM/DD/Short" label for a schedule row, e.g. "01/07/Tues".
// Without an anchor or a recognisable weekday it falls back to the short
// weekday name when one can be found, then to the trimmed raw label, then "-".
func DayLabel(label string, anchor time.Time) string {
	day, ok := ParseWeekday(label)
	if ok && !anchor.IsZero() {
		return DateFor(anchor, day).Format("01/02") + "/" + ShortWeekday(day)
	}

	raw := strings.TrimSpace(label)
	if raw == "" {
		return "-"
	}
	if ok {
		return ShortWeekday(day)
	}
	return raw
}

// SortKey derives month*100+day from a label's leading MM/DD. Labels without
// one return NoSortKey.
func SortKey(label string) int {
	m := monthDayKey.FindStringSubmatch(label)
	if m == nil {
		return NoSortKey
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	return month*100 + day
}
