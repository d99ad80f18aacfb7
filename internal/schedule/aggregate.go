package schedule

import (
	"math"
	"sort"
	"time"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
)

// Row is one schedule entry prepared for display.
type Row struct {
	Day      string  `json:"day"`
	Time     string  `json:"time"`
	Location string  `json:"location"`
	Label    string  `json:"label"`
	Shift    string  `json:"shift"`
	Hours    float64 `json:"hours"`
	Parsed   bool    `json:"parsed"`
	SortKey  int     `json:"-"`
}

// Point is one bar of the hours chart.
type Point struct {
	Label string  `json:"label"`
	Hours float64 `json:"hours"`
}

// Summary is the derived view of a submission's schedule.
type Summary struct {
	Rows       []Row   `json:"rows"`
	TotalHours float64 `json:"total_hours"`
	MissedDays int     `json:"missed_days"`
	Series     []Point `json:"series"`
}

// Aggregate computes per-row hours, the total and the missed-day count for a
// schedule anchored at the service-week start. A valid override replaces the
// computed total. Rows come back ordered by their date label; rows without a
// date keep their input order after the dated ones.
func Aggregate(entries []models.ScheduleEntry, weekStart time.Time, override models.OptionalHours) Summary {
	rows := make([]Row, 0, len(entries))
	var total float64
	missed := 0

	for _, entry := range entries {
		hours, parsed := ShiftDuration(entry.Time)
		hours = math.Abs(hours)
		if hours == 0 {
			missed++
		}
		total += hours

		label := DayLabel(entry.Day, weekStart)
		rows = append(rows, Row{
			Day:      entry.Day,
			Time:     entry.Time,
			Location: entry.Location,
			Label:    label,
			Shift:    FormatShift(entry.Time),
			Hours:    hours,
			Parsed:   parsed,
			SortKey:  SortKey(label),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SortKey < rows[j].SortKey
	})

	series := make([]Point, len(rows))
	for i, row := range rows {
		series[i] = Point{Label: row.Label, Hours: row.Hours}
	}

	if override.Valid {
		total = override.Value
	}

	return Summary{Rows: rows, TotalHours: total, MissedDays: missed, Series: series}
}
