package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ServiceWeekSpan is the number of days from the Monday anchor to the Friday end.
const ServiceWeekSpan = 4

// Submission is the summary row returned by the submissions backend.
type Submission struct {
	ID               int64         `json:"id"`
	EmployeeName     string        `json:"employee_name"`
	RequestorName    string        `json:"requestor_name"`
	RequestDate      Date          `json:"request_date"`
	ServiceWeekStart Date          `json:"service_week_start"`
	ServiceWeekEnd   Date          `json:"service_week_end"`
	Status           Status        `json:"status"`
	Region           Region        `json:"region,omitempty"`
	TotalHours       OptionalHours `json:"total_hours"`
	PDFFilename      string        `json:"pdf_filename,omitempty"`
}

// WeekEnd returns the stored service-week end, or the Friday after the start when absent.
func (s Submission) WeekEnd() Date {
	if !s.ServiceWeekEnd.IsZero() || s.ServiceWeekStart.IsZero() {
		return s.ServiceWeekEnd
	}
	return Date{Time: s.ServiceWeekStart.AddDate(0, 0, ServiceWeekSpan)}
}

// ScheduleEntry is one day of a submitted schedule.
type ScheduleEntry struct {
	Day      string `json:"day"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

// SubmissionDetail bundles a submission with its schedule and optional preview link.
type SubmissionDetail struct {
	Submission Submission      `json:"form"`
	Schedule   []ScheduleEntry `json:"schedule"`
	PreviewURL string          `json:"previewUrl,omitempty"`
}

// Date is a calendar date that tolerates the shapes the backend emits:
// "2006-01-02", an RFC3339 timestamp, "01/02/2006", null or an empty string.
type Date struct {
	time.Time
}

// NewDate truncates t to a calendar date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses raw leniently. Unrecognised input yields the zero Date.
func ParseDate(raw string) Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}
	}
	if len(raw) >= len(dateLayout) {
		if t, err := time.Parse(dateLayout, raw[:len(dateLayout)]); err == nil {
			return Date{Time: t}
		}
	}
	if t, err := time.Parse("01/02/2006", raw); err == nil {
		return Date{Time: t}
	}
	return Date{}
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = ParseDate(raw)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// String renders the date as YYYY-MM-DD, or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MonthDay renders the date as MM/DD, or "" when unset.
func (d Date) MonthDay() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("01/02")
}

// OptionalHours is a nullable hour total. Numbers and numeric strings are accepted.
type OptionalHours struct {
	Value float64
	Valid bool
}

// Hours wraps a known value.
func Hours(v float64) OptionalHours {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return OptionalHours{}
	}
	return OptionalHours{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *OptionalHours) UnmarshalJSON(data []byte) error {
	*h = OptionalHours{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*h = Hours(n)
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		*h = Hours(n)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (h OptionalHours) MarshalJSON() ([]byte, error) {
	if !h.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(h.Value)
}

// Format renders two decimals, or an em dash when the value is unknown.
func (h OptionalHours) Format() string {
	if !h.Valid {
		return "—"
	}
	return strconv.FormatFloat(h.Value, 'f', 2, 64)
}
