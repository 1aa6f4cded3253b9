package remote

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnavailable   = errors.New("remote unavailable")
	ErrMalformedDate = errors.New("malformed date")
)

// Task is one Todoist task as consumed by the filter and sort pipeline.
// Priority follows the API convention: 4 is the most urgent (p1 in the UI).
type Task struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	Description string   `json:"description,omitempty"`
	Priority    int      `json:"priority"`
	Due         *Due     `json:"due"`
	Labels      []string `json:"labels"`
	ProjectID   string   `json:"project_id"`
	ProjectName string   `json:"project_name,omitempty"`
	CreatedAt   string   `json:"created_at"`
	Order       int      `json:"order"`
}

// Due is the due date of a task. Datetime, when set, takes precedence over
// Date.
type Due struct {
	Date        string `json:"date"`
	Datetime    string `json:"datetime,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	IsRecurring bool   `json:"is_recurring,omitempty"`
	String      string `json:"string,omitempty"`
}

func (t Task) HasLabel(label string) bool {
	for _, l := range t.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// HasTime reports whether the due date carries a specific time of day.
func (d *Due) HasTime() bool {
	return d != nil && strings.TrimSpace(d.Datetime) != ""
}

// Instant returns the effective due instant: the datetime when present,
// otherwise the last second of the due date in loc.
func (d *Due) Instant(loc *time.Location) (time.Time, bool) {
	if d == nil {
		return time.Time{}, false
	}
	if d.HasTime() {
		if t, err := parseDatetime(d.Datetime, d.zone(loc)); err == nil {
			return t, true
		}
	}
	day, err := parseDate(d.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, loc), true
}

// Day returns the start of the due calendar day in loc.
func (d *Due) Day(loc *time.Location) (time.Time, bool) {
	if d == nil {
		return time.Time{}, false
	}
	if day, err := parseDate(d.Date, loc); err == nil {
		return day, true
	}
	if t, ok := d.Instant(loc); ok {
		return startOfDay(t.In(loc)), true
	}
	return time.Time{}, false
}

func (d *Due) zone(loc *time.Location) *time.Location {
	if d.Timezone == "" {
		return loc
	}
	if z, err := time.LoadLocation(d.Timezone); err == nil {
		return z
	}
	return loc
}

// parseDate parses a calendar date. A longer string is accepted only when
// it is a whole timestamp, and is cut to its date part.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	day := s
	if len(s) > 10 {
		if _, err := parseDatetime(s, loc); err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
		}
		day = s[:10]
	}
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return t, nil
}

// parseDatetime accepts RFC 3339 and Todoist's floating form without an
// offset, which is read in loc.
func parseDatetime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
