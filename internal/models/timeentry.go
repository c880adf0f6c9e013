package models

import (
	"fmt"
	"time"
)

// TimeEntry is one logged unit of work on a task. Exactly one of three
// shapes is populated:
//
//   - a fixed duration entered by hand (DurationSeconds set)
//   - a concluded interval (Start and End set)
//   - an open interval still being recorded (Start set, End nil)
type TimeEntry struct {
	Start           *time.Time `json:"start,omitempty"`
	End             *time.Time `json:"end,omitempty"`
	DurationSeconds *int64     `json:"duration_seconds,omitempty"`
	Note            string     `json:"note,omitempty"`
}

// StartedEntry returns an open entry beginning at start.
func StartedEntry(start time.Time, note string) TimeEntry {
	return TimeEntry{Start: &start, Note: note}
}

// FixedEntry returns a manually entered duration.
func FixedEntry(d time.Duration, note string) TimeEntry {
	secs := int64(d / time.Second)
	return TimeEntry{DurationSeconds: &secs, Note: note}
}

// Open reports whether the entry is still recording.
func (e *TimeEntry) Open() bool {
	return e.Start != nil && e.End == nil && e.DurationSeconds == nil
}

// Conclude closes an open entry at the given time. Entries that are not
// open are left untouched.
func (e *TimeEntry) Conclude(now time.Time) {
	if !e.Open() {
		return
	}
	end := now
	e.End = &end
}

// Duration returns the entry's length. Open intervals are measured up to
// now, so the value grows over wall-clock time without further mutation.
func (e *TimeEntry) Duration(now time.Time) time.Duration {
	switch {
	case e.DurationSeconds != nil:
		return time.Duration(*e.DurationSeconds) * time.Second
	case e.Start != nil && e.End != nil:
		return e.End.Sub(*e.Start)
	case e.Start != nil:
		return now.Sub(*e.Start)
	default:
		return 0
	}
}

// Clone returns a deep copy of the entry.
func (e *TimeEntry) Clone() TimeEntry {
	c := *e
	if e.Start != nil {
		s := *e.Start
		c.Start = &s
	}
	if e.End != nil {
		end := *e.End
		c.End = &end
	}
	if e.DurationSeconds != nil {
		d := *e.DurationSeconds
		c.DurationSeconds = &d
	}
	return c
}

// FormatDuration renders a duration as a short human string like
// "1h 40m", "45m" or "30s".
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}
