// Package timetable resolves weekly school timetables into per-teacher day
// schedules and answers point-in-time questions against them. Everything in
// this package is pure: no I/O, no ambient clock reads.
package timetable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// afternoonCutoff is the first hour treated as a morning hour. Bare hours
// below it are afternoon hours written on a 12-hour clock ("2:15" is 14:15).
const afternoonCutoff = 7

// ErrInvalidTimeFormat reports a time string that is not "H:MM" or "HH:MM".
var ErrInvalidTimeFormat = errors.New("invalid time format, use HH:MM")

// TimeOfDay is a wall-clock time expressed in minutes since midnight.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from a 24-hour hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// FromTime extracts the time of day from t in t's own location.
func FromTime(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

// Hour returns the 24-hour hour component.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// String renders the canonical 24-hour "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Display renders the 12-hour "H:MM AM/PM" form. Midnight is 12 AM and noon is 12 PM.
func (t TimeOfDay) Display() string {
	hour, period := t.Hour(), "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		period = "PM"
	case hour > 12:
		hour -= 12
		period = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), period)
}

// On anchors the time of day to the calendar date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location())
}

// MarshalText encodes the canonical "HH:MM" form.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a canonical "HH:MM" value. The afternoon heuristic is
// not applied: the value is assumed to have been normalised already.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	hour, minute, ok := splitClock(string(text))
	if !ok || !validClock(hour, minute) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(text))
	}
	*t = NewTimeOfDay(hour, minute)
	return nil
}

// DisplayRange renders "start - end" in 12-hour form.
func DisplayRange(start, end TimeOfDay) string {
	return start.Display() + " - " + end.Display()
}

// Normalize converts a raw "H:MM" string into canonical "HH:MM". Hours below
// 7 are taken as afternoon hours and shifted by 12. Input without a colon or
// with non-numeric parts is returned unchanged.
func Normalize(raw string) string {
	hour, minute, ok := splitClock(raw)
	if !ok {
		return raw
	}
	if hour < afternoonCutoff {
		hour += 12
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ParseTimeOfDay normalizes raw and returns it as a TimeOfDay. It fails when
// raw is malformed or the normalized value is not a valid 24-hour time.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	hour, minute, ok := splitClock(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, raw)
	}
	if hour < afternoonCutoff {
		hour += 12
	}
	if !validClock(hour, minute) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, raw)
	}
	return NewTimeOfDay(hour, minute), nil
}

// DisplayRaw formats a raw time string in 12-hour form, returning it
// unchanged when it cannot be parsed.
func DisplayRaw(raw string) string {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		return raw
	}
	return t.Display()
}

// DisplayRawRange formats two raw time strings as "start - end".
func DisplayRawRange(start, end string) string {
	return DisplayRaw(start) + " - " + DisplayRaw(end)
}

func splitClock(raw string) (hour, minute int, ok bool) {
	h, m, found := strings.Cut(raw, ":")
	if !found {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return 0, 0, false
	}
	return hour, minute, true
}

func validClock(hour, minute int) bool {
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function into a Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in a fixed civil timezone.
type SystemClock struct {
	Location *time.Location
}

// Now implements Clock.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// LoadLocation resolves an IANA zone name, falling back to UTC when the
// timezone database is unavailable on the host. The second return value
// reports whether the fallback was used.
func LoadLocation(name string) (*time.Location, bool) {
	if name == "" {
		return time.UTC, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, true
	}
	return loc, false
}
