package timetable

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SchoolDays lists the weekdays the timetable covers, in order.
var SchoolDays = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}

// NormalizeDay trims and uppercases a day name for comparison.
func NormalizeDay(day string) string {
	return strings.ToUpper(strings.TrimSpace(day))
}

// DayName returns the uppercased English weekday of t.
func DayName(t time.Time) string {
	return strings.ToUpper(t.Weekday().String())
}

// IsSchoolDay reports whether day is Monday through Friday.
func IsSchoolDay(day string) bool {
	day = NormalizeDay(day)
	for _, d := range SchoolDays {
		if d == day {
			return true
		}
	}
	return false
}

// TitleDay renders a day name for display ("MONDAY" -> "Monday").
func TitleDay(day string) string {
	return TitleCase(day)
}

// TitleCase trims s and capitalises each word ("jane  ODHIAMBO" -> "Jane  Odhiambo").
// Casers carry state, so each call gets its own.
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(s)))
}
