package timetable

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/sternfield-timetable/internal/models"
)

// DefaultReminderLead is how long before a lesson a reminder fires.
const DefaultReminderLead = 5 * time.Minute

// Reminder is a lesson whose reminder window contains the current instant.
type Reminder struct {
	Entry   Entry     `json:"entry"`
	StartAt time.Time `json:"start_at"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// DueReminders returns the teacher's lessons today for which
// start-lead <= now < start. Each entry is checked on its own start time
// rather than through merged day slots; entries with unreadable times are
// ignored.
func DueReminders(ix *Index, assignments []models.Assignment, now time.Time, lead time.Duration) []Reminder {
	if lead <= 0 {
		lead = DefaultReminderLead
	}
	subjects := BuildSubjectIndex(assignments)
	if len(subjects) == 0 {
		return nil
	}

	var due []Reminder
	for _, e := range ix.EntriesForDay(DayName(now)) {
		if !subjects.Matches(e) {
			continue
		}
		start, err := ParseTimeOfDay(e.StartTime)
		if err != nil {
			continue
		}
		startAt := start.On(now)
		remindAt := startAt.Add(-lead)
		if now.Before(remindAt) || !now.Before(startAt) {
			continue
		}
		due = append(due, Reminder{
			Entry:   e,
			StartAt: startAt,
			Title:   fmt.Sprintf("Class Alert (%s)", start.Display()),
			Message: fmt.Sprintf("You have %s with %s starting in %d minutes.",
				strings.TrimSpace(e.Subject), e.Class, int(lead.Minutes())),
		})
	}
	return due
}
