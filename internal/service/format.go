package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/sternfield-timetable/internal/timetable"
)

// Plain-text renderings shared by the chat assistant and the CLI.

// FormatCurrent describes the lesson in progress.
func FormatCurrent(res *timetable.Resolution) string {
	if res == nil || res.Current == nil {
		return "You don't have a teaching period right now. You're free!"
	}
	cur := res.Current
	if cur.Multiple {
		return fmt.Sprintf("Your current classes: %s (until %s)", cur.Label, cur.End.Display())
	}
	return fmt.Sprintf("Your current class is **%s** with **%s** (until %s)", cur.Subject, cur.Class, cur.End.Display())
}

// FormatNext describes the next lesson today.
func FormatNext(res *timetable.Resolution) string {
	if res == nil || res.Next == nil {
		return "No more teaching periods scheduled for today!"
	}
	next := res.Next
	if next.Multiple {
		return fmt.Sprintf("Your next classes at %s: %s", next.Start.Display(), next.Label)
	}
	return fmt.Sprintf("Your next class is **%s** with **%s** at %s", next.Subject, next.Class, next.Start.Display())
}

// FormatFree lists the free periods that have not ended yet.
func FormatFree(res *timetable.Resolution) string {
	if res == nil {
		return "No free periods found in your schedule today."
	}
	remaining := res.RemainingFree()
	if len(remaining) == 0 {
		return "No free periods found in your schedule today."
	}
	var b strings.Builder
	b.WriteString("Your free periods today:\n")
	for _, slot := range remaining {
		fmt.Fprintf(&b, "- %s\n", slot.TimeRange())
	}
	return b.String()
}

// FormatDaySchedule renders a teacher's merged day.
func FormatDaySchedule(day string, slots []timetable.Slot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here's your schedule for %s:\n\n", timetable.TitleDay(day))
	for _, slot := range slots {
		switch slot.Type {
		case timetable.SlotTeaching, timetable.SlotBreak:
			fmt.Fprintf(&b, "- %s: %s\n", slot.TimeRange(), slot.Label)
		default:
			fmt.Fprintf(&b, "- %s: Free Period\n", slot.TimeRange())
		}
	}
	return b.String()
}

// FormatClassQuery renders a class lookup at a time or for the whole day.
func FormatClassQuery(res *ClassQueryResult) string {
	if res.At == nil {
		return FormatClassDay(res.Class, res.Day, res.Activities)
	}
	day := timetable.TitleDay(res.Day)
	at := res.At.Display()
	switch len(res.Activities) {
	case 0:
		return fmt.Sprintf("No scheduled activity found for **%s** on **%s** at **%s**.", res.Class, day, at)
	case 1:
		a := res.Activities[0]
		period := a.Period
		if period == "" {
			period = "N/A"
		}
		return fmt.Sprintf("At **%s** on **%s** for **%s**:\n\n**Current Activity:** %s\n**Time:** %s\n**Period:** %s",
			at, day, res.Class, strings.TrimSpace(a.Subject), a.TimeRange(), period)
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "At **%s** on **%s** for **%s**:\n\n**Multiple activities found:**\n", at, day, res.Class)
		for _, a := range res.Activities {
			fmt.Fprintf(&b, "- %s (%s)\n", strings.TrimSpace(a.Subject), a.TimeRange())
		}
		return b.String()
	}
}

// FormatClassDay renders a class's full day.
func FormatClassDay(class, day string, activities []timetable.Activity) string {
	if len(activities) == 0 {
		return fmt.Sprintf("No scheduled activities found for **%s** on **%s**.", class, timetable.TitleDay(day))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**Full Schedule for %s on %s:**\n\n", class, timetable.TitleDay(day))
	for _, a := range activities {
		fmt.Fprintf(&b, "**%s**\n- **Subject:** %s\n", a.TimeRange(), strings.TrimSpace(a.Subject))
		if a.Period != "" {
			fmt.Fprintf(&b, "- **Period:** %s\n", a.Period)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatSubjects renders the numbered subject list of a class.
func FormatSubjects(class, day string, subjects []string) string {
	if len(subjects) == 0 {
		return fmt.Sprintf("No subjects found for **%s** on **%s**.", class, timetable.TitleDay(day))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**Subjects for %s on %s:**\n\n", class, timetable.TitleDay(day))
	for i, s := range subjects {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return b.String()
}
