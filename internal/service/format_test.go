package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sternfield-timetable/internal/timetable"
)

func slot(kind timetable.SlotType, start, end timetable.TimeOfDay, class, subject string) timetable.Slot {
	label := subject
	if kind == timetable.SlotTeaching {
		label = subject + " with " + class
	}
	if kind == timetable.SlotFree {
		label = "Free Period"
	}
	return timetable.Slot{Type: kind, Start: start, End: end, Class: class, Subject: subject, Label: label}
}

func TestFormatResolution(t *testing.T) {
	math := slot(timetable.SlotTeaching, timetable.NewTimeOfDay(8, 0), timetable.NewTimeOfDay(8, 40), "FORM 1", "MATH")
	res := &timetable.Resolution{Instant: timetable.NewTimeOfDay(8, 10), Current: &math}
	assert.Equal(t, "Your current class is **MATH** with **FORM 1** (until 8:40 AM)", FormatCurrent(res))
	assert.Equal(t, "No more teaching periods scheduled for today!", FormatNext(res))

	res = &timetable.Resolution{Instant: timetable.NewTimeOfDay(7, 0), Next: &math}
	assert.Equal(t, "You don't have a teaching period right now. You're free!", FormatCurrent(res))
	assert.Equal(t, "Your next class is **MATH** with **FORM 1** at 8:00 AM", FormatNext(res))

	both := math
	both.Multiple = true
	both.Label = "MATH with FORM 1, MATH with FORM 2"
	res = &timetable.Resolution{Current: &both}
	assert.Equal(t, "Your current classes: MATH with FORM 1, MATH with FORM 2 (until 8:40 AM)", FormatCurrent(res))
}

func TestFormatFreeSkipsEndedPeriods(t *testing.T) {
	res := &timetable.Resolution{
		Instant: timetable.NewTimeOfDay(9, 30),
		Free: []timetable.Slot{
			slot(timetable.SlotFree, timetable.NewTimeOfDay(8, 40), timetable.NewTimeOfDay(9, 20), "", ""),
			slot(timetable.SlotFree, timetable.NewTimeOfDay(9, 20), timetable.NewTimeOfDay(10, 0), "", ""),
		},
	}
	assert.Equal(t, "Your free periods today:\n- 9:20 AM - 10:00 AM\n", FormatFree(res))
	assert.Equal(t, "No free periods found in your schedule today.", FormatFree(&timetable.Resolution{}))
}

func TestFormatDaySchedule(t *testing.T) {
	out := FormatDaySchedule("MONDAY", []timetable.Slot{
		slot(timetable.SlotTeaching, timetable.NewTimeOfDay(8, 0), timetable.NewTimeOfDay(8, 40), "FORM 1", "MATH"),
		slot(timetable.SlotFree, timetable.NewTimeOfDay(8, 40), timetable.NewTimeOfDay(9, 20), "", ""),
		slot(timetable.SlotBreak, timetable.NewTimeOfDay(10, 0), timetable.NewTimeOfDay(10, 20), "", "BREAK"),
	})
	assert.Equal(t, "Here's your schedule for Monday:\n\n"+
		"- 8:00 AM - 8:40 AM: MATH with FORM 1\n"+
		"- 8:40 AM - 9:20 AM: Free Period\n"+
		"- 10:00 AM - 10:20 AM: BREAK\n", out)
}

func TestFormatClassQuery(t *testing.T) {
	at := timetable.NewTimeOfDay(8, 45)
	eng := timetable.Activity{
		Entry: timetable.Entry{Day: "MONDAY", Class: "FORM 1", Subject: "ENG/ELT", StartTime: "8:40", EndTime: "9:20"},
		Start: timetable.NewTimeOfDay(8, 40),
		End:   timetable.NewTimeOfDay(9, 20),
	}

	out := FormatClassQuery(&ClassQueryResult{Class: "FORM 1", Day: "MONDAY", At: &at, Activities: []timetable.Activity{eng}})
	assert.Contains(t, out, "**Current Activity:** ENG/ELT")
	assert.Contains(t, out, "**Period:** N/A")

	out = FormatClassQuery(&ClassQueryResult{Class: "FORM 1", Day: "MONDAY", At: &at})
	assert.Equal(t, "No scheduled activity found for **FORM 1** on **Monday** at **8:45 AM**.", out)

	out = FormatClassQuery(&ClassQueryResult{Class: "FORM 1", Day: "MONDAY", Activities: []timetable.Activity{eng}})
	assert.Contains(t, out, "**Full Schedule for FORM 1 on Monday:**")
}
