package dto

import (
	"github.com/noah-isme/sternfield-timetable/internal/models"
	"github.com/noah-isme/sternfield-timetable/internal/timetable"
)

// SlotView is a day slot with its window rendered for display.
type SlotView struct {
	timetable.Slot
	TimeRange string `json:"time_range"`
}

// NewSlotViews decorates slots with display ranges.
func NewSlotViews(slots []timetable.Slot) []SlotView {
	out := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotView{Slot: s, TimeRange: s.TimeRange()})
	}
	return out
}

// DayScheduleResponse is a teacher's merged day.
type DayScheduleResponse struct {
	Teacher string     `json:"teacher"`
	Day     string     `json:"day"`
	Slots   []SlotView `json:"slots"`
}

// ResolutionResponse answers what a teacher is doing at an instant.
type ResolutionResponse struct {
	Teacher string     `json:"teacher"`
	Day     string     `json:"day"`
	Instant string     `json:"instant"`
	Current *SlotView  `json:"current,omitempty"`
	Next    *SlotView  `json:"next,omitempty"`
	Free    []SlotView `json:"free"`
	Summary string     `json:"summary"`
}

// NewResolutionResponse builds the response body from a resolution.
func NewResolutionResponse(teacher, day string, res *timetable.Resolution, summary string) ResolutionResponse {
	out := ResolutionResponse{
		Teacher: teacher,
		Day:     day,
		Instant: res.Instant.Display(),
		Free:    NewSlotViews(res.RemainingFree()),
		Summary: summary,
	}
	if res.Current != nil {
		v := SlotView{Slot: *res.Current, TimeRange: res.Current.TimeRange()}
		out.Current = &v
	}
	if res.Next != nil {
		v := SlotView{Slot: *res.Next, TimeRange: res.Next.TimeRange()}
		out.Next = &v
	}
	return out
}

// ActivityView is a class timetable entry with its window rendered.
type ActivityView struct {
	timetable.Activity
	TimeRange string `json:"time_range"`
}

// ClassScheduleResponse lists class activities for a day or an instant.
type ClassScheduleResponse struct {
	Class      string         `json:"class"`
	Day        string         `json:"day"`
	At         string         `json:"at,omitempty"`
	Activities []ActivityView `json:"activities"`
}

// NewClassScheduleResponse converts activities to views.
func NewClassScheduleResponse(class, day string, at *timetable.TimeOfDay, activities []timetable.Activity) ClassScheduleResponse {
	out := ClassScheduleResponse{Class: class, Day: day, Activities: make([]ActivityView, 0, len(activities))}
	if at != nil {
		out.At = at.Display()
	}
	for _, a := range activities {
		out.Activities = append(out.Activities, ActivityView{Activity: a, TimeRange: a.TimeRange()})
	}
	return out
}

// ClassSubjectsResponse lists the subjects a class has on a day.
type ClassSubjectsResponse struct {
	Class    string   `json:"class"`
	Day      string   `json:"day"`
	Subjects []string `json:"subjects"`
}

// AssignmentsResponse is a teacher's ordered assignment list.
type AssignmentsResponse struct {
	Teacher     string              `json:"teacher"`
	Assignments []models.Assignment `json:"assignments"`
}

// StartReminderRequest selects the teacher whose reminders should run.
type StartReminderRequest struct {
	Teacher string `json:"teacher" binding:"required"`
}

// ReadinessResponse reports whether the service can answer queries.
type ReadinessResponse struct {
	Status       string                    `json:"status"`
	Entries      int                       `json:"entries"`
	Skipped      []timetable.SkippedRecord `json:"skipped,omitempty"`
	Dependencies map[string]string         `json:"dependencies"`
}
