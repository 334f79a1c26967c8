package timetable

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/sternfield-timetable/internal/models"
)

var (
	// ErrNoTimetableData is returned when the timetable holds no entries at all.
	ErrNoTimetableData = errors.New("no timetable data loaded")
	// ErrNoEntriesForDay is returned when nothing is scheduled on the requested day.
	ErrNoEntriesForDay = errors.New("no timetable entries for that day")
)

// TimeParseError reports a stored timetable time that cannot be normalised.
// One bad boundary invalidates the whole day.
type TimeParseError struct {
	Day   string
	Value string
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("time parsing error in timetable: %s has unreadable time %q", e.Day, e.Value)
}

// SlotType classifies a block of a teacher's day.
type SlotType string

const (
	SlotTeaching SlotType = "TEACHING"
	SlotBreak    SlotType = "BREAK"
	SlotFree     SlotType = "FREE"
)

// breakKeywords mark non-teaching activities shared by the whole school.
var breakKeywords = []string{
	"BREAK", "ASSEMBLY", "CLINIC", "TEA", "LIBRARY", "PRACTICAL",
	"CLUB", "SPORT", "LUNCH", "STUDY", "REMEDIAL",
}

// ClassSubject pairs a class with the subject cell taught to it.
type ClassSubject struct {
	Class   string `json:"class"`
	Subject string `json:"subject"`
}

func (p ClassSubject) String() string {
	return p.Subject + " with " + p.Class
}

// Slot is one window of a teacher's day.
type Slot struct {
	Start    TimeOfDay      `json:"start"`
	End      TimeOfDay      `json:"end"`
	StartRaw string         `json:"start_raw"`
	EndRaw   string         `json:"end_raw"`
	Type     SlotType       `json:"type"`
	Class    string         `json:"class,omitempty"`
	Subject  string         `json:"subject,omitempty"`
	Multiple bool           `json:"multiple,omitempty"`
	Pairs    []ClassSubject `json:"pairs,omitempty"`
	Label    string         `json:"label"`
}

// Contains reports whether at falls inside [Start, End).
func (s Slot) Contains(at TimeOfDay) bool {
	return s.Start <= at && at < s.End
}

// TimeRange renders the slot window in 12-hour form.
func (s Slot) TimeRange() string {
	return DisplayRange(s.Start, s.End)
}

type window struct {
	start, end string
}

// BuildDay merges the day's timetable into one slot per distinct raw
// (start, end) window, classified for the teacher holding assignments.
// Slots are returned sorted by start time.
func BuildDay(ix *Index, assignments []models.Assignment, day string) ([]Slot, error) {
	if ix.Empty() {
		return nil, ErrNoTimetableData
	}
	entries := ix.EntriesForDay(day)
	if len(entries) == 0 {
		return nil, ErrNoEntriesForDay
	}

	// Windows are keyed on raw text: two entries share a slot only when their
	// times are written identically.
	var order []window
	grouped := make(map[window][]Entry)
	for _, e := range entries {
		w := window{start: e.StartTime, end: e.EndTime}
		if _, ok := grouped[w]; !ok {
			order = append(order, w)
		}
		grouped[w] = append(grouped[w], e)
	}

	bounds := make(map[window][2]TimeOfDay, len(order))
	for _, w := range order {
		start, err := ParseTimeOfDay(w.start)
		if err != nil {
			return nil, &TimeParseError{Day: NormalizeDay(day), Value: w.start}
		}
		end, err := ParseTimeOfDay(w.end)
		if err != nil {
			return nil, &TimeParseError{Day: NormalizeDay(day), Value: w.end}
		}
		bounds[w] = [2]TimeOfDay{start, end}
	}

	subjects := BuildSubjectIndex(assignments)
	slots := make([]Slot, 0, len(order))
	for _, w := range order {
		b := bounds[w]
		slot := classify(grouped[w], subjects)
		slot.Start, slot.End = b[0], b[1]
		slot.StartRaw, slot.EndRaw = w.start, w.end
		slots = append(slots, slot)
	}

	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
	return slots, nil
}

func classify(entries []Entry, subjects SubjectIndex) Slot {
	var teaching []ClassSubject
	for _, e := range entries {
		if subjects.Matches(e) {
			teaching = append(teaching, ClassSubject{Class: e.Class, Subject: strings.TrimSpace(e.Subject)})
		}
	}

	switch {
	case len(teaching) == 1:
		return Slot{
			Type:    SlotTeaching,
			Class:   teaching[0].Class,
			Subject: teaching[0].Subject,
			Label:   teaching[0].String(),
		}
	case len(teaching) > 1:
		pairs := dedupePairs(teaching)
		labels := make([]string, len(pairs))
		for i, p := range pairs {
			labels[i] = p.String()
		}
		return Slot{
			Type:     SlotTeaching,
			Multiple: true,
			Pairs:    pairs,
			Label:    strings.Join(labels, ", "),
		}
	}

	for _, e := range entries {
		if isBreak(e.Subject) {
			subject := strings.TrimSpace(e.Subject)
			return Slot{Type: SlotBreak, Subject: subject, Label: subject}
		}
	}
	return Slot{Type: SlotFree, Label: "Free Period"}
}

func dedupePairs(pairs []ClassSubject) []ClassSubject {
	seen := make(map[string]struct{}, len(pairs))
	out := make([]ClassSubject, 0, len(pairs))
	for _, p := range pairs {
		key := p.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func isBreak(subject string) bool {
	subject = strings.ToUpper(subject)
	for _, k := range breakKeywords {
		if strings.Contains(subject, k) {
			return true
		}
	}
	return false
}
