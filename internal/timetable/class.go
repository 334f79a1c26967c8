package timetable

import (
	"sort"
)

// Activity is a class timetable entry with parsed boundaries.
type Activity struct {
	Entry
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// TimeRange renders the activity window in 12-hour form.
func (a Activity) TimeRange() string {
	return DisplayRange(a.Start, a.End)
}

// ClassDay returns every activity of class on day ordered by start time.
// Entries with unreadable times are left out.
func ClassDay(ix *Index, class, day string) []Activity {
	var out []Activity
	for _, e := range ix.EntriesForClass(day, class) {
		a, ok := toActivity(e)
		if !ok {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// ClassAt returns the activities of class on day whose window contains at.
func ClassAt(ix *Index, class, day string, at TimeOfDay) []Activity {
	var out []Activity
	for _, e := range ix.EntriesForClass(day, class) {
		a, ok := toActivity(e)
		if !ok {
			continue
		}
		if a.Start <= at && at < a.End {
			out = append(out, a)
		}
	}
	return out
}

// ClassSubjects lists the distinct subjects class has on day. Composite cells
// contribute each of their parts.
func ClassSubjects(ix *Index, class, day string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, e := range ix.EntriesForClass(day, class) {
		for _, part := range SplitSubject(e.Subject) {
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	sort.Strings(out)
	return out
}

func toActivity(e Entry) (Activity, bool) {
	start, err := ParseTimeOfDay(e.StartTime)
	if err != nil {
		return Activity{}, false
	}
	end, err := ParseTimeOfDay(e.EndTime)
	if err != nil {
		return Activity{}, false
	}
	return Activity{Entry: e, Start: start, End: end}, true
}
