package timetable

import "sort"

// Resolution answers what a teacher is doing at a given instant.
type Resolution struct {
	Instant TimeOfDay `json:"instant"`
	Current *Slot     `json:"current,omitempty"`
	Next    *Slot     `json:"next,omitempty"`
	Free    []Slot    `json:"free"`
}

// Resolve finds the teaching slot in progress at instant, the first teaching
// slot starting after it, and every free slot of the day.
func Resolve(slots []Slot, instant TimeOfDay) Resolution {
	teaching := make([]Slot, 0, len(slots))
	free := make([]Slot, 0)
	for _, s := range slots {
		switch s.Type {
		case SlotTeaching:
			teaching = append(teaching, s)
		case SlotFree:
			free = append(free, s)
		}
	}
	sort.SliceStable(teaching, func(i, j int) bool { return teaching[i].Start < teaching[j].Start })

	res := Resolution{Instant: instant, Free: free}
	for i := range teaching {
		lesson := teaching[i]
		if lesson.Contains(instant) {
			if res.Current == nil {
				res.Current = &lesson
			}
			continue
		}
		if lesson.Start > instant && res.Next == nil {
			res.Next = &lesson
		}
	}
	return res
}

// RemainingFree returns the free slots that have not ended by the instant.
func (r Resolution) RemainingFree() []Slot {
	out := make([]Slot, 0, len(r.Free))
	for _, s := range r.Free {
		if s.End > r.Instant {
			out = append(out, s)
		}
	}
	return out
}
