package timetable

import (
	"sort"
	"strings"

	"github.com/noah-isme/sternfield-timetable/internal/models"
)

// Entry is one indexed weekly timetable period. Times keep their raw text;
// they are normalised only when a schedule is built.
type Entry struct {
	Day       string `json:"day"`
	Class     string `json:"class"`
	Subject   string `json:"subject"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Period    string `json:"period,omitempty"`
}

// SkippedRecord describes a source record left out of the index.
type SkippedRecord struct {
	Position int    `json:"position"`
	Reason   string `json:"reason"`
}

// LoadReport summarises how many source records made it into the index.
type LoadReport struct {
	Loaded  int             `json:"loaded"`
	Skipped []SkippedRecord `json:"skipped,omitempty"`
}

// Index is an immutable collection of timetable entries shared by every
// request in the process.
type Index struct {
	entries []Entry
}

// NewIndex builds an index from raw records. Malformed records and records
// missing a day, class, start or end time are skipped and listed in the returned report; time
// strings are not validated here.
func NewIndex(records []models.TimetableRecord) (*Index, LoadReport) {
	report := LoadReport{}
	entries := make([]Entry, 0, len(records))
	for i, rec := range records {
		if reason := missingField(rec); reason != "" {
			report.Skipped = append(report.Skipped, SkippedRecord{Position: i, Reason: reason})
			continue
		}
		entries = append(entries, Entry{
			Day:       NormalizeDay(rec.Day),
			Class:     strings.TrimSpace(rec.Class),
			Subject:   rec.Subject,
			StartTime: strings.TrimSpace(rec.StartTime),
			EndTime:   strings.TrimSpace(rec.EndTime),
			Period:    rec.Period,
		})
	}
	report.Loaded = len(entries)
	return &Index{entries: entries}, report
}

func missingField(rec models.TimetableRecord) string {
	switch {
	case rec.Malformed:
		return "malformed record"
	case strings.TrimSpace(rec.Day) == "":
		return "missing day"
	case strings.TrimSpace(rec.Class) == "":
		return "missing class"
	case strings.TrimSpace(rec.StartTime) == "":
		return "missing start time"
	case strings.TrimSpace(rec.EndTime) == "":
		return "missing end time"
	}
	return ""
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Empty reports whether the index holds no entries.
func (ix *Index) Empty() bool { return ix.Len() == 0 }

// EntriesForDay returns the entries scheduled on day, in source order.
func (ix *Index) EntriesForDay(day string) []Entry {
	if ix == nil {
		return nil
	}
	day = NormalizeDay(day)
	var out []Entry
	for _, e := range ix.entries {
		if e.Day == day {
			out = append(out, e)
		}
	}
	return out
}

// EntriesForClass returns the entries for class on day. Class comparison is
// case-insensitive.
func (ix *Index) EntriesForClass(day, class string) []Entry {
	class = strings.ToUpper(strings.TrimSpace(class))
	var out []Entry
	for _, e := range ix.EntriesForDay(day) {
		if strings.ToUpper(strings.TrimSpace(e.Class)) == class {
			out = append(out, e)
		}
	}
	return out
}

// Classes returns every distinct class name, trimmed and sorted.
func (ix *Index) Classes() []string {
	return ix.distinct(func(e Entry) string { return e.Class })
}

// Subjects returns every distinct subject cell, trimmed and sorted. Composite
// cells such as "ENG/ELT" are kept whole.
func (ix *Index) Subjects() []string {
	return ix.distinct(func(e Entry) string { return e.Subject })
}

// SubjectParts returns every distinct "/"-separated part of the subject cells,
// trimmed and sorted.
func (ix *Index) SubjectParts() []string {
	if ix == nil {
		return nil
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, e := range ix.entries {
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

// HasClass reports whether class appears in the timetable.
func (ix *Index) HasClass(class string) bool {
	return containsFold(ix.Classes(), class)
}

// HasSubject reports whether subject appears as a subject cell.
func (ix *Index) HasSubject(subject string) bool {
	return containsFold(ix.Subjects(), subject)
}

func (ix *Index) distinct(field func(Entry) string) []string {
	if ix == nil {
		return nil
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, e := range ix.entries {
		v := strings.TrimSpace(field(e))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func containsFold(values []string, target string) bool {
	target = strings.TrimSpace(target)
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
