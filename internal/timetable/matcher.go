package timetable

import (
	"strings"

	"github.com/noah-isme/sternfield-timetable/internal/models"
)

// SubjectIndex maps a class to the uppercased subject tokens a teacher is
// assigned to teach there. Build a fresh one per resolution; assignments can
// change between calls.
type SubjectIndex map[string]map[string]struct{}

// BuildSubjectIndex derives the per-class subject sets from an assignment list.
// An assigned composite subject such as "ENG/ELT" contributes each of its parts.
func BuildSubjectIndex(assignments []models.Assignment) SubjectIndex {
	idx := make(SubjectIndex, len(assignments))
	for _, a := range assignments {
		class := strings.TrimSpace(a.Class)
		if class == "" {
			continue
		}
		for _, token := range SubjectTokens(a.Subject) {
			if token == "" {
				continue
			}
			set, ok := idx[class]
			if !ok {
				set = make(map[string]struct{})
				idx[class] = set
			}
			set[token] = struct{}{}
		}
	}
	return idx
}

// Matches reports whether the teacher teaches entry: the class must be
// assigned and any "/"-separated part of the subject cell must be one of the
// assigned subjects for that class.
func (s SubjectIndex) Matches(entry Entry) bool {
	subjects, ok := s[entry.Class]
	if !ok {
		return false
	}
	for _, token := range SubjectTokens(entry.Subject) {
		if _, ok := subjects[token]; ok {
			return true
		}
	}
	return false
}

// SubjectTokens splits a subject cell on "/" into trimmed, uppercased parts.
func SubjectTokens(subject string) []string {
	parts := SplitSubject(subject)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p)
	}
	return parts
}

// SplitSubject splits a subject cell on "/" into trimmed parts, keeping case.
// The result always has at least one element.
func SplitSubject(subject string) []string {
	parts := strings.Split(strings.TrimSpace(subject), "/")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
