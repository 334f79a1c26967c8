package models

import "strings"

// Assignment is a teacher's claim to teach a subject for a class.
type Assignment struct {
	Class   string `json:"Class" db:"class"`
	Subject string `json:"Subject" db:"subject"`
}

// SameAs reports whether two assignments describe the same class/subject pair.
func (a Assignment) SameAs(other Assignment) bool {
	return a.Class == other.Class && strings.EqualFold(strings.TrimSpace(a.Subject), strings.TrimSpace(other.Subject))
}

// Roster maps a teacher name to the ordered list of assignments on file.
type Roster map[string][]Assignment

// Notification is a reminder ready for delivery to a notification sink.
type Notification struct {
	Teacher string `json:"teacher"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
