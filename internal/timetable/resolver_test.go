package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sternfield-timetable/internal/models"
)

func resolveAt(t *testing.T, ix *Index, assignments []models.Assignment, day, at string) Resolution {
	t.Helper()
	slots, err := BuildDay(ix, assignments, day)
	require.NoError(t, err)
	instant, err := ParseTimeOfDay(at)
	require.NoError(t, err)
	return Resolve(slots, instant)
}

func TestResolveCurrentLesson(t *testing.T) {
	ix, _ := NewIndex([]models.TimetableRecord{
		record("MONDAY", "FORM 1", "MATH", "8:00", "8:40"),
	})
	jane := []models.Assignment{{Class: "FORM 1", Subject: "MATH"}}

	res := resolveAt(t, ix, jane, "MONDAY", "08:10")
	require.NotNil(t, res.Current)
	assert.Equal(t, SlotTeaching, res.Current.Type)
	assert.Equal(t, "MATH", res.Current.Subject)
	assert.Equal(t, "FORM 1", res.Current.Class)
	assert.Equal(t, "8:40 AM", res.Current.End.Display())
	assert.Nil(t, res.Next)
}

func TestResolveAfternoonInstantIsFree(t *testing.T) {
	ix, _ := NewIndex([]models.TimetableRecord{
		record("MONDAY", "FORM 1", "MATH", "8:00", "8:40"),
	})
	jane := []models.Assignment{{Class: "FORM 1", Subject: "MATH"}}

	res := resolveAt(t, ix, jane, "MONDAY", "2:30")
	assert.Equal(t, NewTimeOfDay(14, 30), res.Instant)
	assert.Nil(t, res.Current)
	assert.Nil(t, res.Next)
	assert.Empty(t, res.RemainingFree())
}

func TestResolveNextLesson(t *testing.T) {
	ix := sampleIndex(t)
	form2 := []models.Assignment{{Class: "FORM 2", Subject: "MATH"}}

	res := resolveAt(t, ix, form2, "MONDAY", "8:10")
	assert.Nil(t, res.Current, "FORM 2 has ENG/ELT at 8:00")
	require.NotNil(t, res.Next)
	assert.Equal(t, "8:40 AM - 9:20 AM", res.Next.TimeRange())

	// Boundary: the end of a slot belongs to the next one.
	res = resolveAt(t, ix, form2, "MONDAY", "9:20")
	assert.Nil(t, res.Current)
	assert.Nil(t, res.Next)
}

func TestResolveCurrentAgreesWithScan(t *testing.T) {
	ix := sampleIndex(t)
	assignments := []models.Assignment{{Class: "FORM 1", Subject: "MATH"}, {Class: "FORM 1", Subject: "CHEM"}}
	slots, err := BuildDay(ix, assignments, "MONDAY")
	require.NoError(t, err)

	for minute := NewTimeOfDay(7, 0); minute < NewTimeOfDay(17, 0); minute += 5 {
		res := Resolve(slots, minute)
		var scanned *Slot
		for i := range slots {
			if slots[i].Type == SlotTeaching && slots[i].Contains(minute) {
				scanned = &slots[i]
				break
			}
		}
		if scanned == nil {
			assert.Nil(t, res.Current, "at %s", minute)
			continue
		}
		require.NotNil(t, res.Current, "at %s", minute)
		assert.Equal(t, scanned.Start, res.Current.Start)
		assert.Equal(t, scanned.Label, res.Current.Label)
	}
}

func TestRemainingFree(t *testing.T) {
	ix := sampleIndex(t)
	res := resolveAt(t, ix, []models.Assignment{{Class: "FORM 1", Subject: "MATH"}}, "MONDAY", "9:30")
	assert.Len(t, res.Free, 3)
	remaining := res.RemainingFree()
	require.Len(t, remaining, 2)
	assert.Equal(t, NewTimeOfDay(9, 20), remaining[0].Start)
}
