package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("no timetable data loaded")
	err := Wrap(cause, ErrNoTimetableData.Code, ErrNoTimetableData.Status, ErrNoTimetableData.Message)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "No timetable data loaded.: no timetable data loaded", err.Error())
	assert.True(t, Is(fmt.Errorf("outer: %w", err), ErrNoTimetableData))
	assert.False(t, Is(err, ErrTimeParse))
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	plain := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)

	typed := Clone(ErrUnknownTeacher, "Jane has no registered classes")
	assert.Same(t, typed, FromError(typed))
	assert.Equal(t, "teacher has no registered classes", ErrUnknownTeacher.Message)
}
