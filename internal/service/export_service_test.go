package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sternfield-timetable/pkg/export"
	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
)

type failingRenderer struct{}

func (failingRenderer) Render(export.Dataset) ([]byte, error) { return nil, errors.New("font missing") }
func (failingRenderer) ContentType() string                   { return "application/pdf" }
func (failingRenderer) Extension() string                     { return "pdf" }

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	fx := newTimetableFixture(t, sampleRecords(), janeRoster(), mondayAt(9, 0))
	return NewExportService(fx.svc, zap.NewNop(), nil, nil)
}

func TestExportTeacherDayCSV(t *testing.T) {
	svc := newExportFixture(t)

	file, err := svc.ExportTeacherDay(context.Background(), "jane", "", "CSV")
	require.NoError(t, err)
	assert.Equal(t, "schedule_jane_monday.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	rows, err := csv.NewReader(bytes.NewReader(file.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Time", "Type", "Activity"}, rows[0])
	assert.Equal(t, []string{"8:00 AM - 8:40 AM", "TEACHING", "MATH with FORM 1"}, rows[1])
}

func TestExportClassDayPDF(t *testing.T) {
	svc := newExportFixture(t)

	file, err := svc.ExportClassDay(context.Background(), "form 1", "monday", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "class_form_1_monday.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
}

func TestExportErrors(t *testing.T) {
	ctx := context.Background()
	svc := newExportFixture(t)

	_, err := svc.ExportClassDay(ctx, "FORM 1", "MONDAY", "xlsx")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.ExportTeacherDay(ctx, "Nobody", "MONDAY", "csv")
	assert.True(t, appErrors.Is(err, appErrors.ErrUnknownTeacher))

	fx := newTimetableFixture(t, sampleRecords(), janeRoster(), mondayAt(9, 0))
	broken := NewExportService(fx.svc, nil, nil, failingRenderer{})
	_, err = broken.ExportTeacherDay(ctx, "Jane", "MONDAY", "pdf")
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "na", sanitizeFilename(""))
	assert.Equal(t, "class_form_1-a_monday", sanitizeFilename("class_FORM 1/A_MONDAY"))
	assert.Equal(t, "games_and_sport", sanitizeFilename("Games & Sport"))
}
