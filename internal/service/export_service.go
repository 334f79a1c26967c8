package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sternfield-timetable/internal/timetable"
	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
	"github.com/noah-isme/sternfield-timetable/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

type scheduleSource interface {
	BuildDaySchedule(ctx context.Context, teacher, day string) ([]timetable.Slot, error)
	ClassDaySchedule(ctx context.Context, class, day string) ([]timetable.Activity, error)
	Today() string
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders day schedules as CSV or PDF documents.
type ExportService struct {
	schedules scheduleSource
	renderers map[string]renderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(schedules scheduleSource, logger *zap.Logger, csv, pdf renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		schedules: schedules,
		renderers: map[string]renderer{ExportFormatCSV: csv, ExportFormatPDF: pdf},
		logger:    logger,
	}
}

// ExportTeacherDay renders the teacher's merged day schedule.
func (s *ExportService) ExportTeacherDay(ctx context.Context, teacher, day, format string) (*ExportFile, error) {
	r, err := s.renderer(format)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(day) == "" {
		day = s.schedules.Today()
	}
	day = timetable.NormalizeDay(day)
	slots, err := s.schedules.BuildDaySchedule(ctx, teacher, day)
	if err != nil {
		return nil, err
	}

	teacher = NormalizeTeacherName(teacher)
	rows := make([][]string, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, []string{slot.TimeRange(), string(slot.Type), slot.Label})
	}
	dataset := export.Dataset{
		Title:    fmt.Sprintf("%s - %s", teacher, timetable.TitleDay(day)),
		Subtitle: "Sternfield College teaching schedule",
		Headers:  []string{"Time", "Type", "Activity"},
		Rows:     rows,
	}
	return s.render(r, dataset, "schedule_"+teacher+"_"+day)
}

// ExportClassDay renders every activity of class on day; an empty day means
// today.
func (s *ExportService) ExportClassDay(ctx context.Context, class, day, format string) (*ExportFile, error) {
	r, err := s.renderer(format)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(day) == "" {
		day = s.schedules.Today()
	}
	activities, err := s.schedules.ClassDaySchedule(ctx, class, day)
	if err != nil {
		return nil, err
	}

	class, day = strings.ToUpper(strings.TrimSpace(class)), timetable.NormalizeDay(day)
	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, []string{a.TimeRange(), strings.TrimSpace(a.Subject), a.Period})
	}
	dataset := export.Dataset{
		Title:    fmt.Sprintf("%s - %s", class, timetable.TitleDay(day)),
		Subtitle: "Sternfield College class timetable",
		Headers:  []string{"Time", "Subject", "Period"},
		Rows:     rows,
	}
	return s.render(r, dataset, "class_"+class+"_"+day)
}

func (s *ExportService) renderer(format string) (renderer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	return r, nil
}

func (s *ExportService) render(r renderer, dataset export.Dataset, name string) (*ExportFile, error) {
	body, err := r.Render(dataset)
	if err != nil {
		s.logger.Error("render export", zap.String("name", name), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    sanitizeFilename(name) + "." + r.Extension(),
		ContentType: r.ContentType(),
		Body:        body,
	}, nil
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_", "&", "and")
	result := strings.ToLower(replacer.Replace(raw))
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
