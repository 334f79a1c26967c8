package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sternfield-timetable/internal/service"
	"github.com/noah-isme/sternfield-timetable/pkg/response"
)

type exportService interface {
	ExportTeacherDay(ctx context.Context, teacher, day, format string) (*service.ExportFile, error)
	ExportClassDay(ctx context.Context, class, day, format string) (*service.ExportFile, error)
}

// ExportHandler streams schedules as CSV or PDF downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// TeacherSchedule godoc
// @Summary Download a teacher day schedule
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param name path string true "Teacher name"
// @Param day query string false "Day name (defaults to today)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /teachers/{name}/schedule/export [get]
func (h *ExportHandler) TeacherSchedule(c *gin.Context) {
	file, err := h.service.ExportTeacherDay(c.Request.Context(), c.Param("name"), c.Query("day"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// ClassSchedule godoc
// @Summary Download a class day timetable
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param class path string true "Class name"
// @Param day query string true "Day name"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /classes/{class}/schedule/export [get]
func (h *ExportHandler) ClassSchedule(c *gin.Context) {
	file, err := h.service.ExportClassDay(c.Request.Context(), c.Param("class"), c.Query("day"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
