package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sternfield-timetable/internal/dto"
	"github.com/noah-isme/sternfield-timetable/internal/service"
	"github.com/noah-isme/sternfield-timetable/internal/timetable"
	"github.com/noah-isme/sternfield-timetable/pkg/response"
)

type timetableQueries interface {
	Classes() []string
	Subjects() []string
	Today() string
	BuildDaySchedule(ctx context.Context, teacher, day string) ([]timetable.Slot, error)
	ResolveInstant(ctx context.Context, teacher, day, timeString string) (*timetable.Resolution, error)
	QueryClassAtTime(ctx context.Context, class, day, timeString string) (*service.ClassQueryResult, error)
	ListSubjects(ctx context.Context, class, day string) ([]string, error)
}

// TimetableHandler exposes timetable lookups for teachers and classes.
type TimetableHandler struct {
	service timetableQueries
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(service timetableQueries) *TimetableHandler {
	return &TimetableHandler{service: service}
}

// Classes godoc
// @Summary List classes in the timetable
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/classes [get]
func (h *TimetableHandler) Classes(c *gin.Context) {
	classes := h.service.Classes()
	response.JSON(c, http.StatusOK, classes, map[string]interface{}{"total": len(classes)})
}

// Subjects godoc
// @Summary List subject cells in the timetable
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/subjects [get]
func (h *TimetableHandler) Subjects(c *gin.Context) {
	subjects := h.service.Subjects()
	response.JSON(c, http.StatusOK, subjects, map[string]interface{}{"total": len(subjects)})
}

// TeacherSchedule godoc
// @Summary Teacher day schedule
// @Tags Teachers
// @Produce json
// @Param name path string true "Teacher name"
// @Param day query string false "Day name (defaults to today)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{name}/schedule [get]
func (h *TimetableHandler) TeacherSchedule(c *gin.Context) {
	teacher := teacherParam(c)
	day := h.day(c)
	slots, err := h.service.BuildDaySchedule(c.Request.Context(), teacher, day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.DayScheduleResponse{Teacher: teacher, Day: day, Slots: dto.NewSlotViews(slots)}, nil)
}

// Resolve godoc
// @Summary Current lesson, next lesson and free periods
// @Tags Teachers
// @Produce json
// @Param name path string true "Teacher name"
// @Param day query string false "Day name (defaults to today)"
// @Param time query string false "HH:MM (defaults to now)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /teachers/{name}/resolve [get]
func (h *TimetableHandler) Resolve(c *gin.Context) {
	teacher := teacherParam(c)
	day := h.day(c)
	res, err := h.service.ResolveInstant(c.Request.Context(), teacher, day, c.Query("time"))
	if err != nil {
		response.Error(c, err)
		return
	}
	summary := service.FormatCurrent(res) + "\n" + service.FormatNext(res)
	response.JSON(c, http.StatusOK, dto.NewResolutionResponse(teacher, day, res, summary), nil)
}

// ClassSchedule godoc
// @Summary Class activities at a time, or the whole day
// @Tags Classes
// @Produce json
// @Param class path string true "Class name"
// @Param day query string true "Day name"
// @Param time query string false "HH:MM; omitted returns the full day"
// @Success 200 {object} response.Envelope
// @Router /classes/{class}/schedule [get]
func (h *TimetableHandler) ClassSchedule(c *gin.Context) {
	result, err := h.service.QueryClassAtTime(c.Request.Context(), c.Param("class"), c.Query("day"), c.Query("time"))
	if err != nil {
		response.Error(c, err)
		return
	}
	body := dto.NewClassScheduleResponse(result.Class, result.Day, result.At, result.Activities)
	response.JSON(c, http.StatusOK, body, map[string]interface{}{"summary": service.FormatClassQuery(result)})
}

// ClassSubjects godoc
// @Summary Distinct subjects of a class on a day
// @Tags Classes
// @Produce json
// @Param class path string true "Class name"
// @Param day query string true "Day name"
// @Success 200 {object} response.Envelope
// @Router /classes/{class}/subjects [get]
func (h *TimetableHandler) ClassSubjects(c *gin.Context) {
	class, day := c.Param("class"), c.Query("day")
	subjects, err := h.service.ListSubjects(c.Request.Context(), class, day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ClassSubjectsResponse{
		Class:    strings.TrimSpace(class),
		Day:      timetable.NormalizeDay(day),
		Subjects: subjects,
	}, nil)
}

func (h *TimetableHandler) day(c *gin.Context) string {
	if day := strings.TrimSpace(c.Query("day")); day != "" {
		return timetable.NormalizeDay(day)
	}
	return h.service.Today()
}
