package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sternfield-timetable/internal/dto"
	"github.com/noah-isme/sternfield-timetable/internal/models"
	"github.com/noah-isme/sternfield-timetable/internal/service"
	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
	"github.com/noah-isme/sternfield-timetable/pkg/response"
)

type assignmentService interface {
	Teachers(ctx context.Context) ([]string, error)
	List(ctx context.Context, teacher string) ([]models.Assignment, error)
	Register(ctx context.Context, teacher string, req service.RegisterAssignmentRequest) ([]models.Assignment, error)
	Remove(ctx context.Context, teacher string, index int) ([]models.Assignment, error)
}

// AssignmentHandler manages teacher class/subject registrations.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(service assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// Teachers godoc
// @Summary List registered teachers
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *AssignmentHandler) Teachers(c *gin.Context) {
	teachers, err := h.service.Teachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, map[string]interface{}{"total": len(teachers)})
}

// List godoc
// @Summary List a teacher's assignments
// @Tags Teachers
// @Produce json
// @Param name path string true "Teacher name"
// @Success 200 {object} response.Envelope
// @Router /teachers/{name}/assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	teacher := teacherParam(c)
	list, err := h.service.List(c.Request.Context(), teacher)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.AssignmentsResponse{Teacher: teacher, Assignments: list}, nil)
}

// Register godoc
// @Summary Register a class/subject for a teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param name path string true "Teacher name"
// @Param payload body service.RegisterAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teachers/{name}/assignments [post]
func (h *AssignmentHandler) Register(c *gin.Context) {
	var req service.RegisterAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	teacher := teacherParam(c)
	list, err := h.service.Register(c.Request.Context(), teacher, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.AssignmentsResponse{Teacher: teacher, Assignments: list})
}

// Remove godoc
// @Summary Remove a teacher's assignment by position
// @Tags Teachers
// @Produce json
// @Param name path string true "Teacher name"
// @Param index path int true "Zero-based position"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{name}/assignments/{index} [delete]
func (h *AssignmentHandler) Remove(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "assignment index must be a number"))
		return
	}
	teacher := teacherParam(c)
	list, err := h.service.Remove(c.Request.Context(), teacher, index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.AssignmentsResponse{Teacher: teacher, Assignments: list}, nil)
}
