package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sternfield-timetable/internal/dto"
	"github.com/noah-isme/sternfield-timetable/internal/service"
	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
	"github.com/noah-isme/sternfield-timetable/pkg/response"
)

type reminderManager interface {
	Start(ctx context.Context, teacher string) (service.ReminderStatus, error)
	Stop() service.ReminderStatus
	Status() service.ReminderStatus
}

// ReminderHandler controls the background lesson reminder task.
type ReminderHandler struct {
	manager reminderManager
}

// NewReminderHandler constructs the handler.
func NewReminderHandler(manager reminderManager) *ReminderHandler {
	return &ReminderHandler{manager: manager}
}

// Status godoc
// @Summary Reminder task status
// @Tags Reminders
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reminders [get]
func (h *ReminderHandler) Status(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.manager.Status(), nil)
}

// Start godoc
// @Summary Start reminders for a teacher
// @Description Replaces any reminder task already running.
// @Tags Reminders
// @Accept json
// @Produce json
// @Param payload body dto.StartReminderRequest true "Teacher"
// @Success 202 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reminders [post]
func (h *ReminderHandler) Start(c *gin.Context) {
	var req dto.StartReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reminder payload"))
		return
	}
	status, err := h.manager.Start(c.Request.Context(), req.Teacher)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, status, nil)
}

// Stop godoc
// @Summary Stop the running reminder task
// @Tags Reminders
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reminders [delete]
func (h *ReminderHandler) Stop(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.manager.Stop(), nil)
}
