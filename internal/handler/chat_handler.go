package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sternfield-timetable/internal/service"
	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
	"github.com/noah-isme/sternfield-timetable/pkg/response"
)

type chatService interface {
	Reply(ctx context.Context, req service.ChatRequest) (*service.ChatReply, error)
}

// ChatHandler serves the timetable assistant.
type ChatHandler struct {
	service chatService
}

// NewChatHandler constructs the handler.
func NewChatHandler(service chatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// Reply godoc
// @Summary Ask the timetable assistant
// @Tags Chat
// @Accept json
// @Produce json
// @Param payload body service.ChatRequest true "Chat message"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /chat [post]
func (h *ChatHandler) Reply(c *gin.Context) {
	var req service.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid chat payload"))
		return
	}
	reply, err := h.service.Reply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reply, nil)
}
