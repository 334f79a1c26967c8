package handler

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sternfield-timetable/internal/models"
	"github.com/noah-isme/sternfield-timetable/internal/service"
	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
)

type assignmentServiceMock struct {
	list        []models.Assignment
	err         error
	lastTeacher string
	lastReq     service.RegisterAssignmentRequest
	lastIndex   int
	registered  bool
}

func (m *assignmentServiceMock) Teachers(ctx context.Context) ([]string, error) {
	return []string{"Jane"}, m.err
}

func (m *assignmentServiceMock) List(ctx context.Context, teacher string) ([]models.Assignment, error) {
	m.lastTeacher = teacher
	return m.list, m.err
}

func (m *assignmentServiceMock) Register(ctx context.Context, teacher string, req service.RegisterAssignmentRequest) ([]models.Assignment, error) {
	m.registered = true
	m.lastTeacher, m.lastReq = teacher, req
	return m.list, m.err
}

func (m *assignmentServiceMock) Remove(ctx context.Context, teacher string, index int) ([]models.Assignment, error) {
	m.lastTeacher, m.lastIndex = teacher, index
	return m.list, m.err
}

func TestAssignmentHandlerRegister(t *testing.T) {
	mockSvc := &assignmentServiceMock{list: []models.Assignment{{Class: "FORM 1", Subject: "MATH"}}}
	handler := NewAssignmentHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/teachers/jane/assignments", gin.Params{{Key: "name", Value: "jane"}})
	c.Request, _ = http.NewRequest(http.MethodPost, "/teachers/jane/assignments", bytes.NewBufferString(`{"class":"FORM 1","subject":"MATH"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Jane", mockSvc.lastTeacher)
	assert.Equal(t, service.RegisterAssignmentRequest{Class: "FORM 1", Subject: "MATH"}, mockSvc.lastReq)
	assert.Contains(t, w.Body.String(), `"Class":"FORM 1"`)
}

func TestAssignmentHandlerRegisterInvalidBody(t *testing.T) {
	mockSvc := &assignmentServiceMock{}
	handler := NewAssignmentHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/teachers/jane/assignments", gin.Params{{Key: "name", Value: "jane"}})
	c.Request, _ = http.NewRequest(http.MethodPost, "/teachers/jane/assignments", bytes.NewBufferString(`{"class":`))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Register(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.registered)
}

func TestAssignmentHandlerRegisterConflict(t *testing.T) {
	handler := NewAssignmentHandler(&assignmentServiceMock{err: appErrors.Clone(appErrors.ErrConflict, "This Class/Subject assignment already exists.")})

	c, w := newTestContext(http.MethodPost, "/teachers/jane/assignments", gin.Params{{Key: "name", Value: "jane"}})
	c.Request, _ = http.NewRequest(http.MethodPost, "/teachers/jane/assignments", bytes.NewBufferString(`{"class":"FORM 1","subject":"MATH"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Register(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAssignmentHandlerRemove(t *testing.T) {
	mockSvc := &assignmentServiceMock{list: []models.Assignment{}}
	handler := NewAssignmentHandler(mockSvc)

	c, w := newTestContext(http.MethodDelete, "/teachers/jane/assignments/1", gin.Params{{Key: "name", Value: "jane"}, {Key: "index", Value: "1"}})
	handler.Remove(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, mockSvc.lastIndex)

	c, w = newTestContext(http.MethodDelete, "/teachers/jane/assignments/first", gin.Params{{Key: "name", Value: "jane"}, {Key: "index", Value: "first"}})
	handler.Remove(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentHandlerTeachers(t *testing.T) {
	handler := NewAssignmentHandler(&assignmentServiceMock{})

	c, w := newTestContext(http.MethodGet, "/teachers", nil)
	handler.Teachers(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":["Jane"]`)
}
