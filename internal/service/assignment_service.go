package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sternfield-timetable/internal/models"
	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
)

type assignmentStore interface {
	ListByTeacher(ctx context.Context, teacher string) ([]models.Assignment, error)
	ListTeachers(ctx context.Context) ([]string, error)
	Replace(ctx context.Context, teacher string, assignments []models.Assignment) error
}

type timetableCatalog interface {
	HasData() bool
	LookupClass(class string) (string, bool)
	LookupSubject(subject string) (string, bool)
}

type scheduleInvalidator interface {
	InvalidateTeacher(ctx context.Context, teacher string)
}

// RegisterAssignmentRequest describes a class/subject a teacher takes on.
type RegisterAssignmentRequest struct {
	Class   string `json:"class" validate:"required"`
	Subject string `json:"subject" validate:"required"`
}

// AssignmentService manages which classes each teacher teaches.
type AssignmentService struct {
	store       assignmentStore
	catalog     timetableCatalog
	invalidator scheduleInvalidator
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService creates a service instance.
func NewAssignmentService(
	store assignmentStore,
	catalog timetableCatalog,
	invalidator scheduleInvalidator,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		store:       store,
		catalog:     catalog,
		invalidator: invalidator,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Teachers returns every registered teacher, sorted.
func (s *AssignmentService) Teachers(ctx context.Context) ([]string, error) {
	start := time.Now()
	teachers, err := s.store.ListTeachers(ctx)
	s.metrics.ObserveStoreOperation("list_teachers", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	if teachers == nil {
		teachers = []string{}
	}
	return teachers, nil
}

// List returns the teacher's assignments in registration order. Unknown
// teachers have none.
func (s *AssignmentService) List(ctx context.Context, teacher string) ([]models.Assignment, error) {
	name, err := s.teacherName(teacher)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, name)
}

// Register appends a class/subject to the teacher's list. Class and subject
// must exist in the timetable and are stored in the timetable's spelling.
func (s *AssignmentService) Register(ctx context.Context, teacher string, req RegisterAssignmentRequest) ([]models.Assignment, error) {
	name, err := s.teacherName(teacher)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Please select both a class and subject.")
	}
	if !s.catalog.HasData() {
		return nil, appErrors.Clone(appErrors.ErrNoTimetableData, "Timetable data not loaded; cannot register.")
	}
	class, ok := s.catalog.LookupClass(req.Class)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("class %q is not in the timetable", req.Class))
	}
	subject, ok := s.catalog.LookupSubject(req.Subject)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("subject %q is not in the timetable", req.Subject))
	}

	current, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	candidate := models.Assignment{Class: class, Subject: subject}
	for _, existing := range current {
		if existing.SameAs(candidate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "This Class/Subject assignment already exists.")
		}
	}

	updated := append(append(make([]models.Assignment, 0, len(current)+1), current...), candidate)
	if err := s.save(ctx, name, updated); err != nil {
		return nil, err
	}
	s.logger.Info("assignment registered", zap.String("teacher", name), zap.String("class", class), zap.String("subject", subject))
	return updated, nil
}

// Remove drops the assignment at index. Removing the last one unregisters
// the teacher.
func (s *AssignmentService) Remove(ctx context.Context, teacher string, index int) ([]models.Assignment, error) {
	name, err := s.teacherName(teacher)
	if err != nil {
		return nil, err
	}
	current, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(current) == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnknownTeacher, fmt.Sprintf("%s has no registered classes", name))
	}
	if index < 0 || index >= len(current) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("assignment %d not found", index))
	}

	updated := make([]models.Assignment, 0, len(current)-1)
	updated = append(updated, current[:index]...)
	updated = append(updated, current[index+1:]...)
	if err := s.save(ctx, name, updated); err != nil {
		return nil, err
	}
	s.logger.Info("assignment removed", zap.String("teacher", name), zap.Int("index", index), zap.Int("remaining", len(updated)))
	return updated, nil
}

func (s *AssignmentService) teacherName(teacher string) (string, error) {
	name := NormalizeTeacherName(teacher)
	if name == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "Please enter your name")
	}
	return name, nil
}

func (s *AssignmentService) load(ctx context.Context, teacher string) ([]models.Assignment, error) {
	start := time.Now()
	list, err := s.store.ListByTeacher(ctx, teacher)
	s.metrics.ObserveStoreOperation("list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	if list == nil {
		list = []models.Assignment{}
	}
	return list, nil
}

func (s *AssignmentService) save(ctx context.Context, teacher string, list []models.Assignment) error {
	start := time.Now()
	err := s.store.Replace(ctx, teacher, list)
	s.metrics.ObserveStoreOperation("replace", time.Since(start))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save assignments")
	}
	if s.invalidator != nil {
		s.invalidator.InvalidateTeacher(ctx, teacher)
	}
	return nil
}
