package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/sternfield-timetable/internal/models"
	"github.com/noah-isme/sternfield-timetable/internal/timetable"
	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
)

const scheduleCachePrefix = "timetable:schedule:"

type timetableSource interface {
	Load(ctx context.Context) ([]models.TimetableRecord, error)
}

type assignmentReader interface {
	ListByTeacher(ctx context.Context, teacher string) ([]models.Assignment, error)
}

type loadedTimetable struct {
	index  *timetable.Index
	report timetable.LoadReport
}

// ClassQueryResult answers a class lookup. At is nil for full-day queries.
type ClassQueryResult struct {
	Class      string               `json:"class"`
	Day        string               `json:"day"`
	At         *timetable.TimeOfDay `json:"at,omitempty"`
	Activities []timetable.Activity `json:"activities"`
}

// TimetableService answers schedule questions for teachers and classes.
type TimetableService struct {
	source      timetableSource
	assignments assignmentReader
	cache       *CacheService
	cacheTTL    time.Duration
	metrics     *MetricsService
	clock       timetable.Clock
	logger      *zap.Logger

	current atomic.Pointer[loadedTimetable]
	builds  singleflight.Group
}

// NewTimetableService constructs the service. Call Load before serving.
func NewTimetableService(
	source timetableSource,
	assignments assignmentReader,
	cache *CacheService,
	cacheTTL time.Duration,
	metrics *MetricsService,
	clock timetable.Clock,
	logger *zap.Logger,
) *TimetableService {
	if clock == nil {
		clock = timetable.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &TimetableService{
		source:      source,
		assignments: assignments,
		cache:       cache,
		cacheTTL:    cacheTTL,
		metrics:     metrics,
		clock:       clock,
		logger:      logger,
	}
	empty, _ := timetable.NewIndex(nil)
	s.current.Store(&loadedTimetable{index: empty})
	return s
}

// Load reads the timetable source and swaps in a fresh index. An unreadable
// source leaves the service with an empty timetable.
func (s *TimetableService) Load(ctx context.Context) timetable.LoadReport {
	records, err := s.source.Load(ctx)
	if err != nil {
		s.logger.Warn("timetable unreadable, continuing with an empty timetable", zap.Error(err))
		records = nil
	}

	ix, report := timetable.NewIndex(records)
	for _, skipped := range report.Skipped {
		s.logger.Warn("skipping timetable record",
			zap.Int("position", skipped.Position),
			zap.String("reason", skipped.Reason),
		)
	}
	if ix.Empty() {
		s.logger.Warn("timetable has no entries")
	} else {
		s.logger.Info("timetable loaded", zap.Int("entries", report.Loaded), zap.Int("skipped", len(report.Skipped)))
	}

	s.current.Store(&loadedTimetable{index: ix, report: report})
	s.metrics.SetTimetableSize(ix.Len())
	s.cache.Invalidate(ctx, scheduleCachePrefix+"*")
	return report
}

// Report returns the outcome of the last Load.
func (s *TimetableService) Report() timetable.LoadReport {
	return s.current.Load().report
}

func (s *TimetableService) index() *timetable.Index {
	return s.current.Load().index
}

// Now returns the current instant in the school's timezone.
func (s *TimetableService) Now() time.Time {
	return s.clock.Now()
}

// Today returns the uppercased weekday name for the current instant.
func (s *TimetableService) Today() string {
	return timetable.DayName(s.clock.Now())
}

// Classes lists every class in the timetable.
func (s *TimetableService) Classes() []string {
	return s.index().Classes()
}

// Subjects lists every subject cell in the timetable.
func (s *TimetableService) Subjects() []string {
	return s.index().Subjects()
}

// HasData reports whether any timetable entry is loaded.
func (s *TimetableService) HasData() bool {
	return !s.index().Empty()
}

// LookupClass returns the timetable's spelling of class.
func (s *TimetableService) LookupClass(class string) (string, bool) {
	return lookupFold(s.index().Classes(), class)
}

// LookupSubject returns the timetable's spelling of subject. Both whole cells
// ("ENG/ELT") and their parts ("ELT") are accepted.
func (s *TimetableService) LookupSubject(subject string) (string, bool) {
	ix := s.index()
	if v, ok := lookupFold(ix.Subjects(), subject); ok {
		return v, true
	}
	return lookupFold(ix.SubjectParts(), subject)
}

// BuildDaySchedule returns the teacher's merged schedule for day; an empty
// day means today.
func (s *TimetableService) BuildDaySchedule(ctx context.Context, teacher, day string) ([]timetable.Slot, error) {
	if s.index().Empty() {
		return nil, s.fail(noTimetableData())
	}
	teacher = NormalizeTeacherName(teacher)
	assignments, err := s.teacherAssignments(ctx, teacher)
	if err != nil {
		return nil, s.fail(err)
	}
	return s.schedule(ctx, teacher, s.dayOrToday(day), assignments)
}

// ResolveInstant reports the teacher's current lesson, next lesson and free
// periods at timeString on day. Empty arguments mean today and now.
func (s *TimetableService) ResolveInstant(ctx context.Context, teacher, day, timeString string) (*timetable.Resolution, error) {
	if s.index().Empty() {
		return nil, s.fail(noTimetableData())
	}
	teacher = NormalizeTeacherName(teacher)
	assignments, err := s.teacherAssignments(ctx, teacher)
	if err != nil {
		return nil, s.fail(err)
	}
	instant, err := s.instant(timeString)
	if err != nil {
		return nil, s.fail(err)
	}

	slots, err := s.schedule(ctx, teacher, s.dayOrToday(day), assignments)
	if err != nil {
		return nil, err
	}
	res := timetable.Resolve(slots, instant)
	return &res, nil
}

// QueryClassAtTime returns the class activities in progress at timeString on
// day, or the whole day when timeString is empty.
func (s *TimetableService) QueryClassAtTime(ctx context.Context, class, day, timeString string) (*ClassQueryResult, error) {
	class, day = strings.TrimSpace(class), strings.TrimSpace(day)
	if class == "" || day == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Please select a Class and Day to check the schedule.")
	}
	if strings.TrimSpace(timeString) == "" {
		activities, err := s.ClassDaySchedule(ctx, class, day)
		if err != nil {
			return nil, err
		}
		return &ClassQueryResult{Class: class, Day: timetable.NormalizeDay(day), Activities: activities}, nil
	}

	at, err := timetable.ParseTimeOfDay(timeString)
	if err != nil {
		return nil, s.fail(invalidTime(timeString, err))
	}
	activities := timetable.ClassAt(s.index(), class, day, at)
	if activities == nil {
		activities = []timetable.Activity{}
	}
	return &ClassQueryResult{Class: class, Day: timetable.NormalizeDay(day), At: &at, Activities: activities}, nil
}

// ClassDaySchedule returns every activity of class on day in time order.
func (s *TimetableService) ClassDaySchedule(ctx context.Context, class, day string) ([]timetable.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	class, day = strings.TrimSpace(class), strings.TrimSpace(day)
	if class == "" || day == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Please select a Class and Day.")
	}
	activities := timetable.ClassDay(s.index(), class, day)
	if activities == nil {
		activities = []timetable.Activity{}
	}
	return activities, nil
}

// ListSubjects returns the distinct subjects class has on day.
func (s *TimetableService) ListSubjects(ctx context.Context, class, day string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	class, day = strings.TrimSpace(class), strings.TrimSpace(day)
	if class == "" || day == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Please select a Class and Day.")
	}
	return timetable.ClassSubjects(s.index(), class, day), nil
}

// DueReminders returns the teacher's lessons whose reminder window contains
// now. Assignments are read fresh on every call.
func (s *TimetableService) DueReminders(ctx context.Context, teacher string, now time.Time, lead time.Duration) ([]timetable.Reminder, error) {
	assignments, err := s.assignments.ListByTeacher(ctx, NormalizeTeacherName(teacher))
	if err != nil {
		return nil, fmt.Errorf("load assignments for reminders: %w", err)
	}
	return timetable.DueReminders(s.index(), assignments, now, lead), nil
}

// InvalidateTeacher drops every cached schedule for teacher.
func (s *TimetableService) InvalidateTeacher(ctx context.Context, teacher string) {
	s.cache.Invalidate(ctx, teacherCachePrefix(NormalizeTeacherName(teacher))+"*")
}

func (s *TimetableService) schedule(ctx context.Context, teacher, day string, assignments []models.Assignment) ([]timetable.Slot, error) {
	key := teacherCachePrefix(teacher) + day + ":" + fingerprint(assignments)

	var cached []timetable.Slot
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	v, err, _ := s.builds.Do(key, func() (interface{}, error) {
		start := time.Now()
		slots, err := timetable.BuildDay(s.index(), assignments, day)
		if err != nil {
			mapped := engineError(err)
			s.metrics.ObserveScheduleBuild(mapped.Code, time.Since(start))
			return nil, mapped
		}
		s.metrics.ObserveScheduleBuild("", time.Since(start))
		s.cache.Set(ctx, key, slots, s.cacheTTL)
		return slots, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]timetable.Slot), nil
}

func (s *TimetableService) teacherAssignments(ctx context.Context, teacher string) ([]models.Assignment, error) {
	if teacher == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher name is required")
	}
	start := time.Now()
	assignments, err := s.assignments.ListByTeacher(ctx, teacher)
	s.metrics.ObserveStoreOperation("list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher assignments")
	}
	if len(assignments) == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnknownTeacher, fmt.Sprintf("I don't have teaching assignments for %s yet. Please register first.", teacher))
	}
	return assignments, nil
}

func (s *TimetableService) instant(timeString string) (timetable.TimeOfDay, error) {
	if strings.TrimSpace(timeString) == "" {
		return timetable.FromTime(s.clock.Now()), nil
	}
	at, err := timetable.ParseTimeOfDay(timeString)
	if err != nil {
		return 0, invalidTime(timeString, err)
	}
	return at, nil
}

func (s *TimetableService) dayOrToday(day string) string {
	if strings.TrimSpace(day) == "" {
		return s.Today()
	}
	return timetable.NormalizeDay(day)
}

// fail counts lookup errors that never reached the builder.
func (s *TimetableService) fail(err error) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		s.metrics.RecordLookupError(appErr.Code)
	}
	return err
}

// engineError maps builder failures onto typed API errors, keeping the cause.
func engineError(err error) *appErrors.Error {
	var parseErr *timetable.TimeParseError
	switch {
	case errors.Is(err, timetable.ErrNoTimetableData):
		return appErrors.Wrap(err, appErrors.ErrNoTimetableData.Code, appErrors.ErrNoTimetableData.Status, appErrors.ErrNoTimetableData.Message)
	case errors.Is(err, timetable.ErrNoEntriesForDay):
		return appErrors.Wrap(err, appErrors.ErrNoEntriesForDay.Code, appErrors.ErrNoEntriesForDay.Status, appErrors.ErrNoEntriesForDay.Message)
	case errors.As(err, &parseErr):
		return appErrors.Wrap(err, appErrors.ErrTimeParse.Code, appErrors.ErrTimeParse.Status,
			fmt.Sprintf("Time parsing error in timetable: %s has an unreadable time %q.", timetable.TitleDay(parseErr.Day), parseErr.Value))
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build schedule")
	}
}

func noTimetableData() *appErrors.Error {
	return engineError(timetable.ErrNoTimetableData)
}

func invalidTime(raw string, err error) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrInvalidTimeFormat.Code, appErrors.ErrInvalidTimeFormat.Status,
		fmt.Sprintf("Invalid time format %q. Please use HH:MM (e.g., 09:45).", raw))
}

// NormalizeTeacherName trims and title-cases a teacher name so registrations
// and lookups agree on one spelling.
func NormalizeTeacherName(name string) string {
	return timetable.TitleCase(name)
}

func teacherCachePrefix(teacher string) string {
	return scheduleCachePrefix + strings.ToLower(teacher) + ":"
}

// fingerprint identifies an assignment list so a cached schedule is never
// served for a different set of classes.
func fingerprint(assignments []models.Assignment) string {
	h := fnv.New64a()
	for _, a := range assignments {
		_, _ = h.Write([]byte(a.Class))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(a.Subject))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func lookupFold(values []string, target string) (string, bool) {
	target = strings.TrimSpace(target)
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return v, true
		}
	}
	return "", false
}
