package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sternfield-timetable/internal/models"
	"github.com/noah-isme/sternfield-timetable/internal/timetable"
	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
)

type recordingInvalidator struct {
	teachers []string
}

func (r *recordingInvalidator) InvalidateTeacher(ctx context.Context, teacher string) {
	r.teachers = append(r.teachers, teacher)
}

func newAssignmentFixture(t *testing.T, roster models.Roster) (*AssignmentService, *memoryAssignments, *recordingInvalidator) {
	t.Helper()
	fx := newTimetableFixture(t, sampleRecords(), nil, mondayAt(9, 0))
	store := newMemoryAssignments(roster)
	inv := &recordingInvalidator{}
	return NewAssignmentService(store, fx.svc, inv, nil, nil, zap.NewNop()), store, inv
}

func TestAssignmentServiceRegister(t *testing.T) {
	svc, store, inv := newAssignmentFixture(t, nil)

	list, err := svc.Register(context.Background(), "  jane doe ", RegisterAssignmentRequest{Class: "form 1", Subject: "math"})
	require.NoError(t, err)
	assert.Equal(t, []models.Assignment{{Class: "FORM 1", Subject: "MATH"}}, list)
	assert.Equal(t, list, store.roster["Jane Doe"], "stored under the title-cased name in timetable spelling")
	assert.Equal(t, []string{"Jane Doe"}, inv.teachers)

	list, err = svc.Register(context.Background(), "Jane Doe", RegisterAssignmentRequest{Class: "FORM 2", Subject: "ENG/ELT"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "ENG/ELT", list[1].Subject)
}

func TestAssignmentServiceRegisterSubjectPartTeaches(t *testing.T) {
	ctx := context.Background()
	fx := newTimetableFixture(t, sampleRecords(), nil, mondayAt(9, 0))
	svc := NewAssignmentService(fx.assignments, fx.svc, &recordingInvalidator{}, nil, nil, zap.NewNop())

	list, err := svc.Register(ctx, "jane doe", RegisterAssignmentRequest{Class: "form 2", Subject: "elt"})
	require.NoError(t, err)
	assert.Equal(t, []models.Assignment{{Class: "FORM 2", Subject: "ELT"}}, list)

	slots, err := fx.svc.BuildDaySchedule(ctx, "Jane Doe", "MONDAY")
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, timetable.SlotTeaching, slots[0].Type)
	assert.Equal(t, "FORM 2", slots[0].Class)
	assert.Equal(t, "ENG/ELT", slots[0].Subject)

	_, err = svc.Register(ctx, "Jane Doe", RegisterAssignmentRequest{Class: "FORM 2", Subject: "BIO"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestAssignmentServiceRegisterRejectsDuplicates(t *testing.T) {
	svc, store, _ := newAssignmentFixture(t, models.Roster{"Jane": {{Class: "FORM 1", Subject: "MATH"}}})

	_, err := svc.Register(context.Background(), "Jane", RegisterAssignmentRequest{Class: "FORM 1", Subject: "Math"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
	assert.Equal(t, "This Class/Subject assignment already exists.", appErrors.FromError(err).Message)
	assert.Zero(t, store.replaced)
}

func TestAssignmentServiceRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAssignmentFixture(t, nil)

	_, err := svc.Register(ctx, "", RegisterAssignmentRequest{Class: "FORM 1", Subject: "MATH"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Register(ctx, "Jane", RegisterAssignmentRequest{Class: "FORM 1"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Register(ctx, "Jane", RegisterAssignmentRequest{Class: "FORM 9", Subject: "MATH"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Register(ctx, "Jane", RegisterAssignmentRequest{Class: "FORM 1", Subject: "LATIN"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestAssignmentServiceRegisterWithoutTimetable(t *testing.T) {
	empty := newTimetableFixture(t, nil, nil, mondayAt(9, 0))
	svc := NewAssignmentService(newMemoryAssignments(nil), empty.svc, nil, nil, nil, nil)

	_, err := svc.Register(context.Background(), "Jane", RegisterAssignmentRequest{Class: "FORM 1", Subject: "MATH"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNoTimetableData))
}

func TestAssignmentServiceRemove(t *testing.T) {
	ctx := context.Background()
	svc, store, inv := newAssignmentFixture(t, models.Roster{"Jane": {
		{Class: "FORM 1", Subject: "MATH"},
		{Class: "FORM 2", Subject: "MATH"},
	}})

	_, err := svc.Remove(ctx, "Jane", 5)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	list, err := svc.Remove(ctx, "jane", 0)
	require.NoError(t, err)
	assert.Equal(t, []models.Assignment{{Class: "FORM 2", Subject: "MATH"}}, list)

	list, err = svc.Remove(ctx, "Jane", 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, registered := store.roster["Jane"]
	assert.False(t, registered, "removing the last assignment unregisters the teacher")
	assert.Len(t, inv.teachers, 2)

	_, err = svc.Remove(ctx, "Jane", 0)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnknownTeacher))
}

func TestAssignmentServiceListAndTeachers(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newAssignmentFixture(t, models.Roster{
		"Tom":  {{Class: "FORM 3", Subject: "PHY"}},
		"Jane": {{Class: "FORM 1", Subject: "MATH"}},
	})

	teachers, err := svc.Teachers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane", "Tom"}, teachers)

	list, err := svc.List(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	store.listErr = errors.New("disk on fire")
	_, err = svc.List(ctx, "Jane")
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestAssignmentServiceStoreFailure(t *testing.T) {
	svc, store, inv := newAssignmentFixture(t, nil)
	store.saveErr = errors.New("read-only file system")

	_, err := svc.Register(context.Background(), "Jane", RegisterAssignmentRequest{Class: "FORM 1", Subject: "MATH"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
	assert.Empty(t, inv.teachers)
}

func TestAssignmentServiceRecordsStoreMetrics(t *testing.T) {
	fx := newTimetableFixture(t, sampleRecords(), nil, mondayAt(9, 0))
	metrics := NewMetricsService()
	svc := NewAssignmentService(newMemoryAssignments(nil), fx.svc, nil, metrics, nil, nil)

	_, err := svc.Register(context.Background(), "Jane", RegisterAssignmentRequest{Class: "FORM 1", Subject: "MATH"})
	require.NoError(t, err)
	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(2), snapshot.StoreQueries)
	assert.WithinDuration(t, time.Now(), snapshot.GeneratedAt, time.Minute)
}
