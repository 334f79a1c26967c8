package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sternfield-timetable/internal/models"
	"github.com/noah-isme/sternfield-timetable/internal/timetable"
	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
	"github.com/noah-isme/sternfield-timetable/pkg/notify"
)

// TaskState is the lifecycle stage of a reminder task.
type TaskState string

const (
	TaskIdle    TaskState = "IDLE"
	TaskRunning TaskState = "RUNNING"
	TaskStopped TaskState = "STOPPED"
)

type reminderSource interface {
	DueReminders(ctx context.Context, teacher string, now time.Time, lead time.Duration) ([]timetable.Reminder, error)
}

// ReminderOptions tunes reminder polling.
type ReminderOptions struct {
	Lead            time.Duration
	PollInterval    time.Duration
	WeekendInterval time.Duration
}

func (o ReminderOptions) withDefaults() ReminderOptions {
	if o.Lead <= 0 {
		o.Lead = timetable.DefaultReminderLead
	}
	if o.PollInterval <= 0 {
		o.PollInterval = time.Minute
	}
	if o.WeekendInterval <= 0 {
		o.WeekendInterval = 10 * time.Minute
	}
	return o
}

// ReminderTask polls one teacher's timetable and hands due reminders to the
// notification sink. A reminder fires on every poll inside its window; no
// record of sent reminders is kept.
type ReminderTask struct {
	teacher string
	source  reminderSource
	sink    notify.Notifier
	clock   timetable.Clock
	opts    ReminderOptions
	after   func(time.Duration) <-chan time.Time
	metrics *MetricsService
	logger  *zap.Logger

	mu        sync.Mutex
	state     TaskState
	startedAt time.Time
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewReminderTask builds an idle task for teacher.
func NewReminderTask(teacher string, source reminderSource, sink notify.Notifier, clock timetable.Clock, opts ReminderOptions, metrics *MetricsService, logger *zap.Logger) *ReminderTask {
	if clock == nil {
		clock = timetable.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderTask{
		teacher: teacher,
		source:  source,
		sink:    sink,
		clock:   clock,
		opts:    opts.withDefaults(),
		after:   time.After,
		metrics: metrics,
		logger:  logger.With(zap.String("teacher", teacher)),
		state:   TaskIdle,
	}
}

// Teacher returns the teacher the task watches.
func (t *ReminderTask) Teacher() string { return t.teacher }

// State returns the current lifecycle stage.
func (t *ReminderTask) State() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Start launches the polling loop. It is a no-op unless the task is idle.
func (t *ReminderTask) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TaskIdle {
		return
	}
	ctx, t.cancel = context.WithCancel(ctx)
	t.done = make(chan struct{})
	t.state = TaskRunning
	t.startedAt = t.clock.Now()
	go t.run(ctx)
	t.logger.Info("reminder task started")
}

// Stop cancels the loop and waits for it to exit.
func (t *ReminderTask) Stop() {
	t.mu.Lock()
	if t.state != TaskRunning {
		t.state = TaskStopped
		t.mu.Unlock()
		return
	}
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	cancel()
	<-done

	t.mu.Lock()
	t.state = TaskStopped
	t.mu.Unlock()
	t.logger.Info("reminder task stopped")
}

// Done is closed once the loop has exited. It is nil before Start.
func (t *ReminderTask) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *ReminderTask) run(ctx context.Context) {
	done := t.done
	defer func() {
		t.mu.Lock()
		t.state = TaskStopped
		t.mu.Unlock()
		close(done)
	}()
	for {
		now := t.clock.Now()
		wait := t.opts.PollInterval
		if timetable.IsSchoolDay(timetable.DayName(now)) {
			t.check(ctx, now)
		} else {
			wait = t.opts.WeekendInterval
		}

		select {
		case <-ctx.Done():
			return
		case <-t.after(wait):
		}
	}
}

func (t *ReminderTask) check(ctx context.Context, now time.Time) {
	due, err := t.source.DueReminders(ctx, t.teacher, now, t.opts.Lead)
	if err != nil {
		t.logger.Debug("reminder check failed", zap.Error(err))
		return
	}
	for _, r := range due {
		err := t.sink.Notify(ctx, models.Notification{Teacher: t.teacher, Title: r.Title, Message: r.Message})
		t.metrics.RecordReminder(err == nil)
		if err != nil {
			t.logger.Debug("reminder not delivered", zap.String("title", r.Title), zap.Error(err))
		}
	}
}

// ReminderStatus describes the active reminder task.
type ReminderStatus struct {
	Teacher   string    `json:"teacher,omitempty"`
	State     TaskState `json:"state"`
	StartedAt time.Time `json:"started_at,omitempty"`
}

// ReminderManager keeps at most one reminder task alive. Starting a task for
// another teacher stops the previous one first.
type ReminderManager struct {
	base        context.Context
	source      reminderSource
	assignments assignmentReader
	sink        notify.Notifier
	clock       timetable.Clock
	opts        ReminderOptions
	metrics     *MetricsService
	logger      *zap.Logger

	mu      sync.Mutex
	current *ReminderTask
}

// NewReminderManager builds a manager whose tasks live until base is done.
func NewReminderManager(base context.Context, source reminderSource, assignments assignmentReader, sink notify.Notifier, clock timetable.Clock, opts ReminderOptions, metrics *MetricsService, logger *zap.Logger) *ReminderManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderManager{
		base:        base,
		source:      source,
		assignments: assignments,
		sink:        sink,
		clock:       clock,
		opts:        opts.withDefaults(),
		metrics:     metrics,
		logger:      logger,
	}
}

// Start begins reminders for teacher, replacing any running task. The
// teacher must have at least one assignment.
func (m *ReminderManager) Start(ctx context.Context, teacher string) (ReminderStatus, error) {
	name := NormalizeTeacherName(teacher)
	if name == "" {
		return ReminderStatus{}, appErrors.Clone(appErrors.ErrValidation, "teacher name is required")
	}
	assignments, err := m.assignments.ListByTeacher(ctx, name)
	if err != nil {
		return ReminderStatus{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher assignments")
	}
	if len(assignments) == 0 {
		return ReminderStatus{}, appErrors.Clone(appErrors.ErrUnknownTeacher, fmt.Sprintf("%s has no registered classes", name))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		if m.current.Teacher() == name && m.current.State() == TaskRunning {
			return m.statusLocked(), nil
		}
		m.current.Stop()
	}

	task := NewReminderTask(name, m.source, m.sink, m.clock, m.opts, m.metrics, m.logger)
	task.Start(m.base)
	m.current = task
	return m.statusLocked(), nil
}

// Stop ends the running task, if any.
func (m *ReminderManager) Stop() ReminderStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.Stop()
	}
	return m.statusLocked()
}

// Status reports the current task.
func (m *ReminderManager) Status() ReminderStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

func (m *ReminderManager) statusLocked() ReminderStatus {
	if m.current == nil {
		return ReminderStatus{State: TaskIdle}
	}
	m.current.mu.Lock()
	defer m.current.mu.Unlock()
	return ReminderStatus{Teacher: m.current.teacher, State: m.current.state, StartedAt: m.current.startedAt}
}
