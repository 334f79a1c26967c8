package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sternfield-timetable/internal/models"
	"github.com/noah-isme/sternfield-timetable/pkg/jobs"
)

const jobType = "notification"

// DispatcherConfig tunes the delivery worker pool.
type DispatcherConfig struct {
	Workers int
	Retries int
	Logger  *zap.Logger
}

// Dispatcher hands notifications to a worker pool so a slow sink never stalls
// the caller.
type Dispatcher struct {
	sink   Notifier
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewDispatcher wraps sink with an asynchronous queue. Call Start before use.
func NewDispatcher(sink Notifier, cfg DispatcherConfig) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{sink: sink, logger: logger}
	d.queue = jobs.NewQueue("notifications", d.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: 32,
		MaxRetries: cfg.Retries,
		Logger:     logger,
	})
	return d
}

// Start launches the delivery workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop waits for in-flight deliveries and drops the rest.
func (d *Dispatcher) Stop() {
	d.queue.Stop()
}

// Stats reports delivery counters.
func (d *Dispatcher) Stats() jobs.Stats {
	return d.queue.Stats()
}

// Notify queues n for delivery without blocking.
func (d *Dispatcher) Notify(_ context.Context, n models.Notification) error {
	if err := d.queue.TryEnqueue(jobs.Job{ID: uuid.NewString(), Type: jobType, Payload: n}); err != nil {
		return fmt.Errorf("queue notification: %w", err)
	}
	return nil
}

func (d *Dispatcher) handle(ctx context.Context, job jobs.Job) error {
	n, ok := job.Payload.(models.Notification)
	if !ok {
		d.logger.Warn("unexpected notification payload", zap.String("job_id", job.ID))
		return nil
	}
	return d.sink.Notify(ctx, n)
}
