// Package notify delivers lesson reminders to people: desktop popups, the
// process log, or both.
package notify

import (
	"context"
	"errors"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"github.com/noah-isme/sternfield-timetable/internal/models"
)

// Notifier delivers a notification. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n models.Notification) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n models.Notification) error {
	return f(ctx, n)
}

// Desktop shows notifications through the operating system notification
// centre.
type Desktop struct {
	appName string
	send    func(title, message, icon string) error
}

// NewDesktop builds a desktop notifier. appName prefixes every title.
func NewDesktop(appName string) *Desktop {
	return &Desktop{
		appName: appName,
		send: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
	}
}

// Notify pops up a desktop notification.
func (d *Desktop) Notify(ctx context.Context, n models.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	title := n.Title
	if d.appName != "" {
		title = d.appName + ": " + title
	}
	return d.send(title, n.Message, "")
}

// Log writes notifications to a zap logger. It is the fallback sink on
// headless hosts.
type Log struct {
	logger *zap.Logger
}

// NewLog builds a log notifier.
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

// Notify logs the notification at info level.
func (l *Log) Notify(_ context.Context, n models.Notification) error {
	l.logger.Info("reminder",
		zap.String("teacher", n.Teacher),
		zap.String("title", n.Title),
		zap.String("message", n.Message),
	)
	return nil
}

// Fanout delivers to every sink and joins their errors.
type Fanout []Notifier

// Notify delivers n to each sink in order.
func (f Fanout) Notify(ctx context.Context, n models.Notification) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
