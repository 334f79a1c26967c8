package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sternfield-timetable/api/swagger"
	"github.com/noah-isme/sternfield-timetable/internal/handler"
	internalmiddleware "github.com/noah-isme/sternfield-timetable/internal/middleware"
	"github.com/noah-isme/sternfield-timetable/internal/service"
	"github.com/noah-isme/sternfield-timetable/pkg/config"
	"github.com/noah-isme/sternfield-timetable/pkg/logger"
	corsmiddleware "github.com/noah-isme/sternfield-timetable/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sternfield-timetable/pkg/middleware/requestid"
	"github.com/noah-isme/sternfield-timetable/pkg/notify"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logr, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}
			defer syncLogger(logr)
			return serve(cmd.Context(), cfg, logr)
		},
	}
}

func serve(parent context.Context, cfg *config.Config, logr *zap.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	a, err := newApp(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer a.close()

	dispatcher := a.notifier()
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	reminders := a.reminderManager(ctx, dispatcher)
	defer reminders.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(a, reminders),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logr.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
		return err
	}
	logr.Info("server stopped")
	return nil
}

// notifier builds the delivery chain for reminders: always the log sink, plus
// desktop notifications when enabled, behind an async worker pool.
func (a *app) notifier() *notify.Dispatcher {
	sinks := notify.Fanout{notify.NewLog(a.logger.Named("reminders"))}
	if a.cfg.Reminder.Desktop {
		sinks = append(sinks, notify.NewDesktop(a.cfg.Reminder.AppName))
	}
	return notify.NewDispatcher(sinks, notify.DispatcherConfig{
		Workers: a.cfg.Reminder.Workers,
		Retries: a.cfg.Reminder.Retries,
		Logger:  a.logger.Named("notify"),
	})
}

func (a *app) reminderManager(ctx context.Context, sink notify.Notifier) *service.ReminderManager {
	return service.NewReminderManager(ctx, a.timetable, a.store, sink, a.clock, service.ReminderOptions{
		Lead:            a.cfg.Reminder.Lead,
		PollInterval:    a.cfg.Reminder.PollInterval,
		WeekendInterval: a.cfg.Reminder.WeekendInterval,
	}, a.metrics, a.logger.Named("reminders"))
}

func newRouter(a *app, reminders *service.ReminderManager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.logger))
	r.Use(corsmiddleware.New(a.cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(a.metrics))

	metricsHandler := handler.NewMetricsHandler(a.metrics, a.timetable, a.deps)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)

	if a.cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	timetableHandler := handler.NewTimetableHandler(a.timetable)
	assignmentHandler := handler.NewAssignmentHandler(a.assignments)
	chatHandler := handler.NewChatHandler(a.chat)
	reminderHandler := handler.NewReminderHandler(reminders)
	exportHandler := handler.NewExportHandler(a.exports)

	api := r.Group(a.cfg.APIPrefix)
	api.GET("/system/metrics", metricsHandler.Snapshot)

	catalog := api.Group("/timetable")
	catalog.GET("/classes", timetableHandler.Classes)
	catalog.GET("/subjects", timetableHandler.Subjects)

	classes := api.Group("/classes/:class")
	classes.GET("/schedule", timetableHandler.ClassSchedule)
	classes.GET("/subjects", timetableHandler.ClassSubjects)
	classes.GET("/schedule/export", exportHandler.ClassSchedule)

	api.GET("/teachers", assignmentHandler.Teachers)
	teachers := api.Group("/teachers/:name")
	teachers.GET("/assignments", assignmentHandler.List)
	teachers.POST("/assignments", assignmentHandler.Register)
	teachers.DELETE("/assignments/:index", assignmentHandler.Remove)
	teachers.GET("/schedule", timetableHandler.TeacherSchedule)
	teachers.GET("/resolve", timetableHandler.Resolve)
	teachers.GET("/schedule/export", exportHandler.TeacherSchedule)

	api.POST("/chat", chatHandler.Reply)

	api.GET("/reminders", reminderHandler.Status)
	api.POST("/reminders", reminderHandler.Start)
	api.DELETE("/reminders", reminderHandler.Stop)

	return r
}
