package main

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sternfield-timetable/internal/handler"
	"github.com/noah-isme/sternfield-timetable/internal/models"
	"github.com/noah-isme/sternfield-timetable/internal/repository"
	"github.com/noah-isme/sternfield-timetable/internal/service"
	"github.com/noah-isme/sternfield-timetable/internal/timetable"
	"github.com/noah-isme/sternfield-timetable/pkg/cache"
	"github.com/noah-isme/sternfield-timetable/pkg/config"
	"github.com/noah-isme/sternfield-timetable/pkg/database"
)

type assignmentStore interface {
	ListByTeacher(ctx context.Context, teacher string) ([]models.Assignment, error)
	ListTeachers(ctx context.Context) ([]string, error)
	Replace(ctx context.Context, teacher string, assignments []models.Assignment) error
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// app holds the wired services shared by every command.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	clock  timetable.Clock

	metrics     *service.MetricsService
	store       assignmentStore
	timetable   *service.TimetableService
	assignments *service.AssignmentService
	chat        *service.ChatService
	exports     *service.ExportService

	deps    map[string]handler.Pinger
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	loc, fallback := timetable.LoadLocation(cfg.Timezone)
	if fallback {
		logger.Warn("unknown timezone, using UTC", zap.String("timezone", cfg.Timezone))
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		clock:   timetable.SystemClock{Location: loc},
		metrics: service.NewMetricsService(),
		deps:    make(map[string]handler.Pinger),
	}

	store, err := a.openStore(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = store

	cacheSvc := a.openCache(ctx)
	validate := validator.New()

	a.timetable = service.NewTimetableService(
		repository.NewTimetableRepository(cfg.Timetable.File),
		store,
		cacheSvc,
		cfg.Cache.TTL,
		a.metrics,
		a.clock,
		logger.Named("timetable"),
	)
	a.timetable.Load(ctx)

	a.assignments = service.NewAssignmentService(store, a.timetable, a.timetable, a.metrics, validate, logger.Named("assignments"))
	a.chat = service.NewChatService(a.timetable, validate, logger.Named("chat"))
	a.exports = service.NewExportService(a.timetable, logger.Named("export"), nil, nil)
	return a, nil
}

func (a *app) openStore(ctx context.Context) (assignmentStore, error) {
	switch a.cfg.Store.Driver {
	case config.StorePostgres:
		db, err := database.NewPostgres(ctx, a.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open postgres assignment store: %w", err)
		}
		return a.sqlStore(ctx, "postgres", db)
	case config.StoreSQLite:
		db, err := database.NewSQLite(ctx, a.cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite assignment store: %w", err)
		}
		return a.sqlStore(ctx, "sqlite", db)
	case config.StoreFile, "":
		a.logger.Debug("using file assignment store", zap.String("path", a.cfg.Store.AssignmentsFile))
		return repository.NewAssignmentFileRepository(a.cfg.Store.AssignmentsFile), nil
	default:
		return nil, fmt.Errorf("unknown ASSIGNMENT_STORE %q", a.cfg.Store.Driver)
	}
}

func (a *app) sqlStore(ctx context.Context, name string, db *sqlx.DB) (assignmentStore, error) {
	a.closers = append(a.closers, db.Close)
	a.deps[name] = pingFunc(db.PingContext)
	repo := repository.NewAssignmentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// openCache connects Redis when schedule caching is enabled. A Redis outage
// disables caching instead of failing startup.
func (a *app) openCache(ctx context.Context) *service.CacheService {
	if !a.cfg.Cache.Enabled {
		return service.NewCacheService(nil, a.metrics, a.cfg.Cache.TTL, a.logger, false)
	}
	client, err := cache.NewRedis(ctx, a.cfg.Redis)
	if err != nil {
		a.logger.Warn("redis unavailable, schedule cache disabled", zap.Error(err))
		return service.NewCacheService(nil, a.metrics, a.cfg.Cache.TTL, a.logger, false)
	}
	repo := repository.NewCacheRepository(client, a.logger.Named("cache"))
	a.closers = append(a.closers, repo.Close)
	a.deps["redis"] = repo
	return service.NewCacheService(repo, a.metrics, a.cfg.Cache.TTL, a.logger.Named("cache"), true)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close resource", zap.Error(err))
		}
	}
	a.closers = nil
}
