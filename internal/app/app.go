// Package app assembles the store, cache, services and event handlers shared
// by every command.
package app

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/worker"
)

// Options tweaks bootstrap behavior per command.
type Options struct {
	// Migrate applies the schema before the repositories are built.
	Migrate bool
	// WithCache connects to Redis for the dashboard cache.
	WithCache bool
}

// App owns every long-lived handle. Close releases them exactly once.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics

	Postgres *persistence.Postgres
	MySQL    *persistence.MySQL
	Redis    *persistence.Redis

	Repos         repository.Repositories
	Dispatcher    events.Dispatcher
	Auth          *service.AuthService
	Tickets       *service.TicketService
	Dashboard     *service.DashboardService
	Notifications *service.NotificationService

	closeOnce sync.Once
}

// New connects the configured store and wires the services on top of it.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, Logger: logger, Metrics: observability.NewMetrics()}

	switch cfg.Database.Driver {
	case config.DriverMySQL:
		db, err := persistence.NewMySQL(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("connect mysql: %w", err)
		}
		a.MySQL = db
		if opts.Migrate {
			if err := db.AutoMigrate(ctx); err != nil {
				db.Close()
				return nil, fmt.Errorf("migrate mysql: %w", err)
			}
		}
		a.Repos = repository.NewMySQLRepositories(db)
	default:
		if opts.Migrate {
			if err := persistence.RunMigrations(ctx, cfg.Database, logger); err != nil {
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		db, err := persistence.NewPostgres(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.Postgres = db
		a.Repos = repository.NewPostgresRepositories(db)
	}

	if opts.WithCache {
		a.Redis = persistence.NewRedis(ctx, cfg.Redis, logger)
	}

	a.Dispatcher = events.NewInMemoryDispatcher()
	a.Auth = service.NewAuthService(*cfg, a.Repos.Users, logger)
	a.Tickets = service.NewTicketService(service.TicketDependencies{
		TicketRepo:  a.Repos.Tickets,
		CommentRepo: a.Repos.Comments,
		Dispatcher:  a.Dispatcher,
		Logger:      logger,
	})

	var cache service.Cache
	if a.Redis.Enabled() {
		cache = a.Redis
	}
	a.Dashboard = service.NewDashboardService(a.Repos.Tickets, cache, cfg.Cache.DashboardTTL(), logger)
	a.Notifications = service.NewNotificationService(a.Dispatcher, logger, cfg.Notification)
	worker.StartEventHandlers(a.Dispatcher, a.Notifications, a.Dashboard)

	return a, nil
}

// Ping checks the relational store.
func (a *App) Ping(ctx context.Context) error {
	if a.MySQL != nil {
		return a.MySQL.Ping(ctx)
	}
	return a.Postgres.Ping(ctx)
}

// Close releases the store and cache. Later calls are no-ops.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.Redis.Close()
		a.MySQL.Close()
		a.Postgres.Close()
		a.Logger.Info("resources released")
	})
}
