package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// Postgres owns the pgx connection pool for the lifetime of the app.
type Postgres struct {
	mu     sync.RWMutex
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres establishes a connection pool and verifies it with a ping.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.NewUnavailable(err)
	}

	logger.Info("connected to postgres",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database))
	return &Postgres{pool: pool, logger: logger}, nil
}

// NewPostgresFromPool wraps an existing pool. A nil pool yields a handle that is never connected.
func NewPostgresFromPool(pool *pgxpool.Pool, logger *zap.Logger) *Postgres {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Postgres{pool: pool, logger: logger}
}

// Pool returns the live pool or ErrNotConnected when the handle is missing or closed.
func (p *Postgres) Pool() (*pgxpool.Pool, error) {
	if p == nil {
		return nil, apperrors.ErrNotConnected
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.pool == nil {
		return nil, apperrors.ErrNotConnected
	}
	return p.pool, nil
}

// Ping verifies connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	pool, err := p.Pool()
	if err != nil {
		return err
	}
	if err := pool.Ping(ctx); err != nil {
		return apperrors.NewUnavailable(err)
	}
	return nil
}

// Close releases pool resources. Calling it more than once is a no-op.
func (p *Postgres) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool == nil {
		return
	}
	p.pool.Close()
	p.pool = nil
	p.logger.Info("postgres connection closed")
}
