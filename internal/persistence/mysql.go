package persistence

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/spec-kit/helpdesk/internal/config"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// MySQL owns the gorm handle used by the MySQL repositories.
type MySQL struct {
	mu     sync.RWMutex
	db     *gorm.DB
	logger *zap.Logger
}

// NewMySQL opens a gorm connection and verifies it with a ping.
func NewMySQL(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*MySQL, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(zap.NewStdLog(logger), gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(int(cfg.MaxConns))
	}
	if cfg.MinConns > 0 {
		sqlDB.SetMaxIdleConns(int(cfg.MinConns))
	}
	if cfg.ConnMaxIdleSec > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleSec) * time.Second)
	}
	if cfg.ConnMaxLifeSec > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifeSec) * time.Second)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, apperrors.NewUnavailable(err)
	}

	logger.Info("connected to mysql", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return &MySQL{db: db, logger: logger}, nil
}

// NewMySQLFromDB wraps an existing gorm handle. A nil handle is never connected.
func NewMySQLFromDB(db *gorm.DB, logger *zap.Logger) *MySQL {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MySQL{db: db, logger: logger}
}

// DB returns a context-bound gorm session or ErrNotConnected.
func (m *MySQL) DB(ctx context.Context) (*gorm.DB, error) {
	if m == nil {
		return nil, apperrors.ErrNotConnected
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.db == nil {
		return nil, apperrors.ErrNotConnected
	}
	return m.db.WithContext(ctx), nil
}

// AutoMigrate creates the users, tickets and comments tables when missing.
func (m *MySQL) AutoMigrate(ctx context.Context) error {
	db, err := m.DB(ctx)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(&UserRecord{}, &TicketRecord{}, &CommentRecord{}); err != nil {
		return err
	}
	m.logger.Info("mysql schema verified")
	return nil
}

// Ping verifies connectivity.
func (m *MySQL) Ping(ctx context.Context) error {
	db, err := m.DB(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return apperrors.NewUnavailable(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperrors.NewUnavailable(err)
	}
	return nil
}

// Close releases the underlying connections. Calling it more than once is a no-op.
func (m *MySQL) Close() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil {
		return
	}
	if sqlDB, err := m.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			m.logger.Warn("mysql close", zap.Error(err))
		}
	}
	m.db = nil
	m.logger.Info("mysql connection closed")
}
