package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/persistence"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

func TestPingWithoutStore(t *testing.T) {
	a := &App{Logger: zap.NewNop()}
	assert.ErrorIs(t, a.Ping(context.Background()), apperrors.ErrNotConnected)
}

func TestCloseIsIdempotent(t *testing.T) {
	a := &App{
		Logger:   zap.NewNop(),
		Postgres: persistence.NewPostgresFromPool(nil, nil),
		Redis:    persistence.NewRedisFromClient(nil, nil),
	}
	a.Close()
	a.Close()
	assert.ErrorIs(t, a.Ping(context.Background()), apperrors.ErrNotConnected)
}

func TestNewUnreachableStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:      config.DriverPostgres,
		DSNOverride: "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1",
	}}
	_, err := New(ctx, cfg, zap.NewNop(), Options{})
	require.Error(t, err)
	assert.True(t, apperrors.IsConnectivity(err), "got %v", err)
}
