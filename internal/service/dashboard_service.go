package service

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// DashboardCacheKey is the redis key holding the cached summary.
const DashboardCacheKey = "helpdesk:dashboard:summary"

// recentTicketLimit is how many tickets the dashboard lists.
const recentTicketLimit = 5

// Cache is the byte cache backing the dashboard. Implementations treat
// backend failures as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// DashboardSummary aggregates ticket counts and the latest tickets.
type DashboardSummary struct {
	Counts        domain.StatusCounts `json:"counts"`
	Total         int                 `json:"total"`
	RecentTickets []domain.Ticket     `json:"recent_tickets"`
	GeneratedAt   time.Time           `json:"generated_at"`
}

// DashboardService builds the admin overview.
type DashboardService struct {
	tickets repository.TicketRepository
	cache   Cache
	ttl     time.Duration
	logger  *zap.Logger

	// generation moves on every Invalidate; a Summary computed across a
	// move is not written back.
	generation atomic.Uint64
}

// NewDashboardService constructs the service. A nil cache or zero ttl disables caching.
func NewDashboardService(tickets repository.TicketRepository, cache Cache, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{tickets: tickets, cache: cache, ttl: ttl, logger: logger}
}

// Summary returns the dashboard, served from cache when fresh.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.cachingEnabled() {
		if raw, _ := s.cache.Get(ctx, DashboardCacheKey); raw != nil {
			var cached DashboardSummary
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			s.logger.Warn("discarding unreadable dashboard cache entry")
		}
	}

	gen := s.generation.Load()
	counts, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.tickets.List(ctx, repository.TicketFilter{Limit: recentTicketLimit})
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Counts:        counts,
		Total:         counts.Total(),
		RecentTickets: recent,
		GeneratedAt:   time.Now().UTC(),
	}

	if s.cachingEnabled() && s.generation.Load() == gen {
		if raw, err := json.Marshal(summary); err == nil {
			_ = s.cache.Set(ctx, DashboardCacheKey, raw, s.ttl)
		}
	}
	return summary, nil
}

// Invalidate drops the cached summary.
func (s *DashboardService) Invalidate(ctx context.Context) error {
	s.generation.Add(1)
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, DashboardCacheKey)
}

// RegisterHandlers invalidates the cache on every ticket change.
func (s *DashboardService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	events.SubscribeAll(dispatcher, events.TicketEvents, func(ctx context.Context, _ events.Event) error {
		return s.Invalidate(ctx)
	})
}

func (s *DashboardService) cachingEnabled() bool {
	return s.cache != nil && s.ttl > 0
}
