package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
)

// CreateUserRequest lets an admin create an account with an explicit role.
type CreateUserRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// DashboardResponse is the admin overview.
type DashboardResponse struct {
	Counts        domain.StatusCounts `json:"counts"`
	Total         int                 `json:"total"`
	RecentTickets []TicketSummary     `json:"recent_tickets"`
	GeneratedAt   time.Time           `json:"generated_at"`
}

// NewDashboardResponse maps a dashboard summary.
func NewDashboardResponse(s *service.DashboardSummary) DashboardResponse {
	recent := make([]TicketSummary, 0, len(s.RecentTickets))
	for i := range s.RecentTickets {
		recent = append(recent, NewTicketSummary(&s.RecentTickets[i]))
	}
	return DashboardResponse{
		Counts:        s.Counts,
		Total:         s.Total,
		RecentTickets: recent,
		GeneratedAt:   s.GeneratedAt,
	}
}
