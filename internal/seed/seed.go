// Package seed loads a small sample data set: one admin, a few clients, and a
// ticket thread to click through.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

type account struct {
	name, email, password string
	role                  domain.Role
}

var admin = account{"Admin", "admin@example.com", "admin123", domain.RoleAdmin}

var clients = []account{
	{"João Silva", "joao@example.com", "123456", domain.RoleClient},
	{"Maria Santos", "maria@example.com", "123456", domain.RoleClient},
	{"Pedro Costa", "pedro@example.com", "123456", domain.RoleClient},
	{"Ana Oliveira", "ana@example.com", "123456", domain.RoleClient},
}

var sampleTickets = []struct{ title, description string }{
	{"Login problem", "I cannot sign in, the system says my password is wrong."},
	{"Feature request", "Please add email notifications for ticket updates."},
	{"Interface bug", "The layout breaks on small screens."},
	{"Usage question", "How do I change my password?"},
	{"Error report", "Generating reports fails with a 500 error."},
}

// Result counts what a run inserted.
type Result struct {
	UsersCreated    int
	UsersExisting   int
	TicketsCreated  int
	CommentsCreated int
}

// Seeder inserts sample data through the services.
type Seeder struct {
	auth    *service.AuthService
	tickets *service.TicketService
	users   repository.UserRepository
	logger  *zap.Logger
}

// New builds a Seeder.
func New(auth *service.AuthService, tickets *service.TicketService, users repository.UserRepository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{auth: auth, tickets: tickets, users: users, logger: logger}
}

// Run inserts the sample data. Accounts that already exist are reused, and
// tickets are only added when the first client has none yet.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	adminUser, err := s.ensureUser(ctx, admin, &res)
	if err != nil {
		return res, err
	}

	clientUsers := make([]*domain.User, 0, len(clients))
	for _, acc := range clients {
		u, err := s.ensureUser(ctx, acc, &res)
		if err != nil {
			return res, err
		}
		clientUsers = append(clientUsers, u)
	}
	owner := clientUsers[0]

	ownerID := owner.ID
	existing, err := s.tickets.GetTickets(ctx, service.TicketFilter{OwnerID: &ownerID, Limit: 1})
	if err != nil {
		return res, err
	}
	if len(existing) > 0 {
		s.logger.Info("sample tickets already present", zap.Int64("owner_id", owner.ID))
		return res, nil
	}

	var newest *domain.Ticket
	for _, st := range sampleTickets {
		t, err := s.tickets.CreateTicket(ctx, owner.ID, st.title, st.description)
		if err != nil {
			return res, fmt.Errorf("create ticket %q: %w", st.title, err)
		}
		res.TicketsCreated++
		newest = t
	}

	thread := []struct {
		author *domain.User
		text   string
	}{
		{owner, "Hello! I need help with this problem."},
		{adminUser, "Hi! I will look into your ticket and get back to you soon."},
		{owner, "Thanks! Waiting for your reply."},
		{adminUser, "Ticket reviewed. The fix ships in the next release."},
	}
	for _, c := range thread {
		if _, err := s.tickets.AddComment(ctx, newest.ID, c.author.ID, c.text); err != nil {
			return res, fmt.Errorf("add comment: %w", err)
		}
		res.CommentsCreated++
	}

	s.logger.Info("sample data loaded",
		zap.Int("users_created", res.UsersCreated),
		zap.Int("tickets_created", res.TicketsCreated),
		zap.Int("comments_created", res.CommentsCreated))
	return res, nil
}

func (s *Seeder) ensureUser(ctx context.Context, acc account, res *Result) (*domain.User, error) {
	u, err := s.auth.CreateUser(ctx, acc.name, acc.email, acc.password, acc.role)
	if err == nil {
		res.UsersCreated++
		return u, nil
	}
	if !apperrors.HasCode(err, apperrors.CodeDuplicateEmail) {
		return nil, fmt.Errorf("create user %s: %w", acc.email, err)
	}
	u, err = s.users.GetByEmail(ctx, acc.email)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", acc.email, err)
	}
	res.UsersExisting++
	return u, nil
}
