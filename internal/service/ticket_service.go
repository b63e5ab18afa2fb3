package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// TicketFilter narrows GetTickets. Nil fields are not filtered on.
type TicketFilter = repository.TicketFilter

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreateTicket opens a ticket owned by ownerID.
func (s *TicketService) CreateTicket(ctx context.Context, ownerID int64, title, description string) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		Status:      domain.TicketStatusOpen,
	}

	details := map[string]any{}
	if ticket.Title == "" {
		details["title"] = "required"
	}
	if ticket.Description == "" {
		details["description"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid ticket", details)
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventTicketCreated, ticket.ID, ownerID,
		events.TicketCreatedPayload{Title: ticket.Title, OwnerID: ownerID}))
	return ticket, nil
}

// GetTickets lists tickets newest first. An empty result is not an error.
func (s *TicketService) GetTickets(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(*filter.Status)})
	}
	return s.tickets.List(ctx, filter)
}

// ListTicketsFor applies role scoping: clients only ever see their own tickets.
func (s *TicketService) ListTicketsFor(ctx context.Context, viewer *domain.User, filter TicketFilter) ([]domain.Ticket, error) {
	if viewer == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !viewer.IsAdmin() {
		ownerID := viewer.ID
		filter.OwnerID = &ownerID
	}
	return s.GetTickets(ctx, filter)
}

// GetTicket returns a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, ticketID)
}

// Authorize loads the ticket and checks that viewer owns it or is an admin.
func (s *TicketService) Authorize(ctx context.Context, viewer *domain.User, ticketID int64) (*domain.Ticket, error) {
	if viewer == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin() && ticket.OwnerID != viewer.ID {
		return nil, apperrors.NewForbidden("ticket belongs to another user")
	}
	return ticket, nil
}

// UpdateTicketStatus overwrites the ticket status. Any status may follow any other.
func (s *TicketService) UpdateTicketStatus(ctx context.Context, actorID, ticketID int64, status domain.TicketStatus) (*domain.Ticket, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticketID, status); err != nil {
		return nil, err
	}
	ticket.Status = status

	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventTicketStatusChanged, ticketID, actorID,
		events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: status}))
	return ticket, nil
}

// AddComment appends a comment to a ticket.
func (s *TicketService) AddComment(ctx context.Context, ticketID, authorID int64, text string) (*domain.Comment, error) {
	comment := &domain.Comment{
		TicketID: ticketID,
		AuthorID: authorID,
		Text:     strings.TrimSpace(text),
	}
	if comment.Text == "" {
		return nil, apperrors.NewValidationError("comment text is required", map[string]any{"text": "required"})
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventCommentAdded, ticketID, authorID,
		events.CommentAddedPayload{
			CommentID:   comment.ID,
			AuthorName:  comment.AuthorName,
			BodyPreview: stringPreview(comment.Text, 120),
		}))
	return comment, nil
}

// GetComments returns the ticket thread oldest first.
func (s *TicketService) GetComments(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	return s.comments.ListByTicket(ctx, ticketID)
}
