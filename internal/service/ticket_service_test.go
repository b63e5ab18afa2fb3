package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/repository/mocks"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

type ticketFixture struct {
	tickets    *mocks.TicketRepository
	comments   *mocks.CommentRepository
	dispatcher events.Dispatcher
	published  []events.Event
	svc        *TicketService
}

func newTicketFixture() *ticketFixture {
	f := &ticketFixture{
		tickets:    new(mocks.TicketRepository),
		comments:   new(mocks.CommentRepository),
		dispatcher: events.NewInMemoryDispatcher(),
	}
	record := func(_ context.Context, e events.Event) error {
		f.published = append(f.published, e)
		return nil
	}
	for _, eventType := range events.TicketEvents {
		f.dispatcher.Subscribe(eventType, record)
	}
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:  f.tickets,
		CommentRepo: f.comments,
		Dispatcher:  f.dispatcher,
	})
	return f
}

func TestCreateTicket(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	f.tickets.On("Create", ctx, mock.MatchedBy(func(tk *domain.Ticket) bool {
		return tk.Title == "Broken login" && tk.Description == "cannot sign in" && tk.OwnerID == 1 && tk.Status == domain.TicketStatusOpen
	})).Run(func(args mock.Arguments) {
		tk := args.Get(1).(*domain.Ticket)
		tk.ID = 42
		tk.OwnerName = "Ana"
		tk.CreatedAt = created
	}).Return(nil)

	ticket, err := f.svc.CreateTicket(ctx, 1, "  Broken login ", "cannot sign in\n")
	require.NoError(t, err)
	assert.Equal(t, int64(42), ticket.ID)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, created, ticket.CreatedAt)

	require.Len(t, f.published, 1)
	assert.Equal(t, events.EventTicketCreated, f.published[0].Type)
	assert.Equal(t, int64(42), f.published[0].TicketID)
}

func TestCreateTicketValidation(t *testing.T) {
	f := newTicketFixture()
	_, err := f.svc.CreateTicket(context.Background(), 1, " ", "")
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	details := apperrors.ToDomainError(err).Details
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "description")
	f.tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, f.published)
}

func TestCreateTicketUnknownOwner(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	f.tickets.On("Create", ctx, mock.Anything).Return(apperrors.NewConstraintViolation("referenced record does not exist", nil, nil))

	_, err := f.svc.CreateTicket(ctx, 99, "t", "d")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConstraintViolation))
	assert.Empty(t, f.published)
}

func TestGetTickets(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	owner := int64(1)
	closed := domain.TicketStatusClosed
	filter := repository.TicketFilter{OwnerID: &owner, Status: &closed}
	f.tickets.On("List", ctx, filter).Return([]domain.Ticket{}, nil)

	got, err := f.svc.GetTickets(ctx, filter)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	bogus := domain.TicketStatus("aberto")
	_, err = f.svc.GetTickets(ctx, repository.TicketFilter{Status: &bogus})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestListTicketsForScopesClients(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	client := &domain.User{ID: 5, Role: domain.RoleClient}
	admin := &domain.User{ID: 1, Role: domain.RoleAdmin}
	other := int64(8)

	f.tickets.On("List", ctx, mock.MatchedBy(func(filter repository.TicketFilter) bool {
		return filter.OwnerID != nil && *filter.OwnerID == 5
	})).Return([]domain.Ticket{{ID: 1, OwnerID: 5}}, nil).Once()
	f.tickets.On("List", ctx, mock.MatchedBy(func(filter repository.TicketFilter) bool {
		return filter.OwnerID != nil && *filter.OwnerID == 8
	})).Return([]domain.Ticket{{ID: 2, OwnerID: 8}}, nil).Once()

	// A client asking for another owner's tickets still only gets their own.
	got, err := f.svc.ListTicketsFor(ctx, client, repository.TicketFilter{OwnerID: &other})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(5), got[0].OwnerID)

	got, err = f.svc.ListTicketsFor(ctx, admin, repository.TicketFilter{OwnerID: &other})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(8), got[0].OwnerID)

	_, err = f.svc.ListTicketsFor(ctx, nil, repository.TicketFilter{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	f.tickets.AssertExpectations(t)
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	f.tickets.On("GetByID", ctx, int64(10)).Return(&domain.Ticket{ID: 10, OwnerID: 5}, nil)
	f.tickets.On("GetByID", ctx, int64(11)).Return(nil, apperrors.NewNotFound("ticket", nil))

	_, err := f.svc.Authorize(ctx, &domain.User{ID: 5, Role: domain.RoleClient}, 10)
	assert.NoError(t, err)

	_, err = f.svc.Authorize(ctx, &domain.User{ID: 6, Role: domain.RoleClient}, 10)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = f.svc.Authorize(ctx, &domain.User{ID: 1, Role: domain.RoleAdmin}, 10)
	assert.NoError(t, err)

	_, err = f.svc.Authorize(ctx, &domain.User{ID: 1, Role: domain.RoleAdmin}, 11)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestUpdateTicketStatus(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	f.tickets.On("GetByID", ctx, int64(10)).Return(&domain.Ticket{ID: 10, OwnerID: 5, Status: domain.TicketStatusOpen}, nil)
	f.tickets.On("UpdateStatus", ctx, int64(10), domain.TicketStatusClosed).Return(nil)

	ticket, err := f.svc.UpdateTicketStatus(ctx, 1, 10, domain.TicketStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)

	require.Len(t, f.published, 1)
	payload := f.published[0].Payload.(events.TicketStatusChangedPayload)
	assert.Equal(t, domain.TicketStatusOpen, payload.OldStatus)
	assert.Equal(t, domain.TicketStatusClosed, payload.NewStatus)
	assert.Equal(t, int64(1), f.published[0].ActorID)
}

func TestUpdateTicketStatusErrors(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()

	_, err := f.svc.UpdateTicketStatus(ctx, 1, 10, domain.TicketStatus("fechado"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	f.tickets.On("GetByID", ctx, int64(404)).Return(nil, apperrors.NewNotFound("ticket", nil))
	_, err = f.svc.UpdateTicketStatus(ctx, 1, 404, domain.TicketStatusPaused)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	f.tickets.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.published)
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	f.comments.On("Create", ctx, mock.MatchedBy(func(c *domain.Comment) bool {
		return c.TicketID == 10 && c.AuthorID == 5 && c.Text == "any update?"
	})).Run(func(args mock.Arguments) {
		c := args.Get(1).(*domain.Comment)
		c.ID = 3
		c.AuthorName = "Ana"
	}).Return(nil)

	comment, err := f.svc.AddComment(ctx, 10, 5, " any update? ")
	require.NoError(t, err)
	assert.Equal(t, int64(3), comment.ID)
	assert.Equal(t, "Ana", comment.AuthorName)
	require.Len(t, f.published, 1)
	assert.Equal(t, events.EventCommentAdded, f.published[0].Type)

	_, err = f.svc.AddComment(ctx, 10, 5, "   ")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestGetComments(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	thread := []domain.Comment{{ID: 1, Text: "first"}, {ID: 2, Text: "second"}}
	f.comments.On("ListByTicket", ctx, int64(10)).Return(thread, nil)

	got, err := f.svc.GetComments(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, thread, got)
}

func TestEventHandlerFailureDoesNotFailOperation(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	f.dispatcher.Subscribe(events.EventCommentAdded, func(context.Context, events.Event) error {
		return errors.New("webhook down")
	})
	f.comments.On("Create", ctx, mock.Anything).Return(nil)

	_, err := f.svc.AddComment(ctx, 10, 5, "hello")
	assert.NoError(t, err)
}

func TestStringPreview(t *testing.T) {
	assert.Equal(t, "short", stringPreview("short", 10))
	assert.Equal(t, "ábc...", stringPreview("ábcdef", 3))
}
