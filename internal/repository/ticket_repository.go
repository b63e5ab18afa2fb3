package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/persistence"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// TicketFilter narrows ticket listings. Nil fields are not filtered on.
type TicketFilter struct {
	OwnerID *int64
	Status  *domain.TicketStatus
	Limit   int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error
	CountByStatus(ctx context.Context) (domain.StatusCounts, error)
}

type ticketRepository struct {
	db *persistence.Postgres
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db *persistence.Postgres) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketSelect = `SELECT t.id, t.title, t.description, t.owner_id, u.name, t.status, t.created_at, t.response_seconds
             FROM tickets t JOIN users u ON u.id = t.owner_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	pool, err := r.db.Pool()
	if err != nil {
		return err
	}

	const query = `
        WITH inserted AS (
            INSERT INTO tickets (title, description, owner_id, status)
            VALUES ($1, $2, $3, $4)
            RETURNING id, owner_id, status, created_at, response_seconds
        )
        SELECT i.id, u.name, i.status, i.created_at, i.response_seconds
        FROM inserted i JOIN users u ON u.id = i.owner_id`

	var responseSeconds int64
	err = pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.OwnerID,
		domain.TicketStatusOpen,
	).Scan(&ticket.ID, &ticket.OwnerName, &ticket.Status, &ticket.CreatedAt, &responseSeconds)
	if err != nil {
		return mapPgError(err, "ticket", map[string]any{"owner_id": ticket.OwnerID})
	}
	ticket.ResponseTime = time.Duration(responseSeconds) * time.Second
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	pool, err := r.db.Pool()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, ticketSelect+` WHERE t.id=$1`, id)
	if err != nil {
		return nil, mapPgError(err, "ticket", nil)
	}
	defer rows.Close()

	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, mapPgError(err, "ticket", nil)
	}
	if len(tickets) == 0 {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return &tickets[0], nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	pool, err := r.db.Pool()
	if err != nil {
		return nil, err
	}

	query, args := buildTicketListQuery(filter)
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "ticket", nil)
	}
	defer rows.Close()

	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, mapPgError(err, "ticket", nil)
	}
	return tickets, nil
}

// buildTicketListQuery renders one of the four listing shapes: unfiltered, by
// owner, by status, or by owner and status.
func buildTicketListQuery(filter TicketFilter) (string, []any) {
	clauses := []string{}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("t.owner_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		clauses = append(clauses, fmt.Sprintf("t.status = $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(ticketSelect)
	if len(clauses) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}
	sb.WriteString(" ORDER BY t.created_at DESC, t.id DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	return sb.String(), args
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error {
	pool, err := r.db.Pool()
	if err != nil {
		return err
	}

	cmd, err := pool.Exec(ctx, `UPDATE tickets SET status=$1 WHERE id=$2`, string(status), id)
	if err != nil {
		return mapPgError(err, "ticket", map[string]any{"id": id, "status": string(status)})
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return nil
}

func (r *ticketRepository) CountByStatus(ctx context.Context) (domain.StatusCounts, error) {
	var counts domain.StatusCounts
	pool, err := r.db.Pool()
	if err != nil {
		return counts, err
	}

	rows, err := pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return counts, mapPgError(err, "ticket", nil)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return counts, mapPgError(err, "ticket", nil)
		}
		counts.Set(domain.TicketStatus(status), int(n))
	}
	if err := rows.Err(); err != nil {
		return counts, mapPgError(err, "ticket", nil)
	}
	return counts, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		var (
			ticket          domain.Ticket
			responseSeconds int64
		)
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.OwnerID,
			&ticket.OwnerName,
			&ticket.Status,
			&ticket.CreatedAt,
			&responseSeconds,
		); err != nil {
			return nil, err
		}
		ticket.ResponseTime = time.Duration(responseSeconds) * time.Second
		result = append(result, ticket)
	}
	return result, rows.Err()
}
