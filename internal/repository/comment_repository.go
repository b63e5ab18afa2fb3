package repository

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/persistence"
)

// CommentRepository manages ticket comment threads.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error)
}

type commentRepository struct {
	db *persistence.Postgres
}

// NewCommentRepository builds repository.
func NewCommentRepository(db *persistence.Postgres) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	pool, err := r.db.Pool()
	if err != nil {
		return err
	}

	const query = `
        WITH inserted AS (
            INSERT INTO comments (ticket_id, author_id, text)
            VALUES ($1, $2, $3)
            RETURNING id, author_id, created_at
        )
        SELECT i.id, u.name, i.created_at
        FROM inserted i JOIN users u ON u.id = i.author_id`

	err = pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.AuthorID,
		comment.Text,
	).Scan(&comment.ID, &comment.AuthorName, &comment.CreatedAt)
	return mapPgError(err, "comment", map[string]any{
		"ticket_id": comment.TicketID,
		"author_id": comment.AuthorID,
	})
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	pool, err := r.db.Pool()
	if err != nil {
		return nil, err
	}

	const query = `
        SELECT c.id, c.ticket_id, c.author_id, u.name, c.text, c.created_at
        FROM comments c JOIN users u ON u.id = c.author_id
        WHERE c.ticket_id=$1
        ORDER BY c.created_at ASC, c.id ASC`
	rows, err := pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, mapPgError(err, "comment", nil)
	}
	defer rows.Close()

	result := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.ID,
			&c.TicketID,
			&c.AuthorID,
			&c.AuthorName,
			&c.Text,
			&c.CreatedAt,
		); err != nil {
			return nil, mapPgError(err, "comment", nil)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "comment", nil)
	}
	return result, nil
}
