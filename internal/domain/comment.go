package domain

import "time"

// Comment is an append-only message attached to a ticket.
type Comment struct {
	ID         int64
	TicketID   int64
	AuthorID   int64
	AuthorName string
	Text       string
	CreatedAt  time.Time
}
