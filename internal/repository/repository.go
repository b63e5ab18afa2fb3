package repository

import "github.com/spec-kit/helpdesk/internal/persistence"

// Repositories groups the data access layer for one store driver.
type Repositories struct {
	Users    UserRepository
	Tickets  TicketRepository
	Comments CommentRepository
}

// NewPostgresRepositories builds the pgx-backed repositories.
func NewPostgresRepositories(db *persistence.Postgres) Repositories {
	return Repositories{
		Users:    NewUserRepository(db),
		Tickets:  NewTicketRepository(db),
		Comments: NewCommentRepository(db),
	}
}

// NewMySQLRepositories builds the gorm-backed repositories.
func NewMySQLRepositories(db *persistence.MySQL) Repositories {
	return Repositories{
		Users:    NewMySQLUserRepository(db),
		Tickets:  NewMySQLTicketRepository(db),
		Comments: NewMySQLCommentRepository(db),
	}
}
