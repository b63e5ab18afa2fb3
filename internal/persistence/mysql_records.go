package persistence

import "time"

// UserRecord is the gorm mapping of the users table.
type UserRecord struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"size:100;not null"`
	Email        string    `gorm:"size:100;not null;uniqueIndex:users_email_key"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         string    `gorm:"type:enum('admin','client');not null;default:client"`
	CreatedAt    time.Time `gorm:"type:datetime(6);not null;default:CURRENT_TIMESTAMP(6);autoCreateTime:false"`
}

func (UserRecord) TableName() string { return "users" }

// TicketRecord is the gorm mapping of the tickets table.
type TicketRecord struct {
	ID              int64      `gorm:"primaryKey;autoIncrement"`
	Title           string     `gorm:"size:255;not null"`
	Description     string     `gorm:"type:text;not null"`
	OwnerID         int64      `gorm:"not null;index:idx_tickets_owner_created,priority:1"`
	Owner           UserRecord `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT"`
	Status          string     `gorm:"type:enum('open','paused','closed');not null;default:open;index:idx_tickets_status_created,priority:1"`
	CreatedAt       time.Time  `gorm:"type:datetime(6);not null;default:CURRENT_TIMESTAMP(6);autoCreateTime:false;index:idx_tickets_owner_created,priority:2;index:idx_tickets_status_created,priority:2"`
	ResponseSeconds int64      `gorm:"not null;default:0"`
}

func (TicketRecord) TableName() string { return "tickets" }

// CommentRecord is the gorm mapping of the comments table.
type CommentRecord struct {
	ID        int64        `gorm:"primaryKey;autoIncrement"`
	TicketID  int64        `gorm:"not null;index:idx_comments_ticket_created,priority:1"`
	Ticket    TicketRecord `gorm:"foreignKey:TicketID;constraint:OnDelete:RESTRICT"`
	AuthorID  int64        `gorm:"not null"`
	Author    UserRecord   `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
	Text      string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"type:datetime(6);not null;default:CURRENT_TIMESTAMP(6);autoCreateTime:false;index:idx_comments_ticket_created,priority:2"`
}

func (CommentRecord) TableName() string { return "comments" }
