package repository

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/persistence"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// MySQL implementations backed by gorm. Server timestamps are re-read after
// each insert since MySQL has no RETURNING clause.

type mysqlUserRepository struct {
	db *persistence.MySQL
}

// NewMySQLUserRepository returns a gorm-backed UserRepository.
func NewMySQLUserRepository(db *persistence.MySQL) UserRepository {
	return &mysqlUserRepository{db: db}
}

func (r *mysqlUserRepository) Create(ctx context.Context, user *domain.User) error {
	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}

	rec := persistence.UserRecord{
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
	}
	if err := db.Create(&rec).Error; err != nil {
		return mapGormError(err, "user", map[string]any{"email": user.Email})
	}

	var stored persistence.UserRecord
	if err := db.First(&stored, rec.ID).Error; err != nil {
		return mapGormError(err, "user", map[string]any{"id": rec.ID})
	}
	*user = userFromRecord(stored)
	return nil
}

func (r *mysqlUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}
	var rec persistence.UserRecord
	if err := db.First(&rec, id).Error; err != nil {
		return nil, mapGormError(err, "user", map[string]any{"id": id})
	}
	user := userFromRecord(rec)
	return &user, nil
}

func (r *mysqlUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}
	var rec persistence.UserRecord
	if err := db.Where("email = ?", email).First(&rec).Error; err != nil {
		return nil, mapGormError(err, "user", map[string]any{"email": email})
	}
	user := userFromRecord(rec)
	return &user, nil
}

func (r *mysqlUserRepository) List(ctx context.Context) ([]domain.User, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}
	var recs []persistence.UserRecord
	if err := db.Order("id ASC").Find(&recs).Error; err != nil {
		return nil, mapGormError(err, "user", nil)
	}
	result := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		result = append(result, userFromRecord(rec))
	}
	return result, nil
}

func userFromRecord(rec persistence.UserRecord) domain.User {
	return domain.User{
		ID:           rec.ID,
		Name:         rec.Name,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		Role:         domain.Role(rec.Role),
		CreatedAt:    rec.CreatedAt,
	}
}

type mysqlTicketRepository struct {
	db *persistence.MySQL
}

// NewMySQLTicketRepository returns a gorm-backed TicketRepository.
func NewMySQLTicketRepository(db *persistence.MySQL) TicketRepository {
	return &mysqlTicketRepository{db: db}
}

type ticketRow struct {
	ID              int64
	Title           string
	Description     string
	OwnerID         int64
	OwnerName       string
	Status          string
	CreatedAt       time.Time
	ResponseSeconds int64
}

func (row ticketRow) toDomain() domain.Ticket {
	return domain.Ticket{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		OwnerID:      row.OwnerID,
		OwnerName:    row.OwnerName,
		Status:       domain.TicketStatus(row.Status),
		CreatedAt:    row.CreatedAt,
		ResponseTime: time.Duration(row.ResponseSeconds) * time.Second,
	}
}

const ticketRowColumns = "t.id, t.title, t.description, t.owner_id, u.name AS owner_name, t.status, t.created_at, t.response_seconds"

func (r *mysqlTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}

	rec := persistence.TicketRecord{
		Title:       ticket.Title,
		Description: ticket.Description,
		OwnerID:     ticket.OwnerID,
		Status:      string(domain.TicketStatusOpen),
	}
	if err := db.Omit(clause.Associations).Create(&rec).Error; err != nil {
		return mapGormError(err, "ticket", map[string]any{"owner_id": ticket.OwnerID})
	}

	stored, err := r.GetByID(ctx, rec.ID)
	if err != nil {
		return err
	}
	*ticket = *stored
	return nil
}

func (r *mysqlTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	var rows []ticketRow
	err = db.Table("tickets t").
		Select(ticketRowColumns).
		Joins("JOIN users u ON u.id = t.owner_id").
		Where("t.id = ?", id).
		Scan(&rows).Error
	if err != nil {
		return nil, mapGormError(err, "ticket", nil)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	ticket := rows[0].toDomain()
	return &ticket, nil
}

func (r *mysqlTicketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	q := db.Table("tickets t").
		Select(ticketRowColumns).
		Joins("JOIN users u ON u.id = t.owner_id")
	if filter.OwnerID != nil {
		q = q.Where("t.owner_id = ?", *filter.OwnerID)
	}
	if filter.Status != nil {
		q = q.Where("t.status = ?", string(*filter.Status))
	}
	q = q.Order("t.created_at DESC, t.id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []ticketRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, mapGormError(err, "ticket", nil)
	}
	result := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

func (r *mysqlTicketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error {
	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}

	res := db.Model(&persistence.TicketRecord{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return mapGormError(res.Error, "ticket", map[string]any{"id": id, "status": string(status)})
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// MySQL reports zero affected rows when the value is unchanged.
	var n int64
	if err := db.Model(&persistence.TicketRecord{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return mapGormError(err, "ticket", nil)
	}
	if n == 0 {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return nil
}

func (r *mysqlTicketRepository) CountByStatus(ctx context.Context) (domain.StatusCounts, error) {
	var counts domain.StatusCounts
	db, err := r.db.DB(ctx)
	if err != nil {
		return counts, err
	}

	var rows []struct {
		Status string
		N      int64
	}
	err = db.Model(&persistence.TicketRecord{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return counts, mapGormError(err, "ticket", nil)
	}
	for _, row := range rows {
		counts.Set(domain.TicketStatus(row.Status), int(row.N))
	}
	return counts, nil
}

type mysqlCommentRepository struct {
	db *persistence.MySQL
}

// NewMySQLCommentRepository returns a gorm-backed CommentRepository.
func NewMySQLCommentRepository(db *persistence.MySQL) CommentRepository {
	return &mysqlCommentRepository{db: db}
}

type commentRow struct {
	ID         int64
	TicketID   int64
	AuthorID   int64
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

func (row commentRow) toDomain() domain.Comment {
	return domain.Comment{
		ID:         row.ID,
		TicketID:   row.TicketID,
		AuthorID:   row.AuthorID,
		AuthorName: row.AuthorName,
		Text:       row.Text,
		CreatedAt:  row.CreatedAt,
	}
}

const commentRowColumns = "c.id, c.ticket_id, c.author_id, u.name AS author_name, c.text, c.created_at"

func (r *mysqlCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}

	rec := persistence.CommentRecord{
		TicketID: comment.TicketID,
		AuthorID: comment.AuthorID,
		Text:     comment.Text,
	}
	details := map[string]any{"ticket_id": comment.TicketID, "author_id": comment.AuthorID}
	if err := db.Omit(clause.Associations).Create(&rec).Error; err != nil {
		return mapGormError(err, "comment", details)
	}

	var rows []commentRow
	err = db.Table("comments c").
		Select(commentRowColumns).
		Joins("JOIN users u ON u.id = c.author_id").
		Where("c.id = ?", rec.ID).
		Scan(&rows).Error
	if err != nil {
		return mapGormError(err, "comment", details)
	}
	if len(rows) == 0 {
		return apperrors.NewNotFound("comment", map[string]any{"id": rec.ID})
	}
	*comment = rows[0].toDomain()
	return nil
}

func (r *mysqlCommentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	var rows []commentRow
	err = db.Table("comments c").
		Select(commentRowColumns).
		Joins("JOIN users u ON u.id = c.author_id").
		Where("c.ticket_id = ?", ticketID).
		Order("c.created_at ASC, c.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, mapGormError(err, "comment", nil)
	}
	result := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}
