package repository

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no rows", pgx.ErrNoRows, apperrors.CodeNotFound},
		{"duplicate email", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, apperrors.CodeDuplicateEmail},
		{"other unique", &pgconn.PgError{Code: "23505", ConstraintName: "tickets_pkey"}, apperrors.CodeConflict},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "tickets_owner_id_fkey"}, apperrors.CodeConstraintViolation},
		{"check", &pgconn.PgError{Code: "23514", ConstraintName: "tickets_status_check"}, apperrors.CodeConstraintViolation},
		{"not null", &pgconn.PgError{Code: "23502"}, apperrors.CodeConstraintViolation},
		{"syntax", &pgconn.PgError{Code: "42601"}, apperrors.CodeInternal},
		{"network", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), apperrors.CodeUnavailable},
		{"not connected", apperrors.ErrNotConnected, apperrors.CodeNotConnected},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := mapPgError(tc.err, "ticket", map[string]any{"email": "ana@x.com"})
			assert.Equal(t, tc.code, apperrors.CodeOf(err))
		})
	}

	assert.NoError(t, mapPgError(nil, "ticket", nil))
}

func TestMapPgErrorDuplicateEmailDetails(t *testing.T) {
	err := mapPgError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, "user", map[string]any{"email": "ana@x.com"})

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "ana@x.com", domainErr.Details["email"])
	assert.Equal(t, 409, domainErr.HTTPStatus)
}

func TestMapPgErrorKeepsConstraintName(t *testing.T) {
	details := map[string]any{"owner_id": int64(9)}
	err := mapPgError(&pgconn.PgError{Code: "23503", ConstraintName: "tickets_owner_id_fkey"}, "ticket", details)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "tickets_owner_id_fkey", domainErr.Details["constraint"])
	assert.Equal(t, int64(9), domainErr.Details["owner_id"])
	assert.NotContains(t, details, "constraint")
}

func TestMapGormError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		details map[string]any
		code    string
	}{
		{"not found", gorm.ErrRecordNotFound, nil, apperrors.CodeNotFound},
		{"duplicate email", gorm.ErrDuplicatedKey, map[string]any{"email": "ana@x.com"}, apperrors.CodeDuplicateEmail},
		{"duplicate other", gorm.ErrDuplicatedKey, nil, apperrors.CodeConflict},
		{"foreign key", gorm.ErrForeignKeyViolated, nil, apperrors.CodeConstraintViolation},
		{"check", gorm.ErrCheckConstraintViolated, nil, apperrors.CodeConstraintViolation},
		{"enum truncated", &mysql.MySQLError{Number: 1265, Message: "Data truncated for column 'status'"}, nil, apperrors.CodeConstraintViolation},
		{"null column", &mysql.MySQLError{Number: 1048}, nil, apperrors.CodeConstraintViolation},
		{"unknown column", &mysql.MySQLError{Number: 1054}, nil, apperrors.CodeInternal},
		{"network", errors.New("invalid connection"), nil, apperrors.CodeUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, apperrors.CodeOf(mapGormError(tc.err, "ticket", tc.details)))
		})
	}
}
