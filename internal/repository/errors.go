package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// MySQL server error numbers gorm does not translate.
const (
	mysqlBadNull        = 1048
	mysqlDataTruncated  = 1265
	mysqlIncorrectValue = 1366
	mysqlCheckViolation = 3819
)

const usersEmailConstraint = "users_email_key"

// mapPgError converts pgx failures into domain errors. Errors that did not come
// back from the server are treated as connectivity failures.
func mapPgError(err error, resource string, details map[string]any) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, details)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperrors.NewUnavailable(err)
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if pgErr.ConstraintName == usersEmailConstraint {
			email, _ := details["email"].(string)
			return apperrors.NewDuplicateEmail(email, err)
		}
		return apperrors.NewConflict(resource+" already exists", details)
	case pgForeignKeyViolation:
		return apperrors.NewConstraintViolation("referenced record does not exist", withConstraint(details, pgErr.ConstraintName), err)
	case pgCheckViolation, pgNotNullViolation:
		return apperrors.NewConstraintViolation("value rejected by "+resource+" constraints", withConstraint(details, pgErr.ConstraintName), err)
	}
	return apperrors.NewInternalError(err)
}

// mapGormError converts gorm failures into domain errors. The gorm handle is
// opened with TranslateError so driver codes arrive as gorm sentinels.
func mapGormError(err error, resource string, details map[string]any) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.DomainError
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NewNotFound(resource, details)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		if email, ok := details["email"].(string); ok {
			return apperrors.NewDuplicateEmail(email, err)
		}
		return apperrors.NewConflict(resource+" already exists", details)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.NewConstraintViolation("referenced record does not exist", details, err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return apperrors.NewConstraintViolation("value rejected by "+resource+" constraints", details, err)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlBadNull, mysqlDataTruncated, mysqlIncorrectValue, mysqlCheckViolation:
			return apperrors.NewConstraintViolation("value rejected by "+resource+" constraints", details, err)
		}
		return apperrors.NewInternalError(err)
	}
	return apperrors.NewUnavailable(err)
}

func withConstraint(details map[string]any, constraint string) map[string]any {
	out := make(map[string]any, len(details)+1)
	for k, v := range details {
		out[k] = v
	}
	if constraint != "" {
		out["constraint"] = constraint
	}
	return out
}
