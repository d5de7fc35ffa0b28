package dberr

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/force-backend/internal/domain/apperr"
)

// ErrConflict marks a uniqueness violation.
var ErrConflict = errors.New("unique constraint violation")

// MapError classifies a storage failure. Errors that already carry an apperr
// code pass through unchanged.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.CodeNotFound, op, "not found", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.CodeStorage, op, "storage operation interrupted", err)
	}
	if IsUniqueViolation(err) {
		return apperr.Wrap(apperr.CodeStorage, op, "record already exists", errors.Join(ErrConflict, err))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23503", "23514", "23502":
			return apperr.Wrap(apperr.CodeStorage, op, "record violates a storage constraint", err)
		case "40001", "40P01", "55P03":
			return apperr.Wrap(apperr.CodeStorage, op, "storage is busy, please retry", err)
		}
	}
	return apperr.Wrap(apperr.CodeStorage, op, "storage failure", err)
}

// IsUniqueViolation recognizes unique violations from Postgres and sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConflict) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint failed")
}
