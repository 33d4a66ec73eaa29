// Package dberr classifies backend constraint violations so repositories can
// turn them back into domain errors.
package dberr

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// IsUniqueViolation reports a unique index rejection. gorm translates dialect
// errors when opened with TranslateError; the pgconn check covers raw sqlx paths.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return hasPgCode(err, codeUniqueViolation)
}

func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return hasPgCode(err, codeForeignKeyViolation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// LogFailure logs a failed storage call. Deadline hits are logged at warn
// level and tagged timeout=true so they can be told apart from backend faults.
func LogFailure(ctx context.Context, lg *slog.Logger, msg string, err error, attrs ...any) {
	level := slog.LevelError
	if IsTimeout(err) {
		level = slog.LevelWarn
		attrs = append(attrs, "timeout", true)
	}
	lg.Log(ctx, level, msg, append(attrs, "error", err)...)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
