package common

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Business logic errors. Handlers translate these to HTTP status codes;
// anything unclassified becomes a generic 500.
var (
	ErrInvalidInput = errors.New("invalid input")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")

	ErrForbidden = errors.New("forbidden")

	ErrNotFound      = errors.New("resource not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrBoardNotFound = errors.New("board not found")
	ErrPostNotFound  = errors.New("post not found")
	ErrPlanNotFound  = errors.New("plan not found")

	ErrDuplicate = errors.New("duplicate resource")
)

// IsUniqueViolation reports whether err is a duplicate-key failure from the
// store. Checks both the driver error (SQLSTATE 23505) and GORM's portable
// translation so the same path works against the test database.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
