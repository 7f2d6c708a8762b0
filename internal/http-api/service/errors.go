package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// The four error kinds the API distinguishes. Specific errors wrap one of
// these so handlers can map them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnavailable     = errors.New("unavailable")
)

var (
	ErrMovieNotFound       = fmt.Errorf("movie %w", ErrNotFound)
	ErrCustomMovieNotFound = fmt.Errorf("custom movie %w", ErrNotFound)
	ErrEntryNotFound       = fmt.Errorf("collection entry %w", ErrNotFound)
	ErrAlreadyInCollection = fmt.Errorf("movie %w in collection", ErrAlreadyExists)
	ErrCustomTitleTaken    = fmt.Errorf("custom movie title %w", ErrAlreadyExists)
	ErrEmailInUse          = fmt.Errorf("email %w", ErrAlreadyExists)
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrYandexAccountLinked = fmt.Errorf("yandex account %w linked", ErrAlreadyExists)
	ErrOAuthAccount        = errors.New("account uses Yandex sign-in")
	ErrWeakPassword        = fmt.Errorf("%w: password not strong enough (need >=8 characters, >=1 numbers, >=1 letters, >=1 special characters)", ErrInvalidArgument)
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Duplicate adds race past the existence pre-check; the constraint
// is the authoritative guard and its violation must come back as
// ErrAlreadyExists, never as a raw storage error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
