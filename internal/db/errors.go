package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for backend constraint failures. Handlers translate these
// into user-readable messages; anything else falls back to a generic one.
var (
	ErrDuplicateSlug    = errors.New("slug already in use")
	ErrPermissionDenied = errors.New("permission denied")
)

const (
	pgUniqueViolation       = "23505"
	pgInsufficientPrivilege = "42501"
)

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return ErrDuplicateSlug
	case pgInsufficientPrivilege:
		return ErrPermissionDenied
	}
	return err
}
