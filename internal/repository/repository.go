package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrDuplicate     = errors.New("record already exists")
	ErrMissingParent = errors.New("referenced record does not exist")
	// ErrInvalidPattern reports a search pattern the backend cannot evaluate.
	ErrInvalidPattern = errors.New("invalid search pattern")
)

const (
	DocumentLandingPage  = "landing_page"
	DocumentSiteSettings = "site_settings"
	DocumentNavigation   = "navigation"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// validID reports whether id can be compared against a uuid column. Anything
// else cannot match a row and is treated as not found.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isInvalidRegex(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "2201B"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
