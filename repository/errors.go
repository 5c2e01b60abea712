package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound marks a lookup of an id or key that does not exist,
// distinct from a query that matched zero rows.
var ErrNotFound = errors.New("record not found")

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
