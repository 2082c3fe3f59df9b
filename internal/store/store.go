// Package store provides PostgreSQL access methods for all blog entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
// Unique-constraint violations are translated into the apperr taxonomy so
// the service layer never inspects driver errors.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for a unique-constraint failure.
const uniqueViolation = "23505"

// violatedConstraint returns the name of the violated unique constraint,
// or "" if err is not a unique violation.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}
