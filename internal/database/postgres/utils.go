package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reports whether err is a unique violation on the given
// constraint or index. An empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != CodeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// isCheckViolation reports whether err is a check violation on the given
// constraint.
func isCheckViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == CodeCheckViolation && pgErr.ConstraintName == constraint
}

// textOrNil maps an empty string to a SQL NULL parameter.
func textOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// derefText maps a nullable text column back to a string.
func derefText(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
