package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bibliotek/library-system/internal/core/domain"
)

// SQLSTATE codes the repositories translate into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeSerializationFail   = "40001"
	codeDeadlockDetected    = "40P01"
	codeQueryCanceled       = "57014"
)

func pgErr(err error) (*pgconn.PgError, bool) {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge, true
	}
	return nil, false
}

// isUniqueViolation reports whether err is a unique-constraint violation,
// optionally restricted to one named constraint.
func isUniqueViolation(err error, constraint string) bool {
	pge, ok := pgErr(err)
	if !ok || pge.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pge.ConstraintName == constraint
}

func isForeignKeyViolation(err error, constraint string) bool {
	pge, ok := pgErr(err)
	if !ok || pge.Code != codeForeignKeyViolation {
		return false
	}
	return constraint == "" || pge.ConstraintName == constraint
}

func isCheckViolation(err error) bool {
	pge, ok := pgErr(err)
	return ok && pge.Code == codeCheckViolation
}

// isTransient reports whether err indicates a failure where the transaction
// rolled back and the whole operation is safe to retry: serialization
// conflicts, deadlocks, cancelled statements, connection-class errors and
// timeouts.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if pge, ok := pgErr(err); ok {
		switch pge.Code {
		case codeSerializationFail, codeDeadlockDetected, codeQueryCanceled:
			return true
		}
		// Class 08: connection exceptions.
		if strings.HasPrefix(pge.Code, "08") {
			return true
		}
	}
	return false
}

// markTransient tags err with domain.ErrTransientStore so callers can match
// it without knowing SQLSTATE codes.
func markTransient(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrTransientStore, err)
}
