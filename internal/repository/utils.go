package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/solcade/treasury/internal/logger"
)

// SafeRollback rolls back a transaction, logging any error except the
// expected ErrTxClosed after a successful commit.
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}
