// internal/service/tx.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lena-bank/internal/repository"
	"lena-bank/internal/util"
	"lena-bank/pkg/db"
)

// txRunner executes a function as one atomic unit using the injected transaction lifecycle.
type txRunner struct {
	dbBeginner db.DBTxBeginner
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
	logger     *slog.Logger
}

// run begins a transaction, calls fn with it and commits when fn succeeds.
// Any failure rolls the transaction back. Domain errors are returned as-is; everything
// else (store or driver trouble) is reported as util.ErrTransactionFailed.
func (r *txRunner) run(ctx context.Context, op string, fn func(q repository.DBExecutor) error) error {
	txController, err := r.beginTx(ctx, r.dbBeginner)
	if err != nil {
		return fmt.Errorf("%s: %w: failed to begin transaction: %w", op, util.ErrTransactionFailed, err)
	}
	defer r.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("%s: %w: transaction controller does not implement DBExecutor", op, util.ErrTransactionFailed)
	}

	if err := fn(txExecutor); err != nil {
		r.logger.WarnContext(ctx, "Rolling back transaction", "op", op, "error", err)
		if isDomainError(err) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %w: %w", op, util.ErrTransactionFailed, err)
	}

	if err := r.commitTx(txController); err != nil {
		return fmt.Errorf("%s: %w: failed to commit transaction: %w", op, util.ErrTransactionFailed, err)
	}
	return nil
}

// isDomainError reports whether err is a business outcome rather than an infrastructure failure.
func isDomainError(err error) bool {
	return errors.Is(err, util.ErrInvalidInput) ||
		errors.Is(err, util.ErrNotFound) ||
		errors.Is(err, util.ErrInsufficientFunds) ||
		errors.Is(err, util.ErrConflict) ||
		errors.Is(err, util.ErrAuth)
}
