// internal/repository/postgres/ledger_pg.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"
	"time"

	"lena-bank/internal/domain"
	"lena-bank/internal/repository"
)

const ledgerColumns = `id, reference, datetime, type, amount, source_account, destination_account, source_userid, destination_userid, description`

// ErrSequenceConsumed is yielded when a ledger query sequence is ranged over a second time.
var ErrSequenceConsumed = errors.New("ledger query already consumed")

// LedgerRepository implements repository.LedgerRepository for PostgreSQL.
type LedgerRepository struct{}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository() repository.LedgerRepository {
	return &LedgerRepository{}
}

// Append inserts a ledger entry using the provided DBExecutor.
func (r *LedgerRepository) Append(ctx context.Context, q repository.DBExecutor, entry *domain.LedgerEntry) error {
	query := `INSERT INTO "transaction" (reference, datetime, type, amount, source_account, destination_account, source_userid, destination_userid, description)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		entry.Reference,
		entry.Timestamp,
		entry.Kind,
		entry.Amount,
		entry.SourceAccount,
		entry.DestinationAccount,
		entry.SourceHandle,
		entry.DestinationHandle,
		entry.Description,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to append %s entry: %w", entry.Kind, translate(err))
	}
	return nil
}

// QueryRecent streams the latest limit entries involving ref.
func (r *LedgerRepository) QueryRecent(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef, limit int) iter.Seq2[domain.LedgerEntry, error] {
	where, arg := involving(ref)
	query := fmt.Sprintf(`SELECT %s FROM "transaction" WHERE %s ORDER BY datetime DESC, id DESC LIMIT $2`, ledgerColumns, where)
	return stream(ctx, q, query, arg, limit)
}

// QueryWindow streams every entry involving ref written at or after since.
func (r *LedgerRepository) QueryWindow(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef, since time.Time) iter.Seq2[domain.LedgerEntry, error] {
	where, arg := involving(ref)
	query := fmt.Sprintf(`SELECT %s FROM "transaction" WHERE %s AND datetime >= $2 ORDER BY datetime DESC, id DESC`, ledgerColumns, where)
	return stream(ctx, q, query, arg, since)
}

// involving builds the "source or destination" filter; the reference is always bound to $1.
func involving(ref domain.AccountRef) (string, interface{}) {
	if ref.IsNumber() {
		return `(source_account = $1 OR destination_account = $1)`, ref.Number
	}
	return `(source_userid = $1 OR destination_userid = $1)`, ref.Handle
}

// stream runs the query lazily on first iteration and scans rows one by one.
func stream(ctx context.Context, q repository.DBExecutor, query string, args ...interface{}) iter.Seq2[domain.LedgerEntry, error] {
	var consumed atomic.Bool
	return func(yield func(domain.LedgerEntry, error) bool) {
		if consumed.Swap(true) {
			yield(domain.LedgerEntry{}, ErrSequenceConsumed)
			return
		}

		rows, err := q.QueryxContext(ctx, query, args...)
		if err != nil {
			yield(domain.LedgerEntry{}, fmt.Errorf("failed to query ledger: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var entry domain.LedgerEntry
			if err := rows.StructScan(&entry); err != nil {
				yield(domain.LedgerEntry{}, fmt.Errorf("failed to scan ledger entry: %w", err))
				return
			}
			if !yield(entry, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.LedgerEntry{}, fmt.Errorf("failed to read ledger: %w", err))
		}
	}
}
