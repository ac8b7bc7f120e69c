// internal/repository/ledger_repo.go
package repository

import (
	"context"
	"iter"
	"time"

	"lena-bank/internal/domain"
)

// LedgerRepository defines the interface for the append-only transaction ledger.
type LedgerRepository interface {
	// Append writes one immutable entry and fills in its ID.
	Append(ctx context.Context, q DBExecutor, entry *domain.LedgerEntry) error
	// QueryRecent streams at most limit entries involving ref, most recent first.
	// The sequence is single-pass.
	QueryRecent(ctx context.Context, q DBExecutor, ref domain.AccountRef, limit int) iter.Seq2[domain.LedgerEntry, error]
	// QueryWindow streams every entry involving ref written at or after since, most recent first.
	QueryWindow(ctx context.Context, q DBExecutor, ref domain.AccountRef, since time.Time) iter.Seq2[domain.LedgerEntry, error]
}
