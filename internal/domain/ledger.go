// internal/domain/ledger.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal" // For precise monetary calculations
)

// EntryKind defines the kind of money movement recorded in the ledger.
type EntryKind string

const (
	EntryKindDeposit  EntryKind = "deposit"
	EntryKindWithdraw EntryKind = "withdraw"
	EntryKindTransfer EntryKind = "transfer"
)

// LedgerEntry is one immutable row of the transaction ledger.
type LedgerEntry struct {
	ID                 int64           `db:"id" json:"id"`
	Reference          uuid.UUID       `db:"reference" json:"reference"`
	Timestamp          time.Time       `db:"datetime" json:"datetime"`
	Kind               EntryKind       `db:"type" json:"type"`
	Amount             decimal.Decimal `db:"amount" json:"amount"`
	SourceAccount      *int            `db:"source_account" json:"source_account"`           // nil for deposits
	DestinationAccount *int            `db:"destination_account" json:"destination_account"` // nil for withdrawals
	SourceHandle       *string         `db:"source_userid" json:"source_userid"`
	DestinationHandle  *string         `db:"destination_userid" json:"destination_userid"`
	Description        string          `db:"description" json:"description"`
}

// NewDepositEntry records money entering an account from outside the bank.
func NewDepositEntry(to *Account, amount decimal.Decimal, description string) *LedgerEntry {
	e := newEntry(EntryKindDeposit, amount, description)
	e.DestinationAccount, e.DestinationHandle = accountKeys(to)
	return e
}

// NewWithdrawEntry records money leaving the bank from an account.
func NewWithdrawEntry(from *Account, amount decimal.Decimal, description string) *LedgerEntry {
	e := newEntry(EntryKindWithdraw, amount, description)
	e.SourceAccount, e.SourceHandle = accountKeys(from)
	return e
}

// NewTransferEntry records money moving between two accounts.
func NewTransferEntry(from, to *Account, amount decimal.Decimal, description string) *LedgerEntry {
	e := newEntry(EntryKindTransfer, amount, description)
	e.SourceAccount, e.SourceHandle = accountKeys(from)
	e.DestinationAccount, e.DestinationHandle = accountKeys(to)
	return e
}

// Involves reports whether the account appears on either side of the entry.
func (e *LedgerEntry) Involves(a *Account) bool {
	return (e.SourceAccount != nil && *e.SourceAccount == a.Number) ||
		(e.DestinationAccount != nil && *e.DestinationAccount == a.Number)
}

func newEntry(kind EntryKind, amount decimal.Decimal, description string) *LedgerEntry {
	return &LedgerEntry{
		Reference:   uuid.New(),
		Timestamp:   time.Now().UTC(),
		Kind:        kind,
		Amount:      amount,
		Description: description,
	}
}

func accountKeys(a *Account) (*int, *string) {
	number, handle := a.Number, a.Handle
	return &number, &handle
}
