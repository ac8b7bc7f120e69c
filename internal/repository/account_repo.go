// internal/repository/account_repo.go
package repository

import (
	"context"

	"lena-bank/internal/domain"

	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data operations.
type AccountRepository interface {
	// CreateAccount inserts a new account. It fails with util.ErrDuplicateHandle when the
	// handle is taken and util.ErrAccountNumberTaken when the number is.
	CreateAccount(ctx context.Context, q DBExecutor, account *domain.Account) error
	// GetAccount retrieves an account by number or handle.
	GetAccount(ctx context.Context, q DBExecutor, ref domain.AccountRef) (*domain.Account, error)
	// GetAccountForUpdate retrieves an account and locks its row until the transaction ends.
	GetAccountForUpdate(ctx context.Context, q DBExecutor, ref domain.AccountRef) (*domain.Account, error)
	// HandleExists reports whether an account already uses the handle.
	HandleExists(ctx context.Context, q DBExecutor, handle string) (bool, error)
	// GetBalance returns the current balance of an account.
	GetBalance(ctx context.Context, q DBExecutor, ref domain.AccountRef) (decimal.Decimal, error)
	// AdjustBalance adds delta (possibly negative) to the balance in a single statement.
	// It never lets the balance drop below zero.
	AdjustBalance(ctx context.Context, q DBExecutor, ref domain.AccountRef, delta decimal.Decimal) error
	// UpdateCredential replaces the stored secret hash.
	UpdateCredential(ctx context.Context, q DBExecutor, ref domain.AccountRef, secretHash string) error
	// UpdatePin replaces the stored PIN hash.
	UpdatePin(ctx context.Context, q DBExecutor, ref domain.AccountRef, pinHash string) error
	// UpdateName replaces the holder's name fields.
	UpdateName(ctx context.Context, q DBExecutor, ref domain.AccountRef, name domain.Name) error
}
