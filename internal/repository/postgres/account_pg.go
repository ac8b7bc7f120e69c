// internal/repository/postgres/account_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lena-bank/internal/domain"
	"lena-bank/internal/repository"
	"lena-bank/internal/util"

	"github.com/shopspring/decimal"
)

const accountColumns = `accountnumber, name, middle_name, surname, balance, userid, password, transaction_pin, created_at, updated_at`

// AccountRepository implements repository.AccountRepository for PostgreSQL.
type AccountRepository struct{}

// NewAccountRepository creates a new AccountRepository.
// The executor is passed to each method, so the repository holds no connection.
func NewAccountRepository() repository.AccountRepository {
	return &AccountRepository{}
}

// CreateAccount inserts a new account using the provided DBExecutor.
func (r *AccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	query := `INSERT INTO account (` + accountColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := q.ExecContext(ctx, query,
		account.Number,
		account.GivenName,
		account.MiddleName,
		account.FamilyName,
		account.Balance,
		account.Handle,
		account.SecretHash,
		account.PinHash,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account %s: %w", domain.FormatAccountNumber(account.Number), translate(err))
	}
	return nil
}

// GetAccount retrieves an account by number or handle using the provided DBExecutor.
func (r *AccountRepository) GetAccount(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef) (*domain.Account, error) {
	return r.get(ctx, q, ref, "")
}

// GetAccountForUpdate retrieves an account and holds a row lock until the enclosing transaction ends.
func (r *AccountRepository) GetAccountForUpdate(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef) (*domain.Account, error) {
	return r.get(ctx, q, ref, " FOR UPDATE")
}

func (r *AccountRepository) get(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef, suffix string) (*domain.Account, error) {
	column, arg := accountColumn(ref)
	var account domain.Account
	query := fmt.Sprintf(`SELECT %s FROM account WHERE %s = $1%s`, accountColumns, column, suffix)
	err := q.GetContext(ctx, &account, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account %s: %w", ref, err)
	}
	return &account, nil
}

// HandleExists reports whether the handle is already in use.
func (r *AccountRepository) HandleExists(ctx context.Context, q repository.DBExecutor, handle string) (bool, error) {
	var exists bool
	err := q.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM account WHERE userid = $1)`, handle)
	if err != nil {
		return false, fmt.Errorf("failed to check user id %q: %w", handle, err)
	}
	return exists, nil
}

// GetBalance returns the balance of an account.
func (r *AccountRepository) GetBalance(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef) (decimal.Decimal, error) {
	column, arg := accountColumn(ref)
	var balance decimal.Decimal
	err := q.GetContext(ctx, &balance, fmt.Sprintf(`SELECT balance FROM account WHERE %s = $1`, column), arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, util.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to get balance of %s: %w", ref, err)
	}
	return balance, nil
}

// AdjustBalance applies delta in one read-modify-write statement.
// A decrement that would make the balance negative affects no row and reports ErrInsufficientFunds.
func (r *AccountRepository) AdjustBalance(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef, delta decimal.Decimal) error {
	column, arg := accountColumn(ref)
	query := fmt.Sprintf(`UPDATE account SET balance = balance + $1, updated_at = $2
              WHERE %s = $3 AND balance + $1 >= 0`, column)
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), arg)
	if err != nil {
		return fmt.Errorf("failed to adjust balance of %s: %w", ref, translate(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after adjusting balance of %s: %w", ref, err)
	}
	if rowsAffected == 1 {
		return nil
	}

	var exists bool
	err = q.GetContext(ctx, &exists, fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM account WHERE %s = $1)`, column), arg)
	if err != nil {
		return fmt.Errorf("failed to check account %s: %w", ref, err)
	}
	if !exists {
		return util.ErrNotFound
	}
	return util.ErrInsufficientFunds
}

// UpdateCredential replaces the stored secret hash.
func (r *AccountRepository) UpdateCredential(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef, secretHash string) error {
	return r.update(ctx, q, ref, "password", `password = $1`, secretHash)
}

// UpdatePin replaces the stored PIN hash.
func (r *AccountRepository) UpdatePin(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef, pinHash string) error {
	return r.update(ctx, q, ref, "transaction pin", `transaction_pin = $1`, pinHash)
}

// UpdateName replaces the holder's name fields.
func (r *AccountRepository) UpdateName(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef, name domain.Name) error {
	return r.update(ctx, q, ref, "name", `name = $1, middle_name = $2, surname = $3`, name.Given, name.Middle, name.Family)
}

// update runs "UPDATE account SET <set>, updated_at = now WHERE <ref>" with args bound first.
func (r *AccountRepository) update(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef, what, set string, args ...interface{}) error {
	column, arg := accountColumn(ref)
	n := len(args)
	query := fmt.Sprintf(`UPDATE account SET %s, updated_at = $%d WHERE %s = $%d`, set, n+1, column, n+2)
	args = append(args, time.Now().UTC(), arg)

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s of %s: %w", what, ref, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating %s of %s: %w", what, ref, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
