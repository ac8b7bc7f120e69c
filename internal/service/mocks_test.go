// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"iter"
	"time"

	"lena-bank/internal/auth"
	"lena-bank/internal/domain"
	"lena-bank/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

func (m *MockDBExecutor) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	argsCalled := m.Called(ctx, query, args)
	if argsCalled.Get(0) == nil {
		return nil, argsCalled.Error(1)
	}
	return argsCalled.Get(0).(*sqlx.Rows), argsCalled.Error(1)
}

// MockAccountRepository is a mock implementation of repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	args := m.Called(ctx, q, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAccount(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef) (*domain.Account, error) {
	args := m.Called(ctx, q, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountForUpdate(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef) (*domain.Account, error) {
	args := m.Called(ctx, q, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) HandleExists(ctx context.Context, q repository.DBExecutor, handle string) (bool, error) {
	args := m.Called(ctx, q, handle)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) GetBalance(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef) (decimal.Decimal, error) {
	args := m.Called(ctx, q, ref)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) AdjustBalance(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef, delta decimal.Decimal) error {
	args := m.Called(ctx, q, ref, delta)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateCredential(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef, secretHash string) error {
	args := m.Called(ctx, q, ref, secretHash)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdatePin(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef, pinHash string) error {
	args := m.Called(ctx, q, ref, pinHash)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateName(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef, name domain.Name) error {
	args := m.Called(ctx, q, ref, name)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of repository.LedgerRepository.
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, q repository.DBExecutor, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, q, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) QueryRecent(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef, limit int) iter.Seq2[domain.LedgerEntry, error] {
	args := m.Called(ctx, q, ref, limit)
	return args.Get(0).(iter.Seq2[domain.LedgerEntry, error])
}

func (m *MockLedgerRepository) QueryWindow(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef, since time.Time) iter.Seq2[domain.LedgerEntry, error] {
	args := m.Called(ctx, q, ref, since)
	return args.Get(0).(iter.Seq2[domain.LedgerEntry, error])
}

// MockVerifier is a mock implementation of CredentialVerifier.
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifySecret(ctx context.Context, ref domain.AccountRef, src auth.AttemptSource) error {
	args := m.Called(ctx, ref, src)
	return args.Error(0)
}

func (m *MockVerifier) VerifyPin(ctx context.Context, ref domain.AccountRef, src auth.AttemptSource) error {
	args := m.Called(ctx, ref, src)
	return args.Error(0)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It also implicitly implements repository.DBExecutor for testing purposes
// by embedding MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor // Embed MockDBExecutor to satisfy repository.DBExecutor interface
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// decimalEq matches a decimal argument by value rather than representation.
func decimalEq(want decimal.Decimal) interface{} {
	return mock.MatchedBy(func(got decimal.Decimal) bool { return got.Equal(want) })
}
