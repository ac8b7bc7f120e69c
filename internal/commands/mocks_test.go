// internal/commands/mocks_test.go
package commands

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"lena-bank/internal/auth"
	"lena-bank/internal/domain"
	"lena-bank/internal/service"
)
// MockMoneyService is a mock implementation of service.MoneyService.
type MockMoneyService struct {
	mock.Mock
}

func (m *MockMoneyService) Deposit(ctx context.Context, ref domain.AccountRef, amount decimal.Decimal, pin auth.AttemptSource) (*domain.Account, *domain.LedgerEntry, error) {
	args := m.Called(ctx, ref, amount, pin)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Account), args.Get(1).(*domain.LedgerEntry), args.Error(2)
}

func (m *MockMoneyService) Withdraw(ctx context.Context, ref domain.AccountRef, amount decimal.Decimal, pin auth.AttemptSource) (*domain.Account, *domain.LedgerEntry, error) {
	args := m.Called(ctx, ref, amount, pin)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Account), args.Get(1).(*domain.LedgerEntry), args.Error(2)
}

func (m *MockMoneyService) Transfer(ctx context.Context, from, to domain.AccountRef, amount decimal.Decimal, pin auth.AttemptSource) (*domain.Account, *domain.Account, *domain.LedgerEntry, error) {
	args := m.Called(ctx, from, to, amount, pin)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*domain.Account), args.Get(1).(*domain.Account), args.Get(2).(*domain.LedgerEntry), args.Error(3)
}

func (m *MockMoneyService) GetBalance(ctx context.Context, ref domain.AccountRef) (decimal.Decimal, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockMoneyService) RecentHistory(ctx context.Context, ref domain.AccountRef, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, ref, limit)
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockMoneyService) WindowHistory(ctx context.Context, ref domain.AccountRef, window time.Duration) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, ref, window)
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// MockAccountService is a mock implementation of service.AccountService.
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) OpenAccount(ctx context.Context, params service.OpenAccountParams) (*domain.Account, *domain.LedgerEntry, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	entry, _ := args.Get(1).(*domain.LedgerEntry)
	return args.Get(0).(*domain.Account), entry, args.Error(2)
}

func (m *MockAccountService) Login(ctx context.Context, ref domain.AccountRef, secret auth.AttemptSource) (*domain.Account, error) {
	args := m.Called(ctx, ref, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetProfile(ctx context.Context, ref domain.AccountRef) (*domain.Account, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) FindAccountNumberByHandle(ctx context.Context, handle string) (int, error) {
	args := m.Called(ctx, handle)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountService) FindHandleByAccountNumber(ctx context.Context, number int) (string, error) {
	args := m.Called(ctx, number)
	return args.String(0), args.Error(1)
}

func (m *MockAccountService) ChangeSecret(ctx context.Context, ref domain.AccountRef, current auth.AttemptSource, newSecret string) error {
	return m.Called(ctx, ref, current, newSecret).Error(0)
}

func (m *MockAccountService) ChangePin(ctx context.Context, ref domain.AccountRef, currentPin auth.AttemptSource, newPin string) error {
	return m.Called(ctx, ref, currentPin, newPin).Error(0)
}

func (m *MockAccountService) UpdateName(ctx context.Context, ref domain.AccountRef, secret auth.AttemptSource, name domain.Name) error {
	return m.Called(ctx, ref, secret, name).Error(0)
}

func (m *MockAccountService) ResetSecret(ctx context.Context, ref domain.AccountRef, givenName, familyName, newSecret string) error {
	return m.Called(ctx, ref, givenName, familyName, newSecret).Error(0)
}

