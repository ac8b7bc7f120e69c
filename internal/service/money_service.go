// internal/service/money_service.go
package service

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"lena-bank/internal/auth"
	"lena-bank/internal/domain"
	"lena-bank/internal/repository"
	"lena-bank/internal/util"
	"lena-bank/pkg/db"

	"github.com/shopspring/decimal"
)

// Ledger descriptions written by the engine.
const (
	descDeposit        = "Deposit"
	descWithdraw       = "Withdrawal"
	descOpeningBalance = "Initial deposit during account creation"
)

// CredentialVerifier checks secrets and PINs against the account store.
// *auth.Verifier implements it.
type CredentialVerifier interface {
	VerifySecret(ctx context.Context, ref domain.AccountRef, src auth.AttemptSource) error
	VerifyPin(ctx context.Context, ref domain.AccountRef, src auth.AttemptSource) error
}

// MaxHistoryDays bounds the "last N days" views callers may ask for.
const MaxHistoryDays = 36500

// HistoryPolicy sets the default shape of the two ledger views.
type HistoryPolicy struct {
	Limit  int           // entries in the "latest transactions" view
	Window time.Duration // trailing window of the "recent days" view
}

// MoneyService defines the deposit, withdraw and transfer engine plus balance and history reads.
//
// Every money-moving operation runs in the same order: validate the amount and
// preconditions, verify the PIN, then apply the balance change and its ledger entry
// as one atomic unit.
type MoneyService interface {
	Deposit(ctx context.Context, ref domain.AccountRef, amount decimal.Decimal, pin auth.AttemptSource) (*domain.Account, *domain.LedgerEntry, error)
	Withdraw(ctx context.Context, ref domain.AccountRef, amount decimal.Decimal, pin auth.AttemptSource) (*domain.Account, *domain.LedgerEntry, error)
	Transfer(ctx context.Context, from, to domain.AccountRef, amount decimal.Decimal, pin auth.AttemptSource) (*domain.Account, *domain.Account, *domain.LedgerEntry, error)
	GetBalance(ctx context.Context, ref domain.AccountRef) (decimal.Decimal, error)
	RecentHistory(ctx context.Context, ref domain.AccountRef, limit int) ([]domain.LedgerEntry, error)
	WindowHistory(ctx context.Context, ref domain.AccountRef, window time.Duration) ([]domain.LedgerEntry, error)
}

// moneyService implements the MoneyService interface.
type moneyService struct {
	dbExecutor  repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	accountRepo repository.AccountRepository
	ledgerRepo  repository.LedgerRepository
	verifier    CredentialVerifier
	tx          *txRunner
	policy      HistoryPolicy
	now         func() time.Time
	logger      *slog.Logger
}

// NewMoneyService creates a new instance of MoneyService.
func NewMoneyService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	verifier CredentialVerifier,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	policy HistoryPolicy,
	logger *slog.Logger,
) MoneyService {
	if policy.Limit < 1 {
		policy.Limit = 5
	}
	if policy.Window <= 0 {
		policy.Window = 30 * 24 * time.Hour
	}
	return &moneyService{
		dbExecutor:  dbExecutor,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		verifier:    verifier,
		tx: &txRunner{
			dbBeginner: dbBeginner,
			beginTx:    beginTx,
			commitTx:   commitTx,
			rollbackTx: rollbackTx,
			logger:     logger,
		},
		policy: policy,
		now:    time.Now,
		logger: logger,
	}
}

// amountScale is the number of decimal places balances and ledger amounts are stored with.
const amountScale = 2

func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return util.Invalid("amount", "must be positive")
	}
	return validateScale("amount", amount)
}

// validateScale rejects values with more decimal places than the store keeps.
func validateScale(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(amountScale)) {
		return util.Invalid(field, "at most 2 decimal places")
	}
	return nil
}

// Deposit adds money to an account after PIN verification.
func (s *moneyService) Deposit(ctx context.Context, ref domain.AccountRef, amount decimal.Decimal, pin auth.AttemptSource) (*domain.Account, *domain.LedgerEntry, error) {
	if err := validateAmount(amount); err != nil {
		return nil, nil, fmt.Errorf("deposit: %w", err)
	}

	account, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, ref)
	if err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to get account %s: %w", ref, err)
	}

	if err := s.verifier.VerifyPin(ctx, account.Ref(), pin); err != nil {
		return nil, nil, fmt.Errorf("deposit: %w", err)
	}

	var updated *domain.Account
	entry := domain.NewDepositEntry(account, amount, descDeposit)
	err = s.tx.run(ctx, "deposit", func(q repository.DBExecutor) error {
		if err := s.accountRepo.AdjustBalance(ctx, q, account.Ref(), amount); err != nil {
			return fmt.Errorf("failed to update account balance: %w", err)
		}
		if err := s.ledgerRepo.Append(ctx, q, entry); err != nil {
			return fmt.Errorf("failed to record ledger entry: %w", err)
		}
		var err error
		updated, err = s.accountRepo.GetAccount(ctx, q, account.Ref())
		if err != nil {
			return fmt.Errorf("failed to re-fetch updated account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "Deposit committed",
		"account", account.Number, "amount", amount.StringFixed(2), "reference", entry.Reference)
	return updated, entry, nil
}

// Withdraw takes money out of an account after PIN verification.
func (s *moneyService) Withdraw(ctx context.Context, ref domain.AccountRef, amount decimal.Decimal, pin auth.AttemptSource) (*domain.Account, *domain.LedgerEntry, error) {
	if err := validateAmount(amount); err != nil {
		return nil, nil, fmt.Errorf("withdraw: %w", err)
	}

	account, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, ref)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: failed to get account %s: %w", ref, err)
	}
	if account.Balance.LessThan(amount) {
		return nil, nil, fmt.Errorf("withdraw: %w", util.ErrInsufficientFunds)
	}

	if err := s.verifier.VerifyPin(ctx, account.Ref(), pin); err != nil {
		return nil, nil, fmt.Errorf("withdraw: %w", err)
	}

	var updated *domain.Account
	entry := domain.NewWithdrawEntry(account, amount, descWithdraw)
	err = s.tx.run(ctx, "withdraw", func(q repository.DBExecutor) error {
		// The balance may have moved while the PIN was being entered.
		locked, err := s.accountRepo.GetAccountForUpdate(ctx, q, account.Ref())
		if err != nil {
			return fmt.Errorf("failed to lock account: %w", err)
		}
		if locked.Balance.LessThan(amount) {
			return util.ErrInsufficientFunds
		}
		if err := s.accountRepo.AdjustBalance(ctx, q, account.Ref(), amount.Neg()); err != nil {
			return fmt.Errorf("failed to update account balance: %w", err)
		}
		if err := s.ledgerRepo.Append(ctx, q, entry); err != nil {
			return fmt.Errorf("failed to record ledger entry: %w", err)
		}
		updated, err = s.accountRepo.GetAccount(ctx, q, account.Ref())
		if err != nil {
			return fmt.Errorf("failed to re-fetch updated account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "Withdrawal committed",
		"account", account.Number, "amount", amount.StringFixed(2), "reference", entry.Reference)
	return updated, entry, nil
}

// Transfer moves money between two accounts. The debit, the credit and the ledger
// entry commit together or not at all.
func (s *moneyService) Transfer(ctx context.Context, from, to domain.AccountRef, amount decimal.Decimal, pin auth.AttemptSource) (*domain.Account, *domain.Account, *domain.LedgerEntry, error) {
	if err := validateAmount(amount); err != nil {
		return nil, nil, nil, fmt.Errorf("transfer: %w", err)
	}
	if from.Same(to) {
		return nil, nil, nil, fmt.Errorf("transfer: %w", util.ErrSameAccountTransfer)
	}

	source, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, from)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("transfer: failed to get source account %s: %w", from, err)
	}
	destination, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, to)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("transfer: failed to get destination account %s: %w", to, err)
	}
	if source.Number == destination.Number {
		return nil, nil, nil, fmt.Errorf("transfer: %w", util.ErrSameAccountTransfer)
	}
	if source.Balance.LessThan(amount) {
		return nil, nil, nil, fmt.Errorf("transfer: %w", util.ErrInsufficientFunds)
	}

	if err := s.verifier.VerifyPin(ctx, source.Ref(), pin); err != nil {
		return nil, nil, nil, fmt.Errorf("transfer: %w", err)
	}

	var updatedSource, updatedDestination *domain.Account
	entry := domain.NewTransferEntry(source, destination, amount, "Transfer to "+destination.Handle)
	err = s.tx.run(ctx, "transfer", func(q repository.DBExecutor) error {
		if err := s.lockPair(ctx, q, source.Number, destination.Number); err != nil {
			return err
		}
		balance, err := s.accountRepo.GetBalance(ctx, q, source.Ref())
		if err != nil {
			return fmt.Errorf("failed to re-read source balance: %w", err)
		}
		if balance.LessThan(amount) {
			return util.ErrInsufficientFunds
		}

		if err := s.accountRepo.AdjustBalance(ctx, q, source.Ref(), amount.Neg()); err != nil {
			return fmt.Errorf("failed to debit source account: %w", err)
		}
		if err := s.accountRepo.AdjustBalance(ctx, q, destination.Ref(), amount); err != nil {
			return fmt.Errorf("failed to credit destination account: %w", err)
		}
		if err := s.ledgerRepo.Append(ctx, q, entry); err != nil {
			return fmt.Errorf("failed to record ledger entry: %w", err)
		}

		updatedSource, err = s.accountRepo.GetAccount(ctx, q, source.Ref())
		if err != nil {
			return fmt.Errorf("failed to re-fetch updated source account: %w", err)
		}
		updatedDestination, err = s.accountRepo.GetAccount(ctx, q, destination.Ref())
		if err != nil {
			return fmt.Errorf("failed to re-fetch updated destination account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}

	s.logger.InfoContext(ctx, "Transfer committed",
		"from", source.Number, "to", destination.Number, "amount", amount.StringFixed(2), "reference", entry.Reference)
	return updatedSource, updatedDestination, entry, nil
}

// lockPair locks both account rows in ascending number order so that two opposite
// transfers cannot deadlock each other.
func (s *moneyService) lockPair(ctx context.Context, q repository.DBExecutor, a, b int) error {
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	for _, n := range []int{first, second} {
		if _, err := s.accountRepo.GetAccountForUpdate(ctx, q, domain.ByNumber(n)); err != nil {
			return fmt.Errorf("failed to lock account %s: %w", domain.FormatAccountNumber(n), err)
		}
	}
	return nil
}

// GetBalance returns the current balance of an account.
func (s *moneyService) GetBalance(ctx context.Context, ref domain.AccountRef) (decimal.Decimal, error) {
	balance, err := s.accountRepo.GetBalance(ctx, s.dbExecutor, ref)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get balance: failed to get account %s: %w", ref, err)
	}
	return balance, nil
}

// RecentHistory returns the latest ledger entries of an account, most recent first.
// A non-positive limit uses the configured default.
func (s *moneyService) RecentHistory(ctx context.Context, ref domain.AccountRef, limit int) ([]domain.LedgerEntry, error) {
	if limit < 1 {
		limit = s.policy.Limit
	}
	account, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, ref)
	if err != nil {
		return nil, fmt.Errorf("recent history: failed to get account %s: %w", ref, err)
	}
	entries, err := collect(s.ledgerRepo.QueryRecent(ctx, s.dbExecutor, account.Ref(), limit))
	if err != nil {
		return nil, fmt.Errorf("recent history: %w", err)
	}
	return entries, nil
}

// WindowHistory returns every ledger entry of an account inside the trailing window.
// A non-positive window uses the configured default.
func (s *moneyService) WindowHistory(ctx context.Context, ref domain.AccountRef, window time.Duration) ([]domain.LedgerEntry, error) {
	if window <= 0 {
		window = s.policy.Window
	}
	account, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, ref)
	if err != nil {
		return nil, fmt.Errorf("window history: failed to get account %s: %w", ref, err)
	}
	since := s.now().UTC().Add(-window)
	entries, err := collect(s.ledgerRepo.QueryWindow(ctx, s.dbExecutor, account.Ref(), since))
	if err != nil {
		return nil, fmt.Errorf("window history: %w", err)
	}
	return entries, nil
}

// collect drains a ledger sequence into a slice, stopping at the first error.
func collect(seq iter.Seq2[domain.LedgerEntry, error]) ([]domain.LedgerEntry, error) {
	entries := []domain.LedgerEntry{}
	for entry, err := range seq {
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
