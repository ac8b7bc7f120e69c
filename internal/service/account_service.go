// internal/service/account_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"lena-bank/internal/auth"
	"lena-bank/internal/domain"
	"lena-bank/internal/repository"
	"lena-bank/internal/util"
	"lena-bank/pkg/db"

	"github.com/shopspring/decimal"
)

// Account numbers are four digits.
const (
	MinAccountNumber = 1001
	MaxAccountNumber = 9999
)

// maxNumberAttempts bounds the generate-and-retry loop for a free account number.
const maxNumberAttempts = 20

// OpenAccountParams holds the fields collected when opening an account.
type OpenAccountParams struct {
	Name           domain.Name
	Handle         string
	Secret         string
	Pin            string
	OpeningBalance decimal.Decimal
}

// AccountService defines account opening, login, lookups and profile changes.
type AccountService interface {
	OpenAccount(ctx context.Context, params OpenAccountParams) (*domain.Account, *domain.LedgerEntry, error)
	Login(ctx context.Context, ref domain.AccountRef, secret auth.AttemptSource) (*domain.Account, error)
	GetProfile(ctx context.Context, ref domain.AccountRef) (*domain.Account, error)
	FindAccountNumberByHandle(ctx context.Context, handle string) (int, error)
	FindHandleByAccountNumber(ctx context.Context, number int) (string, error)
	ChangeSecret(ctx context.Context, ref domain.AccountRef, current auth.AttemptSource, newSecret string) error
	ChangePin(ctx context.Context, ref domain.AccountRef, currentPin auth.AttemptSource, newPin string) error
	UpdateName(ctx context.Context, ref domain.AccountRef, secret auth.AttemptSource, name domain.Name) error
	ResetSecret(ctx context.Context, ref domain.AccountRef, givenName, familyName, newSecret string) error
}

// accountService implements the AccountService interface.
type accountService struct {
	dbExecutor  repository.DBExecutor
	accountRepo repository.AccountRepository
	ledgerRepo  repository.LedgerRepository
	verifier    CredentialVerifier
	hasher      auth.Hasher
	tx          *txRunner
	nextNumber  func() int
	logger      *slog.Logger
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	verifier CredentialVerifier,
	hasher auth.Hasher,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) AccountService {
	return &accountService{
		dbExecutor:  dbExecutor,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		verifier:    verifier,
		hasher:      hasher,
		tx: &txRunner{
			dbBeginner: dbBeginner,
			beginTx:    beginTx,
			commitTx:   commitTx,
			rollbackTx: rollbackTx,
			logger:     logger,
		},
		nextNumber: RandomAccountNumber,
		logger:     logger,
	}
}

// RandomAccountNumber draws a number uniformly from [MinAccountNumber, MaxAccountNumber].
func RandomAccountNumber() int {
	return MinAccountNumber + rand.IntN(MaxAccountNumber-MinAccountNumber+1)
}

func validateName(name domain.Name) error {
	if !auth.ValidateName(name.Given, false) {
		return util.Invalid("given_name", "only letters allowed")
	}
	if !auth.ValidateName(name.Middle, true) {
		return util.Invalid("middle_name", "only letters allowed")
	}
	if !auth.ValidateName(name.Family, false) {
		return util.Invalid("family_name", "only letters allowed")
	}
	return nil
}

func validateSecret(secret string) error {
	if !auth.ValidateSecretFormat(secret) {
		return util.Invalid("password", fmt.Sprintf("must be at least %d characters without '.' or ','", auth.MinSecretLength))
	}
	return nil
}

func validatePin(pin string) error {
	if !auth.ValidatePinFormat(pin) {
		return util.Invalid("pin", "must be exactly 4 numeric digits")
	}
	return nil
}

// OpenAccount validates the fields, stores the account with hashed credentials and
// records the opening balance as a deposit when it is positive.
func (s *accountService) OpenAccount(ctx context.Context, params OpenAccountParams) (*domain.Account, *domain.LedgerEntry, error) {
	if err := validateName(params.Name); err != nil {
		return nil, nil, fmt.Errorf("open account: %w", err)
	}
	if !auth.ValidateHandleFormat(params.Handle, params.Name.Given, params.Name.Family) {
		want := strings.ToLower(params.Name.Given) + "." + strings.ToLower(params.Name.Family) + "@XXXX"
		return nil, nil, fmt.Errorf("open account: %w", util.Invalid("user_id", "must be in format "+want))
	}
	if err := validateSecret(params.Secret); err != nil {
		return nil, nil, fmt.Errorf("open account: %w", err)
	}
	if err := validatePin(params.Pin); err != nil {
		return nil, nil, fmt.Errorf("open account: %w", err)
	}
	if params.OpeningBalance.IsNegative() {
		return nil, nil, fmt.Errorf("open account: %w", util.Invalid("balance", "cannot be negative"))
	}
	if err := validateScale("balance", params.OpeningBalance); err != nil {
		return nil, nil, fmt.Errorf("open account: %w", err)
	}

	// Fast path only; the unique constraint on the handle is authoritative.
	taken, err := s.accountRepo.HandleExists(ctx, s.dbExecutor, params.Handle)
	if err != nil {
		return nil, nil, fmt.Errorf("open account: %w", err)
	}
	if taken {
		return nil, nil, fmt.Errorf("open account: %w", util.ErrDuplicateHandle)
	}

	secretHash, err := s.hasher.Hash(params.Secret)
	if err != nil {
		return nil, nil, fmt.Errorf("open account: %w", err)
	}
	pinHash, err := s.hasher.Hash(params.Pin)
	if err != nil {
		return nil, nil, fmt.Errorf("open account: %w", err)
	}

	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		account := domain.NewAccount(s.nextNumber(), params.Name, params.Handle, secretHash, pinHash, params.OpeningBalance)
		entry, err := s.insertAccount(ctx, account)
		if errors.Is(err, util.ErrAccountNumberTaken) {
			s.logger.DebugContext(ctx, "Account number collision, retrying", "number", account.Number, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		s.logger.InfoContext(ctx, "Account opened", "account", account.Number, "user_id", account.Handle)
		return account, entry, nil
	}
	return nil, nil, fmt.Errorf("open account: no free account number after %d attempts: %w", maxNumberAttempts, util.ErrAccountNumberTaken)
}

// insertAccount stores the account and its opening deposit in one transaction.
func (s *accountService) insertAccount(ctx context.Context, account *domain.Account) (*domain.LedgerEntry, error) {
	var entry *domain.LedgerEntry
	err := s.tx.run(ctx, "open account", func(q repository.DBExecutor) error {
		if err := s.accountRepo.CreateAccount(ctx, q, account); err != nil {
			return err
		}
		if !account.Balance.IsPositive() {
			return nil
		}
		entry = domain.NewDepositEntry(account, account.Balance, descOpeningBalance)
		if err := s.ledgerRepo.Append(ctx, q, entry); err != nil {
			return fmt.Errorf("failed to record opening balance: %w", err)
		}
		return nil
	})
	return entry, err
}

// Login verifies the password of an account and returns it.
func (s *accountService) Login(ctx context.Context, ref domain.AccountRef, secret auth.AttemptSource) (*domain.Account, error) {
	if !ref.IsNumber() && !auth.ValidateHandleSyntax(ref.Handle) {
		return nil, fmt.Errorf("login: %w", util.Invalid("user_id", "must be in format name.surname@xxxx"))
	}
	account, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, ref)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := s.verifier.VerifySecret(ctx, account.Ref(), secret); err != nil {
		s.logger.WarnContext(ctx, "Login failed", "account", account.Number, "error", err)
		return nil, fmt.Errorf("login: %w", err)
	}
	return account, nil
}

// GetProfile returns the stored account record.
func (s *accountService) GetProfile(ctx context.Context, ref domain.AccountRef) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, ref)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return account, nil
}

// FindAccountNumberByHandle looks up the account number behind a user id.
func (s *accountService) FindAccountNumberByHandle(ctx context.Context, handle string) (int, error) {
	if !auth.ValidateHandleSyntax(handle) {
		return 0, fmt.Errorf("find account number: %w", util.Invalid("user_id", "must be in format name.surname@xxxx"))
	}
	account, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, domain.ByHandle(handle))
	if err != nil {
		return 0, fmt.Errorf("find account number: %w", err)
	}
	return account.Number, nil
}

// FindHandleByAccountNumber looks up the user id behind an account number.
func (s *accountService) FindHandleByAccountNumber(ctx context.Context, number int) (string, error) {
	account, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, domain.ByNumber(number))
	if err != nil {
		return "", fmt.Errorf("find user id: %w", err)
	}
	return account.Handle, nil
}

// ChangeSecret replaces the password after verifying the current one.
func (s *accountService) ChangeSecret(ctx context.Context, ref domain.AccountRef, current auth.AttemptSource, newSecret string) error {
	if err := validateSecret(newSecret); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if err := s.verifier.VerifySecret(ctx, ref, current); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	hash, err := s.hasher.Hash(newSecret)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if err := s.accountRepo.UpdateCredential(ctx, s.dbExecutor, ref, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	s.logger.InfoContext(ctx, "Password changed", "account", ref.String())
	return nil
}

// ChangePin replaces the transaction PIN after verifying the current one.
func (s *accountService) ChangePin(ctx context.Context, ref domain.AccountRef, currentPin auth.AttemptSource, newPin string) error {
	if err := validatePin(newPin); err != nil {
		return fmt.Errorf("change pin: %w", err)
	}
	if err := s.verifier.VerifyPin(ctx, ref, currentPin); err != nil {
		return fmt.Errorf("change pin: %w", err)
	}
	hash, err := s.hasher.Hash(newPin)
	if err != nil {
		return fmt.Errorf("change pin: %w", err)
	}
	if err := s.accountRepo.UpdatePin(ctx, s.dbExecutor, ref, hash); err != nil {
		return fmt.Errorf("change pin: %w", err)
	}
	s.logger.InfoContext(ctx, "Transaction PIN changed", "account", ref.String())
	return nil
}

// UpdateName replaces the holder's names after verifying the password.
// The user id keeps its original form.
func (s *accountService) UpdateName(ctx context.Context, ref domain.AccountRef, secret auth.AttemptSource, name domain.Name) error {
	if err := validateName(name); err != nil {
		return fmt.Errorf("update name: %w", err)
	}
	if err := s.verifier.VerifySecret(ctx, ref, secret); err != nil {
		return fmt.Errorf("update name: %w", err)
	}
	if err := s.accountRepo.UpdateName(ctx, s.dbExecutor, ref, name); err != nil {
		return fmt.Errorf("update name: %w", err)
	}
	s.logger.InfoContext(ctx, "Name updated", "account", ref.String())
	return nil
}

// ResetSecret sets a new password for a holder who forgot theirs, after matching
// the given and family names case-insensitively.
func (s *accountService) ResetSecret(ctx context.Context, ref domain.AccountRef, givenName, familyName, newSecret string) error {
	if err := validateSecret(newSecret); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	account, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, ref)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(givenName), account.GivenName) ||
		!strings.EqualFold(strings.TrimSpace(familyName), account.FamilyName) {
		s.logger.WarnContext(ctx, "Password reset rejected", "account", account.Number)
		return fmt.Errorf("reset password: %w", util.ErrAuth)
	}
	hash, err := s.hasher.Hash(newSecret)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if err := s.accountRepo.UpdateCredential(ctx, s.dbExecutor, account.Ref(), hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	s.logger.InfoContext(ctx, "Password reset", "account", account.Number)
	return nil
}
