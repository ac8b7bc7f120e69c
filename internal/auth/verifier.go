package auth

import (
	"context"
	"errors"
	"fmt"
	"io"

	"lena-bank/internal/domain"
	"lena-bank/internal/repository"
	"lena-bank/internal/util"
)

// DefaultMaxAttempts is the attempt budget per verification.
const DefaultMaxAttempts = 3

// AccountReader is the part of the account store the verifier needs.
type AccountReader interface {
	GetAccount(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef) (*domain.Account, error)
}

// Verifier checks secrets and PINs with a per-call attempt budget.
// Nothing is remembered between calls: each verification starts a fresh counter.
type Verifier struct {
	db          repository.DBExecutor
	accounts    AccountReader
	hasher      Hasher
	maxAttempts int
}

// NewVerifier creates a Verifier. A maxAttempts below 1 selects DefaultMaxAttempts.
func NewVerifier(db repository.DBExecutor, accounts AccountReader, hasher Hasher, maxAttempts int) *Verifier {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Verifier{db: db, accounts: accounts, hasher: hasher, maxAttempts: maxAttempts}
}

// MaxAttempts returns the attempt budget of each verification.
func (v *Verifier) MaxAttempts() int { return v.maxAttempts }

// VerifySecret checks password attempts for the account.
// It returns nil on the first match, util.ErrAttemptsExhausted after maxAttempts
// consecutive mismatches and util.ErrAuth when the source runs dry first.
func (v *Verifier) VerifySecret(ctx context.Context, ref domain.AccountRef, src AttemptSource) error {
	account, err := v.accounts.GetAccount(ctx, v.db, ref)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if err := v.Check(ctx, account.SecretHash, ValidateSecretFormat, src); err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	return nil
}

// VerifyPin checks transaction PIN attempts for the account, with the same contract as VerifySecret.
func (v *Verifier) VerifyPin(ctx context.Context, ref domain.AccountRef, src AttemptSource) error {
	account, err := v.accounts.GetAccount(ctx, v.db, ref)
	if err != nil {
		return fmt.Errorf("verify pin: %w", err)
	}
	if err := v.Check(ctx, account.PinHash, ValidatePinFormat, src); err != nil {
		return fmt.Errorf("verify pin: %w", err)
	}
	return nil
}

// Check pulls attempts from src and compares them against hash.
// Malformed attempts are never hashed but still use up an attempt.
func (v *Verifier) Check(ctx context.Context, hash string, wellFormed func(string) bool, src AttemptSource) error {
	for remaining := v.maxAttempts; remaining > 0; remaining-- {
		attempt, err := src.Next(ctx, remaining)
		if errors.Is(err, io.EOF) {
			return util.ErrAuth
		}
		if err != nil {
			return err
		}
		if wellFormed(attempt) && v.hasher.Matches(hash, attempt) {
			return nil
		}
	}
	return util.ErrAttemptsExhausted
}
