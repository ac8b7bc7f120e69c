package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"lena-bank/internal/domain"
	"lena-bank/internal/repository"
	"lena-bank/internal/util"
)

type stubAccounts struct {
	account *domain.Account
	err     error
}

func (s *stubAccounts) GetAccount(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef) (*domain.Account, error) {
	return s.account, s.err
}

// countingSource records how many attempts were pulled.
type countingSource struct {
	values    []string
	pulled    int
	remaining []int
}

func (c *countingSource) Next(ctx context.Context, remaining int) (string, error) {
	c.remaining = append(c.remaining, remaining)
	v := c.values[c.pulled%len(c.values)]
	c.pulled++
	return v, nil
}

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	hasher := NewBcryptHasher(bcrypt.MinCost)
	secretHash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	pinHash, err := hasher.Hash("4321")
	require.NoError(t, err)

	account := &domain.Account{Number: 1001, Handle: "john.doe@1234", SecretHash: secretHash, PinHash: pinHash}
	return NewVerifier(nil, &stubAccounts{account: account}, hasher, 3)
}

func TestVerifyPin_ExhaustedAfterExactlyMaxAttempts(t *testing.T) {
	v := newTestVerifier(t)
	src := &countingSource{values: []string{"0000"}}

	err := v.VerifyPin(context.Background(), domain.ByNumber(1001), src)

	assert.ErrorIs(t, err, util.ErrAttemptsExhausted)
	assert.ErrorIs(t, err, util.ErrAuth)
	assert.Equal(t, 3, src.pulled)
	assert.Equal(t, []int{3, 2, 1}, src.remaining)
}

func TestVerifyPin_VerifiedWithinBudget(t *testing.T) {
	v := newTestVerifier(t)

	src := &countingSource{values: []string{"1111", "2222", "4321"}}
	require.NoError(t, v.VerifyPin(context.Background(), domain.ByNumber(1001), src))
	assert.Equal(t, 3, src.pulled)

	src = &countingSource{values: []string{"4321"}}
	require.NoError(t, v.VerifyPin(context.Background(), domain.ByNumber(1001), src))
	assert.Equal(t, 1, src.pulled, "a match stops immediately")
}

func TestVerifyPin_MalformedAttemptCounts(t *testing.T) {
	v := newTestVerifier(t)

	err := v.VerifyPin(context.Background(), domain.ByNumber(1001), Attempts("12", "abcd", "43210"))
	assert.ErrorIs(t, err, util.ErrAttemptsExhausted)
}

func TestVerifySecret(t *testing.T) {
	v := newTestVerifier(t)
	ctx := context.Background()

	assert.NoError(t, v.VerifySecret(ctx, domain.ByHandle("john.doe@1234"), Attempts("secret1")))
	assert.NoError(t, v.VerifySecret(ctx, domain.ByHandle("john.doe@1234"), Attempts("nope12", "secret1")))
	assert.ErrorIs(t, v.VerifySecret(ctx, domain.ByHandle("john.doe@1234"), Attempts("a1b2c3", "d4e5f6", "g7h8i9")), util.ErrAttemptsExhausted)
}

func TestVerify_SourceRunsDry(t *testing.T) {
	v := newTestVerifier(t)

	err := v.VerifySecret(context.Background(), domain.ByNumber(1001), Attempts("wrong1"))

	assert.ErrorIs(t, err, util.ErrAuth)
	assert.NotErrorIs(t, err, util.ErrAttemptsExhausted)
}

func TestVerify_CounterIsPerCall(t *testing.T) {
	v := newTestVerifier(t)
	ctx := context.Background()

	require.ErrorIs(t, v.VerifyPin(ctx, domain.ByNumber(1001), Attempts("0000", "0000", "0000")), util.ErrAttemptsExhausted)
	assert.NoError(t, v.VerifyPin(ctx, domain.ByNumber(1001), Attempts("4321")), "no lockout carries over")
}

func TestVerify_UnknownAccount(t *testing.T) {
	v := NewVerifier(nil, &stubAccounts{err: util.ErrNotFound}, NewBcryptHasher(bcrypt.MinCost), 3)

	err := v.VerifyPin(context.Background(), domain.ByNumber(9999), Attempts("1234"))
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestVerify_SourceError(t *testing.T) {
	v := newTestVerifier(t)
	boom := errors.New("terminal closed")

	err := v.VerifyPin(context.Background(), domain.ByNumber(1001), AttemptFunc(func(context.Context, int) (string, error) {
		return "", boom
	}))
	assert.ErrorIs(t, err, boom)
}

func TestNewVerifier_DefaultsAttempts(t *testing.T) {
	v := NewVerifier(nil, &stubAccounts{}, NewBcryptHasher(bcrypt.MinCost), 0)
	assert.Equal(t, DefaultMaxAttempts, v.MaxAttempts())
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(1)
	hash, err := h.Hash("1234")
	require.NoError(t, err)

	assert.NotEqual(t, "1234", hash)
	assert.True(t, h.Matches(hash, "1234"))
	assert.False(t, h.Matches(hash, "1235"))
}
