// internal/service/memstore_test.go
package service

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"strings"
	"testing"
	"time"

	"lena-bank/internal/auth"
	"lena-bank/internal/domain"
	"lena-bank/internal/repository"
	"lena-bank/internal/util"
	"lena-bank/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// memState is one snapshot of the bank's tables.
type memState struct {
	accounts map[int]domain.Account
	entries  []domain.LedgerEntry
	nextID   int64
}

func (s *memState) clone() *memState {
	c := &memState{
		accounts: make(map[int]domain.Account, len(s.accounts)),
		entries:  append([]domain.LedgerEntry(nil), s.entries...),
		nextID:   s.nextID,
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	return c
}

func (s *memState) find(ref domain.AccountRef) (domain.Account, bool) {
	if ref.IsNumber() {
		a, ok := s.accounts[ref.Number]
		return a, ok
	}
	for _, a := range s.accounts {
		if a.Handle == ref.Handle {
			return a, true
		}
	}
	return domain.Account{}, false
}

var errRawSQL = errors.New("memstore: raw SQL is not supported")

// memStore is a transactional in-memory store. Reads through the store itself see
// committed state; a memTx works on a private copy that replaces it on commit.
type memStore struct {
	committed *memState
	// failAdjust, when set, is consulted before every balance change.
	failAdjust func(ref domain.AccountRef, delta decimal.Decimal) error
	begun      int
}

func newMemStore() *memStore {
	return &memStore{committed: &memState{accounts: map[int]domain.Account{}}}
}

func (s *memStore) GetContext(context.Context, interface{}, string, ...interface{}) error {
	return errRawSQL
}

func (s *memStore) SelectContext(context.Context, interface{}, string, ...interface{}) error {
	return errRawSQL
}

func (s *memStore) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errRawSQL
}

func (s *memStore) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return &sql.Row{}
}

func (s *memStore) QueryxContext(context.Context, string, ...interface{}) (*sqlx.Rows, error) {
	return nil, errRawSQL
}

func (s *memStore) beginTx(ctx context.Context, _ db.DBTxBeginner) (db.TxController, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.begun++
	return &memTx{memStore: s, staged: s.committed.clone()}, nil
}

func (s *memStore) state(q repository.DBExecutor) *memState {
	if tx, ok := q.(*memTx); ok {
		return tx.staged
	}
	return s.committed
}

func (s *memStore) balance(n int) decimal.Decimal {
	return s.committed.accounts[n].Balance
}

// memTx is a transaction over a memStore.
type memTx struct {
	*memStore
	staged *memState
	done   bool
}

func (tx *memTx) Commit() error {
	if tx.done {
		return sql.ErrTxDone
	}
	tx.done = true
	tx.memStore.committed = tx.staged
	return nil
}

func (tx *memTx) Rollback() error {
	if tx.done {
		return sql.ErrTxDone
	}
	tx.done = true
	return nil
}

type memAccountRepo struct{ store *memStore }

func (r *memAccountRepo) CreateAccount(_ context.Context, q repository.DBExecutor, account *domain.Account) error {
	st := r.store.state(q)
	if _, ok := st.accounts[account.Number]; ok {
		return util.ErrAccountNumberTaken
	}
	if _, ok := st.find(domain.ByHandle(account.Handle)); ok {
		return util.ErrDuplicateHandle
	}
	st.accounts[account.Number] = *account
	return nil
}

func (r *memAccountRepo) GetAccount(_ context.Context, q repository.DBExecutor, ref domain.AccountRef) (*domain.Account, error) {
	a, ok := r.store.state(q).find(ref)
	if !ok {
		return nil, util.ErrNotFound
	}
	return &a, nil
}

func (r *memAccountRepo) GetAccountForUpdate(ctx context.Context, q repository.DBExecutor, ref domain.AccountRef) (*domain.Account, error) {
	return r.GetAccount(ctx, q, ref)
}

func (r *memAccountRepo) HandleExists(_ context.Context, q repository.DBExecutor, handle string) (bool, error) {
	_, ok := r.store.state(q).find(domain.ByHandle(handle))
	return ok, nil
}

func (r *memAccountRepo) GetBalance(_ context.Context, q repository.DBExecutor, ref domain.AccountRef) (decimal.Decimal, error) {
	a, ok := r.store.state(q).find(ref)
	if !ok {
		return decimal.Zero, util.ErrNotFound
	}
	return a.Balance, nil
}

func (r *memAccountRepo) AdjustBalance(_ context.Context, q repository.DBExecutor, ref domain.AccountRef, delta decimal.Decimal) error {
	if r.store.failAdjust != nil {
		if err := r.store.failAdjust(ref, delta); err != nil {
			return err
		}
	}
	return r.modify(q, ref, func(a *domain.Account) error {
		next := a.Balance.Add(delta)
		if next.IsNegative() {
			return util.ErrInsufficientFunds
		}
		a.Balance = next
		return nil
	})
}

func (r *memAccountRepo) UpdateCredential(_ context.Context, q repository.DBExecutor, ref domain.AccountRef, secretHash string) error {
	return r.modify(q, ref, func(a *domain.Account) error { a.SecretHash = secretHash; return nil })
}

func (r *memAccountRepo) UpdatePin(_ context.Context, q repository.DBExecutor, ref domain.AccountRef, pinHash string) error {
	return r.modify(q, ref, func(a *domain.Account) error { a.PinHash = pinHash; return nil })
}

func (r *memAccountRepo) UpdateName(_ context.Context, q repository.DBExecutor, ref domain.AccountRef, name domain.Name) error {
	return r.modify(q, ref, func(a *domain.Account) error {
		a.GivenName, a.MiddleName, a.FamilyName = name.Given, name.Middle, name.Family
		return nil
	})
}

func (r *memAccountRepo) modify(q repository.DBExecutor, ref domain.AccountRef, fn func(a *domain.Account) error) error {
	st := r.store.state(q)
	a, ok := st.find(ref)
	if !ok {
		return util.ErrNotFound
	}
	if err := fn(&a); err != nil {
		return err
	}
	a.UpdatedAt = time.Now().UTC()
	st.accounts[a.Number] = a
	return nil
}

type memLedgerRepo struct{ store *memStore }

func (r *memLedgerRepo) Append(_ context.Context, q repository.DBExecutor, entry *domain.LedgerEntry) error {
	st := r.store.state(q)
	st.nextID++
	entry.ID = st.nextID
	st.entries = append(st.entries, *entry)
	return nil
}

func (r *memLedgerRepo) QueryRecent(_ context.Context, q repository.DBExecutor, ref domain.AccountRef, limit int) iter.Seq2[domain.LedgerEntry, error] {
	return r.query(q, ref, func(domain.LedgerEntry) bool { return true }, limit)
}

func (r *memLedgerRepo) QueryWindow(_ context.Context, q repository.DBExecutor, ref domain.AccountRef, since time.Time) iter.Seq2[domain.LedgerEntry, error] {
	return r.query(q, ref, func(e domain.LedgerEntry) bool { return !e.Timestamp.Before(since) }, -1)
}

func (r *memLedgerRepo) query(q repository.DBExecutor, ref domain.AccountRef, keep func(domain.LedgerEntry) bool, limit int) iter.Seq2[domain.LedgerEntry, error] {
	st := r.store.state(q)
	return func(yield func(domain.LedgerEntry, error) bool) {
		account, ok := st.find(ref)
		if !ok {
			return
		}
		n := 0
		for i := len(st.entries) - 1; i >= 0; i-- {
			e := st.entries[i]
			if !e.Involves(&account) || !keep(e) {
				continue
			}
			if limit >= 0 && n >= limit {
				return
			}
			n++
			if !yield(e, nil) {
				return
			}
		}
	}
}

// memBank wires both services to one memStore with real credential checks.
type memBank struct {
	store    *memStore
	money    MoneyService
	accounts AccountService
}

func newMemBank(t *testing.T) *memBank {
	t.Helper()
	store := newMemStore()
	accountRepo := &memAccountRepo{store: store}
	ledgerRepo := &memLedgerRepo{store: store}
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	verifier := auth.NewVerifier(store, accountRepo, hasher, auth.DefaultMaxAttempts)
	logger := util.DiscardLogger()

	money := NewMoneyService(nil, store, accountRepo, ledgerRepo, verifier,
		store.beginTx, db.CommitTx, db.NewRollbackTx(logger), HistoryPolicy{}, logger)
	accounts := NewAccountService(nil, store, accountRepo, ledgerRepo, verifier, hasher,
		store.beginTx, db.CommitTx, db.NewRollbackTx(logger), logger)

	next := 1000
	accounts.(*accountService).nextNumber = func() int {
		next++
		return next
	}
	return &memBank{store: store, money: money, accounts: accounts}
}

// open creates an account for given.family with PIN 1234 and password "secret1".
func (b *memBank) open(t *testing.T, given, family, balance string) *domain.Account {
	t.Helper()
	account, _, err := b.accounts.OpenAccount(context.Background(), OpenAccountParams{
		Name:           domain.Name{Given: given, Family: family},
		Handle:         strings.ToLower(given) + "." + strings.ToLower(family) + "@2024",
		Secret:         "secret1",
		Pin:            "1234",
		OpeningBalance: decimal.RequireFromString(balance),
	})
	if err != nil {
		t.Fatalf("open account %s %s: %v", given, family, err)
	}
	return account
}

func (b *memBank) entries() []domain.LedgerEntry {
	return b.store.committed.entries
}
