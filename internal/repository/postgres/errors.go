// internal/repository/postgres/errors.go
package postgres

import (
	"errors"

	"github.com/lib/pq"

	"lena-bank/internal/domain"
	"lena-bank/internal/util"
)

// PostgreSQL SQLSTATE codes the repositories translate.
const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
)

// Constraint names from pkg/db/schema.sql.
const (
	constraintAccountPK     = "account_pkey"
	constraintAccountHandle = "account_userid_key"
	constraintBalanceNonNeg = "account_balance_nonnegative"
	constraintAmountPos     = "transaction_amount_check"
)

// translate maps constraint violations onto the application's sentinel errors.
// Other errors are returned unchanged.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case codeUniqueViolation:
		switch pqErr.Constraint {
		case constraintAccountHandle:
			return util.ErrDuplicateHandle
		case constraintAccountPK:
			return util.ErrAccountNumberTaken
		}
	case codeCheckViolation:
		switch pqErr.Constraint {
		case constraintBalanceNonNeg:
			return util.ErrInsufficientFunds
		case constraintAmountPos:
			return util.Invalid("amount", "must be positive")
		}
	}
	return err
}

// accountColumn picks the account column and argument a reference filters on.
func accountColumn(ref domain.AccountRef) (string, interface{}) {
	if ref.IsNumber() {
		return "accountnumber", ref.Number
	}
	return "userid", ref.Handle
}
