// internal/domain/account.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Account represents a customer account.
type Account struct {
	Number     int             `db:"accountnumber" json:"account_number"`
	GivenName  string          `db:"name" json:"given_name"`
	MiddleName string          `db:"middle_name" json:"middle_name,omitempty"`
	FamilyName string          `db:"surname" json:"family_name"`
	Balance    decimal.Decimal `db:"balance" json:"balance"` // NUMERIC(20, 2) in DB, never negative
	Handle     string          `db:"userid" json:"user_id"`  // name.surname@NNNN, unique
	SecretHash string          `db:"password" json:"-"`
	PinHash    string          `db:"transaction_pin" json:"-"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// Name groups the three name fields of an account holder.
type Name struct {
	Given  string `json:"given_name"`
	Middle string `json:"middle_name,omitempty"`
	Family string `json:"family_name"`
}

// Name returns the holder's name fields.
func (a *Account) Name() Name {
	return Name{Given: a.GivenName, Middle: a.MiddleName, Family: a.FamilyName}
}

// Ref returns the account-number reference of the account.
func (a *Account) Ref() AccountRef {
	return ByNumber(a.Number)
}

// FullName joins the non-empty name parts with spaces.
func (n Name) FullName() string {
	parts := []string{n.Given}
	if n.Middle != "" {
		parts = append(parts, n.Middle)
	}
	parts = append(parts, n.Family)
	return strings.Join(parts, " ")
}

// FormatAccountNumber renders an account number zero-padded to four digits.
func FormatAccountNumber(n int) string {
	return fmt.Sprintf("%04d", n)
}

// NewAccount creates a new Account instance with the given opening balance.
func NewAccount(number int, name Name, handle, secretHash, pinHash string, balance decimal.Decimal) *Account {
	now := time.Now().UTC()
	return &Account{
		Number:     number,
		GivenName:  name.Given,
		MiddleName: name.Middle,
		FamilyName: name.Family,
		Balance:    balance,
		Handle:     handle,
		SecretHash: secretHash,
		PinHash:    pinHash,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
