// internal/api/types/response.go
package types

import (
	"time"

	"lena-bank/internal/domain"
)

// ListResponse defines a generic structure for list API responses.
// T represents the type of data contained in the 'Data' slice.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
	Limit int `json:"limit,omitempty"`
	Days  int `json:"days,omitempty"`
}

// NewListResponse wraps data, never encoding a nil slice as null.
func NewListResponse[T any](data []T) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{Data: data, Count: len(data)}
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AccountView is the public shape of an account. Credentials never leave the service.
type AccountView struct {
	AccountNumber string    `json:"account_number"`
	UserID        string    `json:"user_id"`
	GivenName     string    `json:"given_name"`
	MiddleName    string    `json:"middle_name,omitempty"`
	FamilyName    string    `json:"family_name"`
	FullName      string    `json:"full_name"`
	Balance       string    `json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewAccountView builds the public view of an account.
func NewAccountView(a *domain.Account) AccountView {
	return AccountView{
		AccountNumber: domain.FormatAccountNumber(a.Number),
		UserID:        a.Handle,
		GivenName:     a.GivenName,
		MiddleName:    a.MiddleName,
		FamilyName:    a.FamilyName,
		FullName:      a.Name().FullName(),
		Balance:       a.Balance.StringFixed(2),
		CreatedAt:     a.CreatedAt,
	}
}

// EntryView is the public shape of a ledger entry.
type EntryView struct {
	Reference          string    `json:"reference"`
	Datetime           time.Time `json:"datetime"`
	Type               string    `json:"type"`
	Amount             string    `json:"amount"`
	SourceAccount      *int      `json:"source_account,omitempty"`
	SourceUserID       *string   `json:"source_user_id,omitempty"`
	DestinationAccount *int      `json:"destination_account,omitempty"`
	DestinationUserID  *string   `json:"destination_user_id,omitempty"`
	Description        string    `json:"description"`
}

// NewEntryView builds the public view of a ledger entry.
func NewEntryView(e domain.LedgerEntry) EntryView {
	return EntryView{
		Reference:          e.Reference.String(),
		Datetime:           e.Timestamp,
		Type:               string(e.Kind),
		Amount:             e.Amount.StringFixed(2),
		SourceAccount:      e.SourceAccount,
		SourceUserID:       e.SourceHandle,
		DestinationAccount: e.DestinationAccount,
		DestinationUserID:  e.DestinationHandle,
		Description:        e.Description,
	}
}

// NewEntryViews converts a slice of entries, preserving order.
func NewEntryViews(entries []domain.LedgerEntry) []EntryView {
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, NewEntryView(e))
	}
	return views
}
