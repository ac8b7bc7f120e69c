// internal/domain/ref.go
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// AccountRef identifies an account either by its number or by its handle.
// Exactly one of the two is set.
type AccountRef struct {
	Number int
	Handle string
}

// ByNumber references an account by its account number.
func ByNumber(n int) AccountRef { return AccountRef{Number: n} }

// ByHandle references an account by its user id.
func ByHandle(h string) AccountRef { return AccountRef{Handle: h} }

// IsNumber reports whether the reference is by account number.
func (r AccountRef) IsNumber() bool { return r.Handle == "" }

// IsZero reports whether the reference identifies nothing.
func (r AccountRef) IsZero() bool { return r.Number == 0 && r.Handle == "" }

// Same reports whether two references are textually identical.
// References of different kinds are never considered the same; callers compare resolved accounts.
func (r AccountRef) Same(other AccountRef) bool {
	return r.Number == other.Number && r.Handle == other.Handle
}

func (r AccountRef) String() string {
	if r.IsNumber() {
		return FormatAccountNumber(r.Number)
	}
	return r.Handle
}

// ParseRef reads an all-digit string as an account number and anything else as a handle.
func ParseRef(s string) (AccountRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AccountRef{}, fmt.Errorf("empty account reference")
	}
	if isDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return AccountRef{}, fmt.Errorf("invalid account number %q: %w", s, err)
		}
		return ByNumber(n), nil
	}
	return ByHandle(s), nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
