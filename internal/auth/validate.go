// Package auth holds the identity and credential rules: field formats, credential
// hashing and retry-limited verification of secrets and PINs.
package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinSecretLength is the shortest accepted password.
const MinSecretLength = 6

var (
	namePattern   = regexp.MustCompile(`^[A-Za-z]+$`)
	handlePattern = regexp.MustCompile(`^[a-z]+\.[a-z]+@[0-9]{4}$`)
)

// ValidateName reports whether name is purely alphabetic.
// Optional names (the middle name) may also be empty.
func ValidateName(name string, optional bool) bool {
	if name == "" {
		return optional
	}
	return namePattern.MatchString(name)
}

// ValidateHandleFormat reports whether handle is exactly
// lower(given) + "." + lower(family) + "@" + four digits.
func ValidateHandleFormat(handle, given, family string) bool {
	prefix := strings.ToLower(given) + "." + strings.ToLower(family) + "@"
	if given == "" || family == "" || !strings.HasPrefix(handle, prefix) {
		return false
	}
	return isFourDigits(handle[len(prefix):])
}

// ValidateHandleSyntax checks the generic name.surname@NNNN shape without knowing the names.
func ValidateHandleSyntax(handle string) bool {
	return handlePattern.MatchString(handle)
}

// ValidateSecretFormat reports whether a password has no '.' or ',' and is long enough.
func ValidateSecretFormat(secret string) bool {
	return utf8.RuneCountInString(secret) >= MinSecretLength && !strings.ContainsAny(secret, ".,")
}

// ValidatePinFormat reports whether pin is exactly four ASCII digits.
func ValidatePinFormat(pin string) bool {
	return isFourDigits(pin)
}

func isFourDigits(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
