package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHandleFormat(t *testing.T) {
	tests := []struct {
		handle string
		want   bool
	}{
		{"john.doe@1234", true},
		{"John.doe@1234", false},
		{"john.doe@123", false},
		{"john.doe@12345", false},
		{"john_doe@1234", false},
		{"john.doe@12a4", false},
		{"jane.doe@1234", false},
		{"john.doe1234", false},
	}
	for _, tt := range tests {
		t.Run(tt.handle, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateHandleFormat(tt.handle, "John", "Doe"))
		})
	}
}

func TestValidateHandleFormat_RequiresNames(t *testing.T) {
	assert.False(t, ValidateHandleFormat(".doe@1234", "", "Doe"))
	assert.False(t, ValidateHandleFormat("john.@1234", "John", ""))
}

func TestValidateHandleSyntax(t *testing.T) {
	assert.True(t, ValidateHandleSyntax("john.doe@1234"))
	assert.False(t, ValidateHandleSyntax("John.doe@1234"))
	assert.False(t, ValidateHandleSyntax("john.doe@123"))
	assert.False(t, ValidateHandleSyntax("john_doe@1234"))
	assert.False(t, ValidateHandleSyntax("john.m.doe@1234"))
}

func TestValidateSecretFormat(t *testing.T) {
	assert.True(t, ValidateSecretFormat("secret1"))
	assert.True(t, ValidateSecretFormat("abcdef"))
	assert.False(t, ValidateSecretFormat("abcde"), "too short")
	assert.False(t, ValidateSecretFormat("abc.def"), "contains a dot")
	assert.False(t, ValidateSecretFormat("abc,def"), "contains a comma")
	assert.False(t, ValidateSecretFormat(""))
}

func TestValidatePinFormat(t *testing.T) {
	assert.True(t, ValidatePinFormat("0000"))
	assert.True(t, ValidatePinFormat("1234"))
	assert.False(t, ValidatePinFormat("123"))
	assert.False(t, ValidatePinFormat("12345"))
	assert.False(t, ValidatePinFormat("12a4"))
	assert.False(t, ValidatePinFormat("١٢٣٤"), "non-ASCII digits")
}

func TestValidateName(t *testing.T) {
	assert.True(t, ValidateName("Priya", false))
	assert.False(t, ValidateName("", false))
	assert.True(t, ValidateName("", true))
	assert.False(t, ValidateName("O'Neil", false))
	assert.False(t, ValidateName("Anne Marie", true))
}
