package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *RowParseError
		expected string
	}{
		{
			name: "with field",
			err: &RowParseError{
				Parser: "icbc",
				Row:    7,
				Field:  "Fecha",
				Value:  "13/45/24",
				Err:    errors.New("month out of range"),
			},
			expected: "icbc: row 7: failed to parse Fecha='13/45/24': month out of range",
		},
		{
			name:     "without field",
			err:      &RowParseError{Parser: "bbva", Row: 3, Err: errors.New("zero amount")},
			expected: "bbva: row 3: zero amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestRowParseError_Unwrap(t *testing.T) {
	cause := errors.New("bad decimal")
	err := &RowParseError{Parser: "comm_bank", Row: 1, Err: cause}

	assert.ErrorIs(t, err, cause)
}

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		user     bool
	}{
		{"unsupported institution", &UnsupportedInstitutionError{Institution: "unknown_bank"}, ErrUnsupportedInstitution, true},
		{"format mismatch", &FormatMismatchError{Institution: "icbc", Extension: ".pdf", Allowed: []string{".csv"}}, ErrFormatMismatch, true},
		{"invalid currency", &InvalidCurrencyError{Currency: "XXZ"}, ErrInvalidCurrency, true},
		{"import failure", NewImportFailure(StageDecode, errors.New("illegal base64")), ErrImportFailure, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.user, IsUserError(wrapped))
		})
	}
}

func TestFormatMismatchError_Message(t *testing.T) {
	err := &FormatMismatchError{Institution: "santander_rio", Allowed: []string{".xlsx"}}
	assert.Equal(t, "file extension (none) is not valid for santander_rio, expected one of: .xlsx", err.Error())
}

func TestImportFailureError_As(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("row 3: %w", NewImportFailure(StagePersist, cause))

	var failure *ImportFailureError
	assert.True(t, errors.As(err, &failure))
	assert.Equal(t, StagePersist, failure.Stage)
	assert.ErrorIs(t, err, cause)
}
