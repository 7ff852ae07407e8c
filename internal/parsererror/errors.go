// Package parsererror defines the error taxonomy of the import pipeline.
//
// Dispatcher errors (UnsupportedInstitutionError, FormatMismatchError) and
// InvalidCurrencyError are user-correctable. RowParseError never leaves a parser.
// ImportFailureError is fatal for the current import.
package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is matching.
var (
	ErrUnsupportedInstitution = errors.New("unsupported institution")
	ErrFormatMismatch         = errors.New("format mismatch")
	ErrInvalidCurrency        = errors.New("invalid currency")
	ErrImportFailure          = errors.New("import failed")
)

// Import stages reported by ImportFailureError.
const (
	StageDecode  = "decode"
	StageFile    = "file"
	StageOpen    = "open"
	StagePersist = "persist"
)

// UnsupportedInstitutionError is returned when no parser is registered for a tag.
type UnsupportedInstitutionError struct {
	Institution string
}

func (e *UnsupportedInstitutionError) Error() string {
	return fmt.Sprintf("unsupported institution: %q", e.Institution)
}

func (e *UnsupportedInstitutionError) Is(target error) bool {
	return target == ErrUnsupportedInstitution
}

// FormatMismatchError is returned when the file extension is not accepted by the
// selected institution.
type FormatMismatchError struct {
	Institution string
	Extension   string
	Allowed     []string
}

func (e *FormatMismatchError) Error() string {
	ext := e.Extension
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("file extension %s is not valid for %s, expected one of: %s",
		ext, e.Institution, strings.Join(e.Allowed, ", "))
}

func (e *FormatMismatchError) Is(target error) bool {
	return target == ErrFormatMismatch
}

// InvalidCurrencyError is returned for currency codes that are not ISO-4217.
type InvalidCurrencyError struct {
	Currency string
}

func (e *InvalidCurrencyError) Error() string {
	return fmt.Sprintf("invalid currency code: %q", e.Currency)
}

func (e *InvalidCurrencyError) Is(target error) bool {
	return target == ErrInvalidCurrency
}

// RowParseError describes why a single statement row was rejected.
type RowParseError struct {
	Parser string
	Row    int
	Field  string
	Value  string
	Err    error
}

func (e *RowParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: row %d: %v", e.Parser, e.Row, e.Err)
	}
	return fmt.Sprintf("%s: row %d: failed to parse %s='%s': %v",
		e.Parser, e.Row, e.Field, e.Value, e.Err)
}

func (e *RowParseError) Unwrap() error {
	return e.Err
}

// ImportFailureError aborts an import. Rows persisted before the failure stay persisted.
type ImportFailureError struct {
	Stage string
	Err   error
}

func (e *ImportFailureError) Error() string {
	return fmt.Sprintf("import failed during %s: %v", e.Stage, e.Err)
}

func (e *ImportFailureError) Unwrap() error {
	return e.Err
}

func (e *ImportFailureError) Is(target error) bool {
	return target == ErrImportFailure
}

// NewImportFailure wraps err as an ImportFailureError for the given stage.
func NewImportFailure(stage string, err error) error {
	return &ImportFailureError{Stage: stage, Err: err}
}

// IsUserError reports whether err is a validation error the caller can fix by
// changing the request.
func IsUserError(err error) bool {
	return errors.Is(err, ErrUnsupportedInstitution) ||
		errors.Is(err, ErrFormatMismatch) ||
		errors.Is(err, ErrInvalidCurrency)
}
