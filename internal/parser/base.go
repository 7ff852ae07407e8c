package parser

import (
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/parsererror"
)

// BaseParser carries what every parser implementation shares: its institution tag and
// its logger. Implementations embed it:
//
//	type Adapter struct {
//		parser.BaseParser
//	}
type BaseParser struct {
	institution string
	logger      logging.Logger
}

// NewBaseParser returns a BaseParser for institution. A nil logger is replaced by an
// info-level text logger.
func NewBaseParser(institution string, logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return BaseParser{
		institution: institution,
		logger:      logger.WithField(logging.FieldParser, institution),
	}
}

// Institution implements StatementParser.
func (b *BaseParser) Institution() string {
	return b.institution
}

// SetLogger replaces the logger; nil is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger.WithField(logging.FieldParser, b.institution)
	}
}

// GetLogger returns the parser's logger.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// FieldError builds a RowParseError for a column value that could not be converted.
// The row number is filled in by ParseRow.
func (b *BaseParser) FieldError(field, value string, err error) error {
	return &parsererror.RowParseError{Parser: b.institution, Field: field, Value: value, Err: err}
}
