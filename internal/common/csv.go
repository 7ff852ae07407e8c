// Package common holds the readers shared by the statement parsers: tolerant delimited
// text decoding and spreadsheet row extraction.
package common

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"

	"mynab/budget-import/internal/logging"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions describes the physical layout of a delimited statement.
type CSVOptions struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune
	// SkipRows drops that many leading records (headers, preambles).
	SkipRows int
	// Columns is the number of positional columns of the row struct. Shorter records
	// are padded with empty cells and longer ones are cut.
	Columns int
}

// Record pairs an unmarshalled row with its 1-based line in the source file.
type Record[T any] struct {
	Line int
	Row  T
}

// DecodeText returns content as UTF-8. Exports that are not valid UTF-8 are assumed
// to be Windows-1252, the default encoding of Spanish-locale spreadsheet tools.
func DecodeText(content []byte) []byte {
	content = bytes.TrimPrefix(content, utf8BOM)
	if utf8.Valid(content) {
		return content
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(content)
	if err != nil {
		return content
	}
	return decoded
}

// ReadCSV reads a headerless positional CSV into rows of T with gocsv. T must be a
// struct of string fields in column order. Lines the CSV reader cannot parse are
// logged and skipped.
func ReadCSV[T any](content []byte, opts CSVOptions, logger logging.Logger) ([]Record[T], error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	reader := csv.NewReader(bytes.NewReader(DecodeText(content)))
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var (
		records [][]string
		lines   []int
		seen    int
	)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			logger.Debug("Skipping malformed CSV line",
				logging.F(logging.FieldRow, parseErr.StartLine),
				logging.F(logging.FieldReason, parseErr.Err.Error()))
			continue
		}
		if err != nil {
			return nil, err
		}

		seen++
		if seen <= opts.SkipRows {
			continue
		}
		line, _ := reader.FieldPos(0)
		records = append(records, fitWidth(rec, opts.Columns))
		lines = append(lines, line)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var rows []T
	if err := gocsv.UnmarshalCSVWithoutHeaders(&recordReader{records: records}, &rows); err != nil {
		return nil, err
	}

	out := make([]Record[T], len(rows))
	for i := range rows {
		out[i] = Record[T]{Line: lines[i], Row: rows[i]}
	}
	return out, nil
}

func fitWidth(rec []string, width int) []string {
	if width <= 0 || len(rec) == width {
		return rec
	}
	out := make([]string, width)
	copy(out, rec)
	return out
}

// recordReader serves already-read records to gocsv.
type recordReader struct {
	records [][]string
	pos     int
}

func (r *recordReader) Read() ([]string, error) {
	if r.pos >= len(r.records) {
		return nil, io.EOF
	}
	rec := r.records[r.pos]
	r.pos++
	return rec, nil
}

func (r *recordReader) ReadAll() ([][]string, error) {
	rest := r.records[r.pos:]
	r.pos = len(r.records)
	return rest, nil
}
