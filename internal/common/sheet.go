package common

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"mynab/budget-import/internal/currencyutils"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ErrUnreadableContainer marks content whose binary container (zip, PDF) cannot be
// opened at all.
var ErrUnreadableContainer = errors.New("unreadable container")

// Sheet is the first worksheet of a workbook. Rows are zero-based.
type Sheet struct {
	Rows [][]string
	// numeric holds the positions of cells stored as numbers.
	numeric map[[2]int]bool
}

// ReadSheet returns the first worksheet of an xlsx document. Cells are read raw, so
// numbers keep their plain decimal form and dates come back as serial numbers unless
// they were typed as text. A workbook without sheets yields an empty Sheet.
func ReadSheet(content []byte) (*Sheet, error) {
	opts := excelize.Options{RawCellValue: true}

	f, err := excelize.OpenReader(bytes.NewReader(content), opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open spreadsheet: %v", ErrUnreadableContainer, err)
	}
	defer f.Close()

	sheet := &Sheet{numeric: map[[2]int]bool{}}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return sheet, nil
	}

	sheet.Rows, err = f.GetRows(sheets[0], opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %s: %v", ErrUnreadableContainer, sheets[0], err)
	}

	for r, row := range sheet.Rows {
		for c, value := range row {
			if strings.TrimSpace(value) == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheets[0], name)
			if err != nil {
				return nil, fmt.Errorf("%w: failed to read cell %s: %v", ErrUnreadableContainer, name, err)
			}
			// numbers are written without a type attribute or with t="n"
			if cellType == excelize.CellTypeUnset || cellType == excelize.CellTypeNumber {
				sheet.numeric[[2]int{r, c}] = true
			}
		}
	}
	return sheet, nil
}

// Len returns the number of rows.
func (s *Sheet) Len() int {
	return len(s.Rows)
}

// Cell returns the trimmed value at row, col, or "" outside the sheet.
func (s *Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	return Cell(s.Rows[row], col)
}

// IsNumeric reports whether the cell at row, col was stored as a number.
func (s *Sheet) IsNumeric(row, col int) bool {
	return s.numeric[[2]int{row, col}]
}

// Amount parses the cell at row, col. Numeric cells already use "." as decimal
// point; text cells are read in the "1.234,56" locale.
func (s *Sheet) Amount(row, col int) (decimal.Decimal, error) {
	raw := s.Cell(row, col)
	if s.IsNumeric(row, col) {
		return currencyutils.ParsePlainAmount(raw)
	}
	return currencyutils.ParseLocaleAmount(raw)
}

// Cell returns the trimmed cell at index i, or "" when the row is shorter.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// MaxWidth returns the widest row length in rows.
func MaxWidth(rows [][]string) int {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}
