// Package dateutils parses the date representations found in bank statements.
package dateutils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Layouts shared by the statement parsers.
const (
	LayoutISO          = "2006-01-02"
	LayoutCompact      = "20060102"
	LayoutDayMonthDash = "02-01-2006"
)

var isoLayouts = []string{
	LayoutISO,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

var dayFirstLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
}

// MonthFirstLayouts accept month/day/year with either two or four digit years.
var MonthFirstLayouts = []string{
	"1/2/06",
	"1/2/2006",
}

// Excel serial numbers outside this range are not dates (1900-01-01 .. 9999-12-31).
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// ParseWithLayouts tries each layout in order and returns the calendar date of the
// first that matches.
func ParseWithLayouts(raw string, layouts ...string) (time.Time, error) {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", raw)
}

// ParseDayFirst parses ISO dates first, then day/month/year variants and finally
// Excel serial numbers, the way spreadsheet exports from Argentine banks mix them.
func ParseDayFirst(raw string) (time.Time, error) {
	layouts := make([]string, 0, len(isoLayouts)+len(dayFirstLayouts))
	layouts = append(layouts, isoLayouts...)
	layouts = append(layouts, dayFirstLayouts...)

	t, err := ParseWithLayouts(raw, layouts...)
	if err == nil {
		return t, nil
	}
	if serial, serialErr := ParseExcelSerial(raw); serialErr == nil {
		return serial, nil
	}
	return time.Time{}, err
}

// ParseExcelSerial converts a spreadsheet serial day number (1900 date system).
func ParseExcelSerial(raw string) (time.Time, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("not an excel serial date: %s", raw)
	}
	if f < minExcelSerial || f > maxExcelSerial {
		return time.Time{}, fmt.Errorf("excel serial date out of range: %s", raw)
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid excel serial date %s: %w", raw, err)
	}
	return DateOnly(t), nil
}

// DateOnly drops the clock part of t and pins it to UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Compact formats t as YYYYMMDD.
func Compact(t time.Time) string {
	return t.Format(LayoutCompact)
}
