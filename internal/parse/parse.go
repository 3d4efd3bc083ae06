// Package parse turns raw bank export text (delimited, OFX, QIF) into
// validated transactions. Rows or blocks missing a parseable date or amount
// are dropped without error; Result carries the drop count so callers can
// report it without failing the import.
package parse

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pblanchard/budgetzen/internal/ledger"
)

// Result is the outcome of parsing one file.
type Result struct {
	Transactions []ledger.Transaction
	Dropped      int
}

// File routes by extension: .csv to the delimited parser, .ofx to the
// tagged parser, .qif to the line-tagged parser. Anything else falls back
// to the delimited parser.
func File(name, text, currency string) Result {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ofx":
		return OFX(text, currency)
	case ".qif":
		return QIF(text, currency)
	default:
		return CSV(text, currency)
	}
}

// Amount reads a decimal amount. Bank exports write either "1,234.56"
// (comma grouping) or "1.234,56" (comma decimal); when both separators
// appear the rightmost one is the decimal point, a lone comma is a
// decimal point, and commas alongside no dot at all are grouping.
func Amount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma > dot && dot >= 0: // 1.234,56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot > comma: // 1,234.56
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1: // 3,50
		s = strings.Replace(s, ",", ".", 1)
	default: // 1,234,567 or no comma at all
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}
