package parse

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pblanchard/budgetzen/internal/dates"
	"github.com/pblanchard/budgetzen/internal/ledger"
)

// Header cells are matched case-insensitively against these keyword sets;
// the first matching column wins per field.
var headerKeywords = struct {
	date, desc, amount, category, account, currency []string
}{
	date:     []string{"date"},
	desc:     []string{"desc", "libell", "label", "name"},
	amount:   []string{"amount", "montant", "value", "valeur"},
	category: []string{"categ"},
	account:  []string{"account", "compte"},
	currency: []string{"curr", "devise"},
}

// CSV parses delimited text with a header row. The separator is ';' when
// the first line contains an unquoted ';' and no unquoted ',', else ','.
func CSV(text, currency string) Result {
	var res Result
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return res
	}
	sep := detectSeparator(lines[0])

	header := splitFields(lines[0], sep)
	for i := range header {
		header[i] = strings.ToLower(header[i])
	}
	dateIdx := headerIndex(header, headerKeywords.date)
	descIdx := headerIndex(header, headerKeywords.desc)
	amountIdx := headerIndex(header, headerKeywords.amount)
	categoryIdx := headerIndex(header, headerKeywords.category)
	accountIdx := headerIndex(header, headerKeywords.account)
	currencyIdx := headerIndex(header, headerKeywords.currency)

	for _, line := range lines[1:] {
		cols := splitFields(line, sep)
		date, err := dates.Normalize(cellAt(cols, dateIdx))
		if err != nil {
			res.Dropped++
			continue
		}
		amount, err := Amount(cellAt(cols, amountIdx))
		if err != nil {
			res.Dropped++
			continue
		}
		cur := cellAt(cols, currencyIdx)
		if cur == "" {
			cur = currency
		}
		res.Transactions = append(res.Transactions, ledger.Transaction{
			ID:          uuid.NewString(),
			Date:        date,
			Description: cellAt(cols, descIdx),
			Amount:      amount,
			Category:    cellAt(cols, categoryIdx),
			Account:     cellAt(cols, accountIdx),
			Currency:    cur,
		})
	}
	return res
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	lines := raw[:0]
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// detectSeparator ignores separators inside quoted regions, so a header
// whose only comma sits within a quoted cell still selects ';'.
func detectSeparator(line string) byte {
	inQuotes := false
	hasSemi, hasComma := false, false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case ';':
			if !inQuotes {
				hasSemi = true
			}
		case ',':
			if !inQuotes {
				hasComma = true
			}
		}
	}
	if hasSemi && !hasComma {
		return ';'
	}
	return ','
}

// splitFields splits one line on sep, honoring quotes: surrounding quote
// characters are stripped and doubled quotes inside a quoted cell collapse
// to one.
func splitFields(line string, sep byte) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == sep && !inQuotes:
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	out = append(out, strings.TrimSpace(cur.String()))
	return out
}

// headerIndex returns the index of the first header cell containing any of
// the keywords, or -1.
func headerIndex(header []string, keywords []string) int {
	for i, cell := range header {
		for _, kw := range keywords {
			if strings.Contains(cell, kw) {
				return i
			}
		}
	}
	return -1
}

// cellAt reads column i, treating missing columns (index -1 or a short
// row) as empty.
func cellAt(cols []string, i int) string {
	if i < 0 || i >= len(cols) {
		return ""
	}
	return cols[i]
}
