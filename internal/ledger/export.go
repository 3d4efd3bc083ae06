package ledger

import "strings"

const exportHeader = "date,description,amount,category,account"

// ExportCSV renders the transaction collection as delimited text with the
// fixed header. Description and category are quote-wrapped with internal
// quotes doubled so round-tripping through the delimited parser is safe.
func (l *Ledger) ExportCSV() string {
	var b strings.Builder
	b.WriteString(exportHeader)
	b.WriteByte('\n')
	for _, tx := range l.ds.Transactions {
		b.WriteString(tx.Date)
		b.WriteByte(',')
		b.WriteString(quoteCSV(tx.Description))
		b.WriteByte(',')
		b.WriteString(tx.Amount.String())
		b.WriteByte(',')
		b.WriteString(quoteCSV(tx.Category))
		b.WriteByte(',')
		b.WriteString(quoteCSV(tx.Account))
		b.WriteByte('\n')
	}
	return b.String()
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
