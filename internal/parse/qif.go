package parse

import (
	"bufio"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pblanchard/budgetzen/internal/dates"
	"github.com/pblanchard/budgetzen/internal/ledger"
)

// QIF reads line-tagged input: D sets the pending date, T the pending
// amount (comma decimals accepted), P the pending description, and ^
// commits the pending record if it has both a valid date and amount.
// Incomplete records are dropped at commit; unknown tags (headers like
// !Type:Bank) are ignored.
func QIF(text, currency string) Result {
	var res Result
	var cur struct {
		date      string
		amount    decimal.Decimal
		hasAmount bool
		desc      string
		touched   bool
	}
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		tag, val := line[0], strings.TrimSpace(line[1:])
		switch tag {
		case 'D':
			cur.touched = true
			if iso, err := dates.Normalize(val); err == nil {
				cur.date = iso
			} else {
				cur.date = ""
			}
		case 'T':
			cur.touched = true
			if amt, err := Amount(val); err == nil {
				cur.amount, cur.hasAmount = amt, true
			} else {
				cur.hasAmount = false
			}
		case 'P':
			cur.touched = true
			cur.desc = val
		case '^':
			if cur.date != "" && cur.hasAmount {
				res.Transactions = append(res.Transactions, ledger.Transaction{
					ID:          uuid.NewString(),
					Date:        cur.date,
					Description: cur.desc,
					Amount:      cur.amount,
					Currency:    currency,
				})
			} else if cur.touched {
				res.Dropped++
			}
			cur.date, cur.hasAmount, cur.desc, cur.touched = "", false, "", false
		}
	}
	return res
}
