package parse

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pblanchard/budgetzen/internal/ledger"
)

var (
	stmtTrnRe  = regexp.MustCompile(`(?s)<STMTTRN>(.*?)</STMTTRN>`)
	dtPostedRe = regexp.MustCompile(`<DTPOSTED>\s*([^<\r\n]+)`)
	trnAmtRe   = regexp.MustCompile(`<TRNAMT>\s*([^<\r\n]+)`)
	trnNameRe  = regexp.MustCompile(`<NAME>\s*([^<\r\n]+)`)
)

// OFX scans for <STMTTRN>...</STMTTRN> blocks and extracts the posted
// date, amount and name tags from each, tolerating multi-line content and
// extra tags inside the block. The posted date value is a YYYYMMDD prefix
// possibly followed by a time. Blocks missing a required tag or carrying a
// malformed value are skipped.
func OFX(text, currency string) Result {
	var res Result
	for _, m := range stmtTrnRe.FindAllStringSubmatch(text, -1) {
		block := m[1]
		posted := firstMatch(dtPostedRe, block)
		amt := firstMatch(trnAmtRe, block)
		name := firstMatch(trnNameRe, block)
		if posted == "" || amt == "" || name == "" {
			res.Dropped++
			continue
		}
		if len(posted) < 8 {
			res.Dropped++
			continue
		}
		day, err := time.Parse("20060102", posted[:8])
		if err != nil {
			res.Dropped++
			continue
		}
		amount, err := Amount(amt)
		if err != nil {
			res.Dropped++
			continue
		}
		res.Transactions = append(res.Transactions, ledger.Transaction{
			ID:          uuid.NewString(),
			Date:        day.Format(time.DateOnly),
			Description: name,
			Amount:      amount,
			Currency:    currency,
		})
	}
	return res
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
