// Package subscriptions detects merchants billing on a roughly-monthly
// cadence from the unordered transaction history. No external subscription
// catalog is involved; recurrence is inferred from interval regularity
// alone, with a deliberate bias toward precision: merchants billed weekly,
// bi-monthly or irregularly are never reported.
package subscriptions

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pblanchard/budgetzen/internal/ledger"
)

// A gap between consecutive charges counts as monthly when it lands in
// this inclusive day range, absorbing month-length variance and
// weekend/processing shifts.
const (
	monthlyGapMin = 27
	monthlyGapMax = 33
)

// Candidate is one detected recurring charge. Candidates are derived fresh
// on every call and never persisted.
type Candidate struct {
	Merchant  string
	Average   decimal.Decimal
	LastDate  string
	Frequency string
	Advice    string
}

var (
	spaceRe = regexp.MustCompile(`\s+`)
	digitRe = regexp.MustCompile(`[0-9]+`)
)

// Signature normalizes a description into a merchant key: uppercased,
// whitespace collapsed, digits stripped (invoice numbers, embedded dates).
func Signature(desc string) string {
	s := spaceRe.ReplaceAllString(strings.ToUpper(desc), " ")
	s = digitRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Detect groups debit transactions by merchant signature and reports every
// group with at least one ~30-day gap between consecutive charges, sorted
// by descending average amount.
func Detect(txs []ledger.Transaction) []Candidate {
	groups := map[string][]ledger.Transaction{}
	for _, tx := range txs {
		if !tx.Amount.IsNegative() {
			continue
		}
		sig := Signature(tx.Description)
		if sig == "" {
			continue
		}
		groups[sig] = append(groups[sig], tx)
	}

	sigs := make([]string, 0, len(groups))
	for sig := range groups {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)

	var out []Candidate
	for _, sig := range sigs {
		group := groups[sig]
		if len(group) < 2 {
			// one charge proves nothing about recurrence
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].Date < group[j].Date })

		monthlyHits := 0
		sumAbs := decimal.Zero
		for i, tx := range group {
			sumAbs = sumAbs.Add(tx.Amount.Abs())
			if i == 0 {
				continue
			}
			gap := dayGap(group[i-1].Date, tx.Date)
			if gap >= monthlyGapMin && gap <= monthlyGapMax {
				monthlyHits++
			}
		}
		if monthlyHits < 1 {
			continue
		}
		avg := sumAbs.Div(decimal.NewFromInt(int64(len(group))))
		out = append(out, Candidate{
			Merchant:  sig,
			Average:   avg,
			LastDate:  group[len(group)-1].Date,
			Frequency: "monthly",
			Advice:    adviceFor(sig, avg),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Average.GreaterThan(out[j].Average)
	})
	return out
}

func dayGap(a, b string) int {
	da, err := time.Parse(time.DateOnly, a)
	if err != nil {
		return 0
	}
	db, err := time.Parse(time.DateOnly, b)
	if err != nil {
		return 0
	}
	return int(math.Round(db.Sub(da).Hours() / 24))
}

var (
	streamingNames = []string{"NETFLIX", "SPOTIFY", "DISNEY"}
	telecomNames   = []string{"ORANGE", "SFR", "FREE"}

	negotiateThreshold = decimal.NewFromInt(20)
)

// adviceFor picks the advisory string for a merchant signature: known
// streaming services first, then telecom providers, then an amount-based
// fallback.
func adviceFor(sig string, avg decimal.Decimal) string {
	for _, name := range streamingNames {
		if strings.Contains(sig, name) {
			return "Check how much you actually use it and consider a shared family plan."
		}
	}
	for _, name := range telecomNames {
		if strings.Contains(sig, name) {
			return "Compare plans: switching often saves 5-10 per month."
		}
	}
	if avg.GreaterThan(negotiateThreshold) {
		return "Negotiate the price or look for a cheaper alternative."
	}
	return "Fine if you use it. Re-evaluate every 3 months."
}
