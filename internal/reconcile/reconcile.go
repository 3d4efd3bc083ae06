// Package reconcile flags likely duplicate transactions, the usual fallout
// of importing overlapping bank exports. Detection is report-only; deleting
// stays an explicit user action.
package reconcile

import (
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/pblanchard/budgetzen/internal/ledger"
)

// Two transactions are duplicate candidates when the amounts are equal,
// the dates sit within this window, and the descriptions are close.
const dateWindowDays = 3

const maxDistanceRatio = 0.4

// Pair is one duplicate candidate.
type Pair struct {
	A          ledger.Transaction
	B          ledger.Transaction
	Similarity float64
}

// FindDuplicates compares every transaction pair and returns the
// candidates, most similar first.
func FindDuplicates(txs []ledger.Transaction) []Pair {
	var out []Pair
	for i := 0; i < len(txs); i++ {
		for j := i + 1; j < len(txs); j++ {
			a, b := txs[i], txs[j]
			if !a.Amount.Equal(b.Amount) {
				continue
			}
			if daysApart(a.Date, b.Date) > dateWindowDays {
				continue
			}
			sim, ok := descriptionSimilarity(a.Description, b.Description)
			if !ok {
				continue
			}
			out = append(out, Pair{A: a, B: b, Similarity: sim})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	return out
}

func descriptionSimilarity(a, b string) (float64, bool) {
	a, b = strings.ToUpper(a), strings.ToUpper(b)
	maxlen := len(a)
	if len(b) > maxlen {
		maxlen = len(b)
	}
	if maxlen == 0 {
		return 1, true
	}
	ratio := float64(levenshtein.ComputeDistance(a, b)) / float64(maxlen)
	if ratio >= maxDistanceRatio {
		return 0, false
	}
	return 1 - ratio, true
}

func daysApart(a, b string) int {
	da, errA := time.Parse(time.DateOnly, a)
	db, errB := time.Parse(time.DateOnly, b)
	if errA != nil || errB != nil {
		return int(^uint(0) >> 1) // unparseable dates never pair
	}
	d := da.Sub(db)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
