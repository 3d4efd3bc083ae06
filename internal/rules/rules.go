// Package rules applies ordered pattern-to-category rules to transaction
// descriptions. Patterns are compiled once at load time into a tagged
// matcher (literal substring or regular expression) instead of being
// re-interpreted per transaction.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pblanchard/budgetzen/internal/ledger"
)

// Matcher is one compiled rule.
type Matcher struct {
	Category string
	re       *regexp.Regexp
}

// Compile builds matchers from the rule list, preserving order. A pattern
// wrapped in /.../ is treated as a case-insensitive regular expression; any
// other pattern is a case-insensitive literal substring. An invalid regex
// is a rule-author error and is returned as such, not worked around.
func Compile(rs []ledger.Rule) ([]Matcher, error) {
	out := make([]Matcher, 0, len(rs))
	for i, r := range rs {
		body := r.Pattern
		if isRegexPattern(body) {
			body = body[1 : len(body)-1]
		} else {
			body = regexp.QuoteMeta(body)
		}
		re, err := regexp.Compile("(?i)" + body)
		if err != nil {
			return nil, fmt.Errorf("compile rule %d pattern %q: %w", i, r.Pattern, err)
		}
		out = append(out, Matcher{Category: r.Category, re: re})
	}
	return out, nil
}

// isRegexPattern reports whether the pattern is delimited as /.../ with a
// non-empty body.
func isRegexPattern(p string) bool {
	return len(p) > 2 && strings.HasPrefix(p, "/") && strings.HasSuffix(p, "/")
}

// Apply runs every matcher against the transaction's description in order.
// The last matching rule's category wins; no other field is touched.
// Applying the same matchers again is idempotent.
func Apply(tx *ledger.Transaction, ms []Matcher) {
	for _, m := range ms {
		if m.re.MatchString(tx.Description) {
			tx.Category = m.Category
		}
	}
}

// ApplyAll categorizes a batch in place and returns how many transactions
// ended with a different category than they started with.
func ApplyAll(txs []ledger.Transaction, ms []Matcher) int {
	changed := 0
	for i := range txs {
		before := txs[i].Category
		Apply(&txs[i], ms)
		if txs[i].Category != before {
			changed++
		}
	}
	return changed
}
