// Package ledger owns the in-memory dataset: transactions, budgets, rules
// and goals, plus the monthly aggregations derived from them. A Ledger is
// owned by a single goroutine; persistence happens between mutations, never
// during one, so there is no internal locking.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pblanchard/budgetzen/internal/dates"
)

// Ledger holds the live dataset.
type Ledger struct {
	ds Dataset
}

// New returns a ledger seeded with the default categories and starter rules.
func New(currency string) *Ledger {
	return &Ledger{ds: Dataset{
		Currency:   currency,
		Categories: append([]string(nil), DefaultCategories...),
		Rules:      DefaultRules(),
	}}
}

// Replace swaps in a loaded dataset wholesale. A dataset saved before
// categories were persisted carries none; the defaults stand in that case.
func (l *Ledger) Replace(ds Dataset) {
	if len(ds.Categories) == 0 {
		ds.Categories = append([]string(nil), DefaultCategories...)
	}
	l.ds = ds
}

// Snapshot returns a copy of the dataset safe to serialize.
func (l *Ledger) Snapshot() Dataset {
	ds := l.ds
	ds.Categories = append([]string(nil), l.ds.Categories...)
	ds.Transactions = append([]Transaction(nil), l.ds.Transactions...)
	ds.Budgets = append([]Budget(nil), l.ds.Budgets...)
	ds.Rules = append([]Rule(nil), l.ds.Rules...)
	ds.Goals = append([]Goal(nil), l.ds.Goals...)
	return ds
}

func (l *Ledger) Currency() string       { return l.ds.Currency }
func (l *Ledger) SetCurrency(cur string) { l.ds.Currency = cur }

// Encrypted reports the flag carried over from the last load.
func (l *Ledger) Encrypted() bool { return l.ds.Encrypted }

// Categories returns a copy of the known category labels.
func (l *Ledger) Categories() []string {
	return append([]string(nil), l.ds.Categories...)
}

// EnsureCategory adds a label to the known set if it is new. Every path
// that attaches a category to data funnels through here, so budgets and
// rules can never reference a label the category list does not carry.
func (l *Ledger) EnsureCategory(name string) {
	if name == "" {
		return
	}
	for _, c := range l.ds.Categories {
		if c == name {
			return
		}
	}
	l.ds.Categories = append(l.ds.Categories, name)
}

// Transactions returns a copy of the collection.
func (l *Ledger) Transactions() []Transaction {
	return append([]Transaction(nil), l.ds.Transactions...)
}

// Add records one manually entered transaction. The date is normalized and
// must be valid; id and currency get defaults when empty.
func (l *Ledger) Add(tx Transaction) (Transaction, error) {
	iso, err := dates.Normalize(tx.Date)
	if err != nil {
		return Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	tx.Date = iso
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Currency == "" {
		tx.Currency = l.ds.Currency
	}
	l.EnsureCategory(tx.Category)
	l.ds.Transactions = append(l.ds.Transactions, tx)
	return tx, nil
}

// Append admits transactions already validated at the parser boundary.
func (l *Ledger) Append(txs ...Transaction) {
	for i := range txs {
		if txs[i].Currency == "" {
			txs[i].Currency = l.ds.Currency
		}
		l.EnsureCategory(txs[i].Category)
	}
	l.ds.Transactions = append(l.ds.Transactions, txs...)
}

// Update replaces the transaction with the same id.
func (l *Ledger) Update(tx Transaction) error {
	iso, err := dates.Normalize(tx.Date)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	tx.Date = iso
	for i := range l.ds.Transactions {
		if l.ds.Transactions[i].ID == tx.ID {
			l.EnsureCategory(tx.Category)
			l.ds.Transactions[i] = tx
			return nil
		}
	}
	return fmt.Errorf("update transaction: id %s not found", tx.ID)
}

// Get looks a transaction up by id.
func (l *Ledger) Get(id string) (Transaction, bool) {
	for _, tx := range l.ds.Transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return Transaction{}, false
}

// Delete removes a transaction by id, reporting whether it existed.
func (l *Ledger) Delete(id string) bool {
	for i := range l.ds.Transactions {
		if l.ds.Transactions[i].ID == id {
			l.ds.Transactions = append(l.ds.Transactions[:i], l.ds.Transactions[i+1:]...)
			return true
		}
	}
	return false
}

// Rules returns a copy of the ordered rule list.
func (l *Ledger) Rules() []Rule {
	return append([]Rule(nil), l.ds.Rules...)
}

func (l *Ledger) AddRule(r Rule) {
	l.EnsureCategory(r.Category)
	l.ds.Rules = append(l.ds.Rules, r)
}

// RemoveRule deletes the rule at position i (list order is significant).
func (l *Ledger) RemoveRule(i int) error {
	if i < 0 || i >= len(l.ds.Rules) {
		return fmt.Errorf("remove rule: index %d out of range", i)
	}
	l.ds.Rules = append(l.ds.Rules[:i], l.ds.Rules[i+1:]...)
	return nil
}

// SetCategory updates just the category of a transaction.
func (l *Ledger) SetCategory(id, category string) error {
	for i := range l.ds.Transactions {
		if l.ds.Transactions[i].ID == id {
			l.EnsureCategory(category)
			l.ds.Transactions[i].Category = category
			return nil
		}
	}
	return fmt.Errorf("set category: id %s not found", id)
}

// Budgets returns a copy of the budget list.
func (l *Ledger) Budgets() []Budget {
	return append([]Budget(nil), l.ds.Budgets...)
}

// SetBudget upserts the cap for a category.
func (l *Ledger) SetBudget(category string, amount decimal.Decimal) {
	l.EnsureCategory(category)
	for i := range l.ds.Budgets {
		if l.ds.Budgets[i].Category == category {
			l.ds.Budgets[i].Amount = amount
			return
		}
	}
	l.ds.Budgets = append(l.ds.Budgets, Budget{Category: category, Amount: amount})
}

func (l *Ledger) RemoveBudget(category string) bool {
	for i := range l.ds.Budgets {
		if l.ds.Budgets[i].Category == category {
			l.ds.Budgets = append(l.ds.Budgets[:i], l.ds.Budgets[i+1:]...)
			return true
		}
	}
	return false
}

// Goals returns a copy of the goal list.
func (l *Ledger) Goals() []Goal {
	return append([]Goal(nil), l.ds.Goals...)
}

func (l *Ledger) AddGoal(name string, target, saved decimal.Decimal) Goal {
	g := Goal{ID: uuid.NewString(), Name: name, Target: target, Saved: saved}
	l.ds.Goals = append(l.ds.Goals, g)
	return g
}

func (l *Ledger) RemoveGoal(id string) bool {
	for i := range l.ds.Goals {
		if l.ds.Goals[i].ID == id {
			l.ds.Goals = append(l.ds.Goals[:i], l.ds.Goals[i+1:]...)
			return true
		}
	}
	return false
}

// MonthKey truncates an ISO date to its YYYY-MM month.
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// CurrentMonth returns the YYYY-MM key for today.
func CurrentMonth() string {
	return time.Now().Format("2006-01")
}

// MonthIncome sums positive amounts in the given YYYY-MM month.
func (l *Ledger) MonthIncome(month string) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range l.ds.Transactions {
		if MonthKey(tx.Date) == month && tx.Amount.IsPositive() {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}

// MonthExpenses sums debit amounts in the month, returned as a positive value.
func (l *Ledger) MonthExpenses(month string) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range l.ds.Transactions {
		if MonthKey(tx.Date) == month && tx.Amount.IsNegative() {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum.Abs()
}

// MonthSpendByCategory sums debits for one category in the month, as a
// positive value.
func (l *Ledger) MonthSpendByCategory(month, category string) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range l.ds.Transactions {
		if MonthKey(tx.Date) == month && tx.Amount.IsNegative() && tx.Category == category {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum.Abs()
}

// LastNMonths returns the n most recent month keys, oldest first.
func LastNMonths(n int) []string {
	now := time.Now()
	out := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, -i, 0).Format("2006-01"))
	}
	return out
}
