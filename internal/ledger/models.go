package ledger

import (
	"github.com/shopspring/decimal"
)

// Transaction is a single dated monetary movement. Date and Amount are
// mandatory; a record missing either is rejected at the parser boundary and
// never enters the ledger.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // negative = expense
	Category    string          `json:"category"`
	Account     string          `json:"account"`
	Currency    string          `json:"currency"`
}

// Rule maps a description pattern to a category. Patterns wrapped in
// /.../ are regular expressions, anything else is a literal substring.
type Rule struct {
	Pattern  string `json:"pattern"`
	Category string `json:"category"`
}

// Budget is a monthly spending cap for one category.
type Budget struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Goal is a savings target.
type Goal struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Target decimal.Decimal `json:"target"`
	Saved  decimal.Decimal `json:"saved"`
}

// Dataset is the persisted shape of the whole ledger. Encrypted records
// whether a passphrase key was active at save time.
type Dataset struct {
	Currency     string        `json:"currency"`
	Categories   []string      `json:"categories"`
	Transactions []Transaction `json:"transactions"`
	Budgets      []Budget      `json:"budgets"`
	Rules        []Rule        `json:"rules"`
	Goals        []Goal        `json:"goals"`
	Encrypted    bool          `json:"encrypted"`
}

// DefaultCategories seed a fresh dataset.
var DefaultCategories = []string{
	"Subscriptions", "Housing", "Groceries", "Restaurants", "Transport",
	"Health", "Leisure", "Travel", "Gifts", "Taxes", "Savings", "Salary",
	"Other",
}

// DefaultRules returns the starter categorization rules for a new ledger.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "NETFLIX", Category: "Subscriptions"},
		{Pattern: "SPOTIFY", Category: "Subscriptions"},
		{Pattern: "AMAZON PRIME", Category: "Subscriptions"},
		{Pattern: "UBER", Category: "Transport"},
		{Pattern: "SNCF", Category: "Transport"},
		{Pattern: "CARREFOUR", Category: "Groceries"},
	}
}
