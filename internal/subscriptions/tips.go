package subscriptions

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pblanchard/budgetzen/internal/ledger"
)

// Getters supply the monthly aggregations Tips needs without binding this
// package to the ledger's internals.
type Getters struct {
	CurrentMonth         func() string
	MonthIncome          func(month string) decimal.Decimal
	MonthExpenses        func(month string) decimal.Decimal
	MonthSpendByCategory func(month, category string) decimal.Decimal
}

// Tips produces the money-saving hints shown after analysis: subscription
// weight, budget overruns for the current month, the estimated savings
// rate, and a couple of standing nudges.
func Tips(txs []ledger.Transaction, budgets []ledger.Budget, goals []ledger.Goal, currency string, g Getters) []string {
	var tips []string

	subTotal := decimal.Zero
	for _, c := range Detect(txs) {
		subTotal = subTotal.Add(c.Average)
	}
	if subTotal.IsPositive() {
		tips = append(tips, fmt.Sprintf(
			"Your subscriptions weigh about %s %s per month. Cancelling one saves immediately.",
			subTotal.StringFixed(2), currency))
	}

	month := g.CurrentMonth()
	for _, b := range budgets {
		if !b.Amount.IsPositive() {
			continue
		}
		spent := g.MonthSpendByCategory(month, b.Category)
		if spent.GreaterThan(b.Amount) {
			tips = append(tips, fmt.Sprintf(
				"Over the %q budget by %s %s. Freeze that spending for 7 days.",
				b.Category, spent.Sub(b.Amount).StringFixed(2), currency))
		}
	}

	income := g.MonthIncome(month)
	if income.IsPositive() {
		rate := income.Sub(g.MonthExpenses(month)).Div(income).Mul(decimal.NewFromInt(100))
		if rate.IsNegative() {
			rate = decimal.Zero
		}
		tips = append(tips, fmt.Sprintf(
			"Estimated savings rate: %s%%. Simple target: +5 points next month.",
			rate.Round(0).String()))
	}

	tips = append(tips, "Tip: enable rules to auto-classify your transactions.")
	if len(goals) == 0 {
		tips = append(tips, "Set a savings goal to stay motivated.")
	}
	return tips
}
