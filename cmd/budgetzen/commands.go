package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pblanchard/budgetzen/internal/ledger"
	"github.com/pblanchard/budgetzen/internal/parse"
	"github.com/pblanchard/budgetzen/internal/reconcile"
	"github.com/pblanchard/budgetzen/internal/rules"
	"github.com/pblanchard/budgetzen/internal/subscriptions"
)

type importCmd struct {
	Path string `arg:"" help:"Bank export to import (.csv, .ofx, .qif; anything else is read as delimited text)."`
}

func (c *importCmd) Run(app *App) error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	res := parse.File(c.Path, string(data), app.ledger.Currency())

	ms, err := rules.Compile(app.ledger.Rules())
	if err != nil {
		return err
	}
	rules.ApplyAll(res.Transactions, ms)
	app.ledger.Append(res.Transactions...)

	if err := app.save(); err != nil {
		return err
	}
	fmt.Printf("imported %d transaction(s)", len(res.Transactions))
	if res.Dropped > 0 {
		fmt.Printf(", dropped %d malformed row(s)", res.Dropped)
	}
	fmt.Println()
	if dups := reconcile.FindDuplicates(app.ledger.Transactions()); len(dups) > 0 {
		fmt.Printf("%d possible duplicate pair(s); run 'budgetzen dedupe' to review\n", len(dups))
	}
	return nil
}

type addCmd struct {
	Date        string `arg:"" help:"Transaction date (YYYY-MM-DD or DD/MM/YYYY)."`
	Amount      string `arg:"" help:"Signed amount; negative for expenses. Comma decimals accepted."`
	Description string `arg:"" help:"Free-text description."`
	Category    string `help:"Category label. Rules fill it in when omitted."`
	Account     string `help:"Account label."`
}

func (c *addCmd) Run(app *App) error {
	amount, err := parse.Amount(c.Amount)
	if err != nil {
		return err
	}
	tx := ledger.Transaction{
		Date:        c.Date,
		Description: c.Description,
		Amount:      amount,
		Category:    c.Category,
		Account:     c.Account,
	}
	ms, err := rules.Compile(app.ledger.Rules())
	if err != nil {
		return err
	}
	rules.Apply(&tx, ms)
	if c.Category != "" {
		tx.Category = c.Category // explicit category beats rules
	}
	tx, err = app.ledger.Add(tx)
	if err != nil {
		return err
	}
	if err := app.save(); err != nil {
		return err
	}
	fmt.Printf("added %s\n", tx.ID)
	return nil
}

type listCmd struct {
	Month string `help:"Restrict to one YYYY-MM month."`
}

func (c *listCmd) Run(app *App) error {
	for _, tx := range app.ledger.Transactions() {
		if c.Month != "" && ledger.MonthKey(tx.Date) != c.Month {
			continue
		}
		fmt.Printf("%s  %10s %s  %-16s %s  [%s]\n",
			tx.Date, tx.Amount.StringFixed(2), tx.Currency, tx.Category, tx.Description, tx.ID)
	}
	return nil
}

type editCmd struct {
	ID          string `arg:"" help:"Transaction id."`
	Date        string `help:"New date."`
	Amount      string `help:"New amount."`
	Description string `help:"New description."`
	Category    string `help:"New category."`
	Account     string `help:"New account."`
}

func (c *editCmd) Run(app *App) error {
	tx, ok := app.ledger.Get(c.ID)
	if !ok {
		return fmt.Errorf("no transaction with id %s", c.ID)
	}
	if c.Date != "" {
		tx.Date = c.Date
	}
	if c.Amount != "" {
		amount, err := parse.Amount(c.Amount)
		if err != nil {
			return err
		}
		tx.Amount = amount
	}
	if c.Description != "" {
		tx.Description = c.Description
	}
	if c.Category != "" {
		tx.Category = c.Category
	}
	if c.Account != "" {
		tx.Account = c.Account
	}
	if err := app.ledger.Update(tx); err != nil {
		return err
	}
	return app.save()
}

type rmCmd struct {
	ID string `arg:"" help:"Transaction id."`
}

func (c *rmCmd) Run(app *App) error {
	if !app.ledger.Delete(c.ID) {
		return fmt.Errorf("no transaction with id %s", c.ID)
	}
	return app.save()
}

type rulesCmd struct {
	List  rulesListCmd  `cmd:"" help:"Show the ordered rule list."`
	Add   rulesAddCmd   `cmd:"" help:"Append a rule. Later rules override earlier ones."`
	Rm    rulesRmCmd    `cmd:"" help:"Delete the rule at a position."`
	Apply rulesApplyCmd `cmd:"" help:"Re-run every rule over the whole history."`
}

type rulesListCmd struct{}

func (c *rulesListCmd) Run(app *App) error {
	for i, r := range app.ledger.Rules() {
		fmt.Printf("%3d  %-30s -> %s\n", i, r.Pattern, r.Category)
	}
	return nil
}

type rulesAddCmd struct {
	Pattern  string `arg:"" help:"Literal substring, or /.../ for a regular expression."`
	Category string `arg:"" help:"Category assigned on match."`
}

func (c *rulesAddCmd) Run(app *App) error {
	r := ledger.Rule{Pattern: c.Pattern, Category: c.Category}
	// reject a broken regex before it lands in the dataset
	if _, err := rules.Compile([]ledger.Rule{r}); err != nil {
		return err
	}
	app.ledger.AddRule(r)
	return app.save()
}

type rulesRmCmd struct {
	Index int `arg:"" help:"Rule position, as shown by 'rules list'."`
}

func (c *rulesRmCmd) Run(app *App) error {
	if err := app.ledger.RemoveRule(c.Index); err != nil {
		return err
	}
	return app.save()
}

type rulesApplyCmd struct{}

func (c *rulesApplyCmd) Run(app *App) error {
	ms, err := rules.Compile(app.ledger.Rules())
	if err != nil {
		return err
	}
	txs := app.ledger.Transactions()
	changed := rules.ApplyAll(txs, ms)
	for _, tx := range txs {
		if err := app.ledger.SetCategory(tx.ID, tx.Category); err != nil {
			return err
		}
	}
	if err := app.save(); err != nil {
		return err
	}
	fmt.Printf("recategorized %d transaction(s)\n", changed)
	return nil
}

type subsCmd struct{}

func (c *subsCmd) Run(app *App) error {
	subs := subscriptions.Detect(app.ledger.Transactions())
	if len(subs) == 0 {
		fmt.Println("no recurring subscriptions detected")
		return nil
	}
	cur := app.ledger.Currency()
	for _, s := range subs {
		fmt.Printf("%-30s %8s %s/%s  last %s\n    %s\n",
			s.Merchant, s.Average.StringFixed(2), cur, s.Frequency, s.LastDate, s.Advice)
	}
	return nil
}

type tipsCmd struct{}

func (c *tipsCmd) Run(app *App) error {
	tips := subscriptions.Tips(
		app.ledger.Transactions(), app.ledger.Budgets(), app.ledger.Goals(),
		app.ledger.Currency(), app.getters())
	for _, tip := range tips {
		fmt.Println("- " + tip)
	}
	return nil
}

type summaryCmd struct {
	Months int `default:"6" help:"How many months back to show."`
}

func (c *summaryCmd) Run(app *App) error {
	cur := app.ledger.Currency()
	for _, month := range ledger.LastNMonths(c.Months) {
		income := app.ledger.MonthIncome(month)
		expenses := app.ledger.MonthExpenses(month)
		fmt.Printf("%s  in %10s  out %10s  net %10s %s\n",
			month, income.StringFixed(2), expenses.StringFixed(2),
			income.Sub(expenses).StringFixed(2), cur)
	}
	return nil
}

type budgetCmd struct {
	Set  budgetSetCmd  `cmd:"" help:"Set the monthly cap for a category."`
	List budgetListCmd `cmd:"" help:"Show budgets and current-month spending."`
	Rm   budgetRmCmd   `cmd:"" help:"Remove a category budget."`
}

type budgetSetCmd struct {
	Category string `arg:""`
	Amount   string `arg:""`
}

func (c *budgetSetCmd) Run(app *App) error {
	amount, err := parse.Amount(c.Amount)
	if err != nil {
		return err
	}
	app.ledger.SetBudget(c.Category, amount)
	return app.save()
}

type budgetListCmd struct{}

func (c *budgetListCmd) Run(app *App) error {
	month := ledger.CurrentMonth()
	for _, b := range app.ledger.Budgets() {
		spent := app.ledger.MonthSpendByCategory(month, b.Category)
		fmt.Printf("%-16s %8s / %8s %s\n",
			b.Category, spent.StringFixed(2), b.Amount.StringFixed(2), app.ledger.Currency())
	}
	return nil
}

type budgetRmCmd struct {
	Category string `arg:""`
}

func (c *budgetRmCmd) Run(app *App) error {
	if !app.ledger.RemoveBudget(c.Category) {
		return fmt.Errorf("no budget for category %q", c.Category)
	}
	return app.save()
}

type goalCmd struct {
	Add  goalAddCmd  `cmd:"" help:"Add a savings goal."`
	List goalListCmd `cmd:"" help:"Show savings goals."`
	Rm   goalRmCmd   `cmd:"" help:"Remove a goal by id."`
}

type goalAddCmd struct {
	Name   string `arg:""`
	Target string `arg:""`
	Saved  string `default:"0" help:"Amount already put aside."`
}

func (c *goalAddCmd) Run(app *App) error {
	target, err := parse.Amount(c.Target)
	if err != nil {
		return err
	}
	saved, err := parse.Amount(c.Saved)
	if err != nil {
		return err
	}
	g := app.ledger.AddGoal(c.Name, target, saved)
	if err := app.save(); err != nil {
		return err
	}
	fmt.Printf("added goal %s\n", g.ID)
	return nil
}

type goalListCmd struct{}

func (c *goalListCmd) Run(app *App) error {
	for _, g := range app.ledger.Goals() {
		fmt.Printf("%-24s %8s / %8s %s  [%s]\n",
			g.Name, g.Saved.StringFixed(2), g.Target.StringFixed(2), app.ledger.Currency(), g.ID)
	}
	return nil
}

type goalRmCmd struct {
	ID string `arg:""`
}

func (c *goalRmCmd) Run(app *App) error {
	if !app.ledger.RemoveGoal(c.ID) {
		return fmt.Errorf("no goal with id %s", c.ID)
	}
	return app.save()
}

type dedupeCmd struct{}

func (c *dedupeCmd) Run(app *App) error {
	pairs := reconcile.FindDuplicates(app.ledger.Transactions())
	if len(pairs) == 0 {
		fmt.Println("no duplicate candidates")
		return nil
	}
	for _, p := range pairs {
		fmt.Printf("%.0f%%  %s %s %q [%s]\n  ~  %s %s %q [%s]\n",
			p.Similarity*100,
			p.A.Date, p.A.Amount.StringFixed(2), p.A.Description, p.A.ID,
			p.B.Date, p.B.Amount.StringFixed(2), p.B.Description, p.B.ID)
	}
	fmt.Println("use 'budgetzen rm <id>' to drop a duplicate")
	return nil
}

type exportCmd struct {
	CSV    exportCSVCmd    `cmd:"" name:"csv" help:"Export transactions as delimited text."`
	Backup exportBackupCmd `cmd:"" help:"Export the persisted envelope for backup or transfer."`
}

type exportCSVCmd struct {
	Out string `default:"-" help:"Output file, or - for stdout."`
}

func (c *exportCSVCmd) Run(app *App) error {
	return writeOut(c.Out, []byte(app.ledger.ExportCSV()))
}

type exportBackupCmd struct {
	Out string `default:"-" help:"Output file, or - for stdout."`
}

func (c *exportBackupCmd) Run(app *App) error {
	raw, err := app.store.Raw()
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("nothing saved yet")
	}
	return writeOut(c.Out, raw)
}

type protectCmd struct{}

func (c *protectCmd) Run(app *App) error {
	was := app.ledger.Encrypted()
	if err := app.save(); err != nil {
		return err
	}
	now := app.key != nil
	switch {
	case now && !was:
		fmt.Println("dataset is now encrypted")
	case !now && was:
		fmt.Println("dataset is now unencrypted")
	case now:
		fmt.Println("dataset re-saved, still encrypted")
	default:
		fmt.Println("dataset re-saved, still unencrypted")
	}
	return nil
}

type currencyCmd struct {
	Code string `arg:"" optional:"" help:"New currency code, e.g. EUR or USD. Omit to show the current one."`
}

func (c *currencyCmd) Run(app *App) error {
	if c.Code == "" {
		fmt.Println(app.ledger.Currency())
		return nil
	}
	app.ledger.SetCurrency(strings.ToUpper(c.Code))
	return app.save()
}

type categoriesCmd struct{}

func (c *categoriesCmd) Run(app *App) error {
	for _, name := range app.ledger.Categories() {
		fmt.Println(name)
	}
	return nil
}

func writeOut(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
