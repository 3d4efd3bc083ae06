package main

import (
	"github.com/alecthomas/kong"
)

// cli commands / args available
var cli struct {
	Passphrase string `help:"Passphrase protecting the dataset. Omit to work unencrypted." env:"BUDGETZEN_PASSPHRASE"`

	Import     importCmd     `cmd:"" help:"Import a CSV, OFX or QIF bank export and auto-categorize it."`
	Add        addCmd        `cmd:"" help:"Record a transaction manually."`
	List       listCmd       `cmd:"" help:"List transactions."`
	Edit       editCmd       `cmd:"" help:"Edit a transaction by id."`
	Rm         rmCmd         `cmd:"" help:"Delete a transaction by id."`
	Rules      rulesCmd      `cmd:"" help:"Manage and apply categorization rules."`
	Categories categoriesCmd `cmd:"" help:"List known categories."`
	Currency   currencyCmd   `cmd:"" help:"Show or change the dataset currency."`
	Subs       subsCmd       `cmd:"" help:"Detect recurring subscriptions."`
	Tips       tipsCmd       `cmd:"" help:"Show money-saving tips."`
	Summary    summaryCmd    `cmd:"" help:"Monthly income and expense summary."`
	Budget     budgetCmd     `cmd:"" help:"Manage category budgets."`
	Goal       goalCmd       `cmd:"" help:"Manage savings goals."`
	Dedupe     dedupeCmd     `cmd:"" help:"Report likely duplicate transactions."`
	Export     exportCmd     `cmd:"" help:"Export transactions as CSV or the dataset as a backup."`
	Protect    protectCmd    `cmd:"" help:"Re-save the dataset, turning encryption on or off."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("budgetzen"),
		kong.Description("Local-first personal finance tracker."),
	)
	app, err := newApp(cli.Passphrase)
	ctx.FatalIfErrorf(err)
	defer app.Close()
	ctx.FatalIfErrorf(ctx.Run(app))
}
