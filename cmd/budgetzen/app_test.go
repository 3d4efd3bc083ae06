package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("BUDGETZEN_CONFIG", filepath.Join(dir, "no-config.toml"))
	t.Setenv("BUDGETZEN_STORAGE_PATH", filepath.Join(dir, "budgetzen.json"))
}

func TestImportPersistsAcrossRestart(t *testing.T) {
	testEnv(t)

	csvPath := filepath.Join(t.TempDir(), "bank.csv")
	csv := "date,description,amount\n" +
		"2026-01-05,NETFLIX.COM 123,-13.49\n" +
		"2026-01-07,SALARY ACME,2100.00\n" +
		"not-a-date,BROKEN,xx\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o600))

	app, err := newApp("")
	require.NoError(t, err)
	imp := importCmd{Path: csvPath}
	require.NoError(t, imp.Run(app))
	app.Close()

	t.Log("reopening the dataset in a fresh app")
	app2, err := newApp("")
	require.NoError(t, err)
	defer app2.Close()

	txs := app2.ledger.Transactions()
	require.Len(t, txs, 2)
	require.Equal(t, "Subscriptions", txs[0].Category, "default rules run on import")
	require.False(t, app2.loadFailed)
}

func TestEncryptedSlotRefusesBlindSave(t *testing.T) {
	testEnv(t)

	app, err := newApp("hunter2")
	require.NoError(t, err)
	add := addCmd{Date: "2026-02-01", Amount: "-9.99", Description: "SPOTIFY"}
	require.NoError(t, add.Run(app))
	app.Close()

	t.Log("reopening without the passphrase")
	locked, err := newApp("")
	require.NoError(t, err)
	defer locked.Close()
	require.True(t, locked.loadFailed)
	require.Empty(t, locked.ledger.Transactions())
	require.Error(t, locked.save(), "a failed unlock must not overwrite the slot")

	t.Log("reopening with the right passphrase")
	unlocked, err := newApp("hunter2")
	require.NoError(t, err)
	defer unlocked.Close()
	require.True(t, unlocked.ledger.Encrypted(), "loaded dataset carries the envelope flag")
	require.Len(t, unlocked.ledger.Transactions(), 1)
	require.Equal(t, "Subscriptions", unlocked.ledger.Transactions()[0].Category)
}

func TestCurrencyCommand(t *testing.T) {
	testEnv(t)

	app, err := newApp("")
	require.NoError(t, err)
	require.Equal(t, "EUR", app.ledger.Currency())
	cur := currencyCmd{Code: "usd"}
	require.NoError(t, cur.Run(app))
	app.Close()

	app2, err := newApp("")
	require.NoError(t, err)
	defer app2.Close()
	require.Equal(t, "USD", app2.ledger.Currency())
}

func TestCategoriesPersistNewLabels(t *testing.T) {
	testEnv(t)

	app, err := newApp("")
	require.NoError(t, err)
	require.Contains(t, app.ledger.Categories(), "Groceries", "defaults seeded on first run")
	add := addCmd{Date: "2026-04-01", Amount: "-12.00", Description: "PETSHOP", Category: "Pets"}
	require.NoError(t, add.Run(app))
	app.Close()

	app2, err := newApp("")
	require.NoError(t, err)
	defer app2.Close()
	require.Contains(t, app2.ledger.Categories(), "Pets")
}

func TestSQLiteBackend(t *testing.T) {
	testEnv(t)
	t.Setenv("BUDGETZEN_STORAGE_BACKEND", "sqlite")
	t.Setenv("BUDGETZEN_STORAGE_PATH", filepath.Join(t.TempDir(), "budgetzen.db"))

	app, err := newApp("")
	require.NoError(t, err)
	add := addCmd{Date: "2026-03-01", Amount: "-45.00", Description: "SNCF PARIS"}
	require.NoError(t, add.Run(app))
	app.Close()

	app2, err := newApp("")
	require.NoError(t, err)
	defer app2.Close()
	txs := app2.ledger.Transactions()
	require.Len(t, txs, 1)
	require.Equal(t, "Transport", txs[0].Category)
}
