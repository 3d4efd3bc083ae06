package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pblanchard/budgetzen/internal/config"
	"github.com/pblanchard/budgetzen/internal/crypto"
	"github.com/pblanchard/budgetzen/internal/ledger"
	"github.com/pblanchard/budgetzen/internal/logger"
	"github.com/pblanchard/budgetzen/internal/store"
	"github.com/pblanchard/budgetzen/internal/subscriptions"
)

// App wires config, the persistence store and the live ledger for the
// commands. One App serves exactly one command invocation, so saves never
// overlap.
type App struct {
	cfg    config.Config
	log    zerolog.Logger
	key    crypto.Key
	store  *store.Store
	ledger *ledger.Ledger

	// set when the slot holds data that could not be loaded (missing or
	// wrong passphrase, corruption); mutating saves are refused so a
	// failed load can't silently wipe the slot.
	loadFailed bool

	sqlite *store.SQLiteSlot
}

func newApp(passphrase string) (*App, error) {
	log := logger.New()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var slot store.Slot
	var sqlite *store.SQLiteSlot
	switch cfg.Storage.Backend {
	case "sqlite":
		sqlite, err = store.OpenSQLiteSlot(cfg.Storage.Path, cfg.Storage.Slot)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		slot = sqlite
	default:
		slot = store.NewFileSlot(cfg.Storage.Path)
	}

	var key crypto.Key
	if passphrase != "" {
		key = crypto.DeriveKey(passphrase)
	}

	st := store.New(slot, log)
	led := ledger.New(cfg.Currency)

	ds, loadFailed := st.Load(key)
	if ds != nil {
		led.Replace(*ds)
	}

	return &App{
		cfg:        cfg,
		log:        log,
		key:        key,
		store:      st,
		ledger:     led,
		loadFailed: loadFailed,
		sqlite:     sqlite,
	}, nil
}

func (a *App) Close() {
	if a.sqlite != nil {
		_ = a.sqlite.Close()
	}
}

// save persists the current dataset. Called once at the end of every
// mutating command.
func (a *App) save() error {
	if a.loadFailed {
		return fmt.Errorf("refusing to overwrite a dataset that could not be loaded")
	}
	if err := a.store.Save(a.ledger.Snapshot(), a.key); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	return nil
}

func (a *App) getters() subscriptions.Getters {
	return subscriptions.Getters{
		CurrentMonth:         ledger.CurrentMonth,
		MonthIncome:          a.ledger.MonthIncome,
		MonthExpenses:        a.ledger.MonthExpenses,
		MonthSpendByCategory: a.ledger.MonthSpendByCategory,
	}
}
