package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pblanchard/budgetzen/internal/crypto"
	"github.com/pblanchard/budgetzen/internal/ledger"
	"github.com/pblanchard/budgetzen/internal/logger"
)

func sampleDataset() ledger.Dataset {
	return ledger.Dataset{
		Currency: "EUR",
		Transactions: []ledger.Transaction{{
			ID:          "t1",
			Date:        "2026-02-03",
			Description: "NETFLIX.COM",
			Amount:      decimal.RequireFromString("-13.49"),
			Category:    "Subscriptions",
			Currency:    "EUR",
		}},
		Rules: []ledger.Rule{{Pattern: "NETFLIX", Category: "Subscriptions"}},
	}
}

func newFileStore(t *testing.T) (*Store, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	slot := NewFileSlot(filepath.Join(t.TempDir(), "budgetzen.json"))
	return New(slot, logger.NewWithWriter(&logs)), &logs
}

func TestSaveLoadPlain(t *testing.T) {
	t.Parallel()

	s, _ := newFileStore(t)
	require.NoError(t, s.Save(sampleDataset(), nil))

	got, failed := s.Load(nil)
	require.False(t, failed)
	require.NotNil(t, got)
	require.False(t, got.Encrypted)
	require.Equal(t, "EUR", got.Currency)
	require.Len(t, got.Transactions, 1)
	require.Equal(t, "NETFLIX.COM", got.Transactions[0].Description)
	require.True(t, got.Transactions[0].Amount.Equal(decimal.RequireFromString("-13.49")))
}

func TestSaveLoadEncrypted(t *testing.T) {
	t.Parallel()

	s, _ := newFileStore(t)
	key := crypto.DeriveKey("hunter2")
	require.NoError(t, s.Save(sampleDataset(), key))

	raw, err := s.Raw()
	require.NoError(t, err)
	require.NotContains(t, string(raw), "NETFLIX", "slot must not hold plaintext")

	got, failed := s.Load(key)
	require.False(t, failed)
	require.NotNil(t, got)
	require.True(t, got.Encrypted)
	require.Len(t, got.Transactions, 1)
}

func TestLoadEncryptedWithoutKeyFailsSoft(t *testing.T) {
	t.Parallel()

	s, logs := newFileStore(t)
	require.NoError(t, s.Save(sampleDataset(), crypto.DeriveKey("hunter2")))

	got, failed := s.Load(nil)
	require.Nil(t, got)
	require.True(t, failed, "slot holds data it could not give back")
	require.Contains(t, logs.String(), "passphrase")

	got, failed = s.Load(crypto.DeriveKey("wrong"))
	require.Nil(t, got)
	require.True(t, failed)
	require.Contains(t, logs.String(), "wrong passphrase or corrupted data")
}

func TestLoadEmptySlot(t *testing.T) {
	t.Parallel()

	s, logs := newFileStore(t)
	got, failed := s.Load(nil)
	require.Nil(t, got)
	require.False(t, failed, "an absent slot is empty, not broken")
	require.Empty(t, logs.String(), "an absent slot is not an error")
}

func TestLoadLegacyPlainObject(t *testing.T) {
	t.Parallel()

	// an older save wrote the dataset object directly, no envelope
	path := filepath.Join(t.TempDir(), "budgetzen.json")
	legacy := `{"currency":"USD","transactions":[],"budgets":[],"rules":[],"goals":[],"encrypted":false}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	var logs bytes.Buffer
	s := New(NewFileSlot(path), logger.NewWithWriter(&logs))
	got, failed := s.Load(nil)
	require.False(t, failed)
	require.NotNil(t, got)
	require.Equal(t, "USD", got.Currency)
}

func TestLoadCorruptSlotFailsSoft(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "budgetzen.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{ not json"), 0o600))

	var logs bytes.Buffer
	s := New(NewFileSlot(path), logger.NewWithWriter(&logs))
	got, failed := s.Load(nil)
	require.Nil(t, got)
	require.True(t, failed)
	require.Contains(t, logs.String(), "unparseable")
}

func TestSaveOverwrites(t *testing.T) {
	t.Parallel()

	s, _ := newFileStore(t)
	require.NoError(t, s.Save(sampleDataset(), nil))

	ds := sampleDataset()
	ds.Currency = "USD"
	require.NoError(t, s.Save(ds, nil))

	got, failed := s.Load(nil)
	require.False(t, failed)
	require.NotNil(t, got)
	require.Equal(t, "USD", got.Currency)
}

func TestSQLiteSlotRoundTrip(t *testing.T) {
	t.Parallel()

	slot, err := OpenSQLiteSlot(filepath.Join(t.TempDir(), "budgetzen.db"), "budgetzen_v1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = slot.Close() })

	// empty slot reads as absent
	data, err := slot.Read()
	require.NoError(t, err)
	require.Nil(t, data)

	var logs bytes.Buffer
	s := New(slot, logger.NewWithWriter(&logs))
	key := crypto.DeriveKey("hunter2")
	require.NoError(t, s.Save(sampleDataset(), key))

	got, failed := s.Load(key)
	require.False(t, failed)
	require.NotNil(t, got)
	require.Len(t, got.Transactions, 1)

	// second save overwrites the single row
	ds := sampleDataset()
	ds.Currency = "USD"
	require.NoError(t, s.Save(ds, key))
	got, _ = s.Load(key)
	require.NotNil(t, got)
	require.Equal(t, "USD", got.Currency)
}
