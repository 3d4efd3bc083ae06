// Package store persists the dataset envelope to a single keyed slot,
// either a JSON file or a sqlite row. Saving always rewrites the whole
// slot; loading fails soft so a broken slot can never take startup down.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pblanchard/budgetzen/internal/crypto"
	"github.com/pblanchard/budgetzen/internal/ledger"
)

// Store wraps a slot with the crypto envelope.
type Store struct {
	slot Slot
	log  zerolog.Logger
}

func New(slot Slot, log zerolog.Logger) *Store {
	return &Store{slot: slot, log: log}
}

// Save serializes the dataset, seals it when a key is active, and
// overwrites the slot. Callers keep at most one save in flight.
func (s *Store) Save(ds ledger.Dataset, key crypto.Key) error {
	ds.Encrypted = key != nil
	plain, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("serialize dataset: %w", err)
	}
	env, err := crypto.Encrypt(plain, key)
	if err != nil {
		return fmt.Errorf("seal dataset: %w", err)
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("serialize envelope: %w", err)
	}
	return s.slot.Write(raw)
}

// Load reads the slot and returns the dataset, or nil when the slot is
// empty or unreadable. Every failure on this path is logged and swallowed;
// the caller continues with whatever dataset it already has. failed
// distinguishes a slot that holds data it could not give back (unreadable,
// unparseable, undecryptable) from a slot that is simply empty, so callers
// can refuse to overwrite data they never saw.
func (s *Store) Load(key crypto.Key) (ds *ledger.Dataset, failed bool) {
	raw, err := s.slot.Read()
	if err != nil {
		s.log.Warn().Err(err).Msg("storage slot unreadable, continuing with current dataset")
		return nil, true
	}
	if raw == nil {
		return nil, false
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		s.log.Warn().Err(err).Msg("storage slot unparseable, continuing with current dataset")
		return nil, true
	}

	if _, ok := probe["payload"]; !ok {
		// pre-envelope save: the slot holds the dataset object directly
		var legacy ledger.Dataset
		if err := json.Unmarshal(raw, &legacy); err != nil {
			s.log.Warn().Err(err).Msg("legacy dataset unparseable, continuing with current dataset")
			return nil, true
		}
		return &legacy, false
	}

	var env crypto.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.log.Warn().Err(err).Msg("envelope unparseable, continuing with current dataset")
		return nil, true
	}
	plain, err := crypto.Decrypt(env.Payload, key)
	if err != nil {
		switch {
		case errors.Is(err, crypto.ErrMissingKey):
			s.log.Warn().Msg("dataset is encrypted: pass the passphrase to unlock it")
		case errors.Is(err, crypto.ErrAuthentication):
			s.log.Warn().Msg("dataset could not be decrypted: wrong passphrase or corrupted data")
		default:
			s.log.Warn().Err(err).Msg("dataset could not be decrypted")
		}
		return nil, true
	}
	var out ledger.Dataset
	if err := json.Unmarshal(plain, &out); err != nil {
		s.log.Warn().Err(err).Msg("decrypted dataset unparseable, continuing with current dataset")
		return nil, true
	}
	out.Encrypted = env.Encrypted
	return &out, false
}

// Raw returns the slot contents verbatim, for full-dataset backup export.
func (s *Store) Raw() ([]byte, error) {
	return s.slot.Read()
}
