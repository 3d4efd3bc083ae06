// Package crypto implements the dataset-at-rest envelope: a passphrase is
// stretched with PBKDF2 into an AES-256 key and the serialized dataset is
// sealed with GCM. Plaintext payloads from saves made without a key remain
// readable forever (legacy compatibility path).
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// kdfSalt is fixed on purpose: the envelope lives in single-user local
	// storage and a per-dataset salt would orphan every existing save. This
	// trades rainbow-table resistance for compatibility; do not reuse this
	// scheme for a server-side store.
	kdfSalt       = "budgetzen.salt.v1"
	kdfIterations = 120000
	keyLen        = 32
	nonceLen      = 12
)

// ErrMissingKey is returned when an encrypted payload is read with no
// active key.
var ErrMissingKey = errors.New("passphrase required to decrypt dataset")

// ErrAuthentication is returned when GCM rejects the payload. The
// primitive cannot tell a wrong passphrase from a tampered payload, so
// neither can we.
var ErrAuthentication = errors.New("decryption failed: wrong passphrase or corrupted data")

// Key is a derived symmetric key. A nil Key means encryption is off.
type Key []byte

// DeriveKey stretches a passphrase into a 256-bit key (PBKDF2-SHA256).
func DeriveKey(passphrase string) Key {
	return pbkdf2.Key([]byte(passphrase), []byte(kdfSalt), kdfIterations, keyLen, sha256.New)
}

// Envelope is the persisted container. When Encrypted is false, Payload is
// the plain dataset JSON; when true it is
// base64(nonce) + "." + base64(ciphertext||tag).
type Envelope struct {
	Encrypted bool   `json:"encrypted"`
	Payload   string `json:"payload"`
}

// Encrypt seals the serialized dataset. With no active key the payload is
// stored in the clear; otherwise a fresh 12-byte nonce is drawn per call.
func Encrypt(plaintext []byte, key Key) (Envelope, error) {
	if key == nil {
		return Envelope{Encrypted: false, Payload: string(plaintext)}, nil
	}
	gcm, err := newGCM(key)
	if err != nil {
		return Envelope{}, err
	}
	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return Envelope{}, fmt.Errorf("generate nonce: %w", err)
	}
	ct := gcm.Seal(nil, nonce, plaintext, nil)
	payload := base64.StdEncoding.EncodeToString(nonce) + "." + base64.StdEncoding.EncodeToString(ct)
	return Envelope{Encrypted: true, Payload: payload}, nil
}

// Decrypt recovers the serialized dataset from an envelope payload. A
// payload that already parses as JSON is returned as-is (a save made with
// encryption off). Otherwise it must be the dot-joined base64 form;
// reading it requires an active key and an intact authentication tag.
func Decrypt(payload string, key Key) ([]byte, error) {
	if json.Valid([]byte(payload)) {
		return []byte(payload), nil
	}
	if key == nil {
		return nil, ErrMissingKey
	}
	nonceB64, ctB64, ok := strings.Cut(payload, ".")
	if !ok {
		return nil, fmt.Errorf("malformed envelope payload")
	}
	nonce, err := base64.StdEncoding.DecodeString(nonceB64)
	if err != nil {
		return nil, fmt.Errorf("decode nonce: %w", err)
	}
	ct, err := base64.StdEncoding.DecodeString(ctB64)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	if len(nonce) != nonceLen {
		return nil, fmt.Errorf("malformed envelope payload: nonce length %d", len(nonce))
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	plain, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plain, nil
}

func newGCM(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return gcm, nil
}
