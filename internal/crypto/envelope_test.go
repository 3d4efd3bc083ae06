package crypto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	t.Parallel()

	a := DeriveKey("hunter2")
	b := DeriveKey("hunter2")
	c := DeriveKey("hunter3")
	require.Len(t, []byte(a), 32)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	key := DeriveKey("hunter2")
	plaintext := []byte(`{"currency":"EUR","transactions":[]}`)

	env, err := Encrypt(plaintext, key)
	require.NoError(t, err)
	require.True(t, env.Encrypted)
	require.Contains(t, env.Payload, ".")
	require.NotContains(t, env.Payload, "EUR", "payload must not leak plaintext")

	got, err := Decrypt(env.Payload, key)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestEncryptEmptyDataset(t *testing.T) {
	t.Parallel()

	key := DeriveKey("pw")
	env, err := Encrypt([]byte(`{}`), key)
	require.NoError(t, err)
	got, err := Decrypt(env.Payload, key)
	require.NoError(t, err)
	require.Equal(t, []byte(`{}`), got)
}

func TestNoncesAreFresh(t *testing.T) {
	t.Parallel()

	key := DeriveKey("pw")
	a, err := Encrypt([]byte(`{"x":1}`), key)
	require.NoError(t, err)
	b, err := Encrypt([]byte(`{"x":1}`), key)
	require.NoError(t, err)
	require.NotEqual(t, a.Payload, b.Payload, "fresh nonce per save")
}

func TestPlaintextCompatibility(t *testing.T) {
	t.Parallel()

	env, err := Encrypt([]byte(`{"currency":"EUR"}`), nil)
	require.NoError(t, err)
	require.False(t, env.Encrypted)

	// a plain payload decrypts without any key
	got, err := Decrypt(env.Payload, nil)
	require.NoError(t, err)
	require.True(t, json.Valid(got))

	// and with one
	got, err = Decrypt(env.Payload, DeriveKey("whatever"))
	require.NoError(t, err)
	require.Equal(t, []byte(`{"currency":"EUR"}`), got)
}

func TestDecryptMissingKey(t *testing.T) {
	t.Parallel()

	env, err := Encrypt([]byte(`{"a":1}`), DeriveKey("pw"))
	require.NoError(t, err)

	_, err = Decrypt(env.Payload, nil)
	require.ErrorIs(t, err, ErrMissingKey)
}

func TestDecryptWrongKey(t *testing.T) {
	t.Parallel()

	env, err := Encrypt([]byte(`{"a":1}`), DeriveKey("right"))
	require.NoError(t, err)

	_, err = Decrypt(env.Payload, DeriveKey("wrong"))
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestDecryptTamperedPayload(t *testing.T) {
	t.Parallel()

	key := DeriveKey("pw")
	env, err := Encrypt([]byte(`{"a":1}`), key)
	require.NoError(t, err)

	nonceB64, ctB64, ok := strings.Cut(env.Payload, ".")
	require.True(t, ok)
	flipped := []byte(ctB64)
	if flipped[0] == 'A' {
		flipped[0] = 'B'
	} else {
		flipped[0] = 'A'
	}
	_, err = Decrypt(nonceB64+"."+string(flipped), key)
	require.Error(t, err)
}

func TestDecryptGarbage(t *testing.T) {
	t.Parallel()

	key := DeriveKey("pw")
	_, err := Decrypt("definitely-not-an-envelope", key)
	require.Error(t, err)
}
