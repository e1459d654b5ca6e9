package application

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

var testCipherSalt = []byte("0123456789abcdef")

func newTestEngine(t *testing.T, key string) *CipherEngine {
	t.Helper()
	e, err := newCipherEngine(key, testCipherSalt)
	require.NoError(t, err)
	return e
}

func TestDeriveKey_Deterministic(t *testing.T) {
	a := deriveKey("master1", testCipherSalt)
	b := deriveKey("master1", testCipherSalt)
	assert.Equal(t, a, b)
	assert.Len(t, a, cipherKeySize)

	otherSalt := deriveKey("master1", []byte("fedcba9876543210"))
	assert.NotEqual(t, a, otherSalt, "per-vault salt changes the derived key")

	otherKey := deriveKey("master2", testCipherSalt)
	assert.NotEqual(t, a, otherKey)
}

func TestCipherEngine_RoundTrip(t *testing.T) {
	e := newTestEngine(t, "master1")

	for _, p := range [][]byte{
		[]byte("p@ss"),
		{},
		[]byte("unicode ✓ パスワード"),
		bytes.Repeat([]byte{0xAB}, 4096),
	} {
		token, err := e.Encrypt(p)
		require.NoError(t, err)

		got, err := e.Decrypt(token)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(p, got))
	}
}

func TestCipherEngine_AcrossSessions(t *testing.T) {
	token, err := newTestEngine(t, "master1").Encrypt([]byte("p@ss"))
	require.NoError(t, err)

	got, err := newTestEngine(t, "master1").Decrypt(token)
	require.NoError(t, err)
	assert.Equal(t, "p@ss", string(got))
}

func TestCipherEngine_FreshNonce(t *testing.T) {
	e := newTestEngine(t, "master1")

	a, err := e.Encrypt([]byte("same"))
	require.NoError(t, err)
	b, err := e.Encrypt([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCipherEngine_WrongKey(t *testing.T) {
	token, err := newTestEngine(t, "k1").Encrypt([]byte("secret"))
	require.NoError(t, err)

	got, err := newTestEngine(t, "k2").Decrypt(token)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, model.ErrDecryptionFailure)
}

func TestCipherEngine_TamperAndTruncate(t *testing.T) {
	e := newTestEngine(t, "master1")
	token, err := e.Encrypt([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token func() []byte
	}{
		{name: "flipped ciphertext byte", token: func() []byte {
			c := bytes.Clone(token)
			c[len(c)-1] ^= 0x01
			return c
		}},
		{name: "flipped timestamp", token: func() []byte {
			c := bytes.Clone(token)
			c[3] ^= 0x01
			return c
		}},
		{name: "unknown version", token: func() []byte {
			c := bytes.Clone(token)
			c[0] = 9
			return c
		}},
		{name: "truncated tag", token: func() []byte { return bytes.Clone(token[:len(token)-1]) }},
		{name: "header only", token: func() []byte { return bytes.Clone(token[:headerSize]) }},
		{name: "empty", token: func() []byte { return nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Decrypt(tt.token())
			assert.Nil(t, got)
			assert.ErrorIs(t, err, model.ErrDecryptionFailure)
		})
	}
}

func TestCipherEngine_IssuedAt(t *testing.T) {
	e := newTestEngine(t, "master1")
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	token, err := e.Encrypt([]byte("secret"))
	require.NoError(t, err)

	issued, err := e.IssuedAt(token)
	require.NoError(t, err)
	assert.Equal(t, fixed, issued)

	_, err = newTestEngine(t, "other").IssuedAt(token)
	assert.ErrorIs(t, err, model.ErrDecryptionFailure)
}
