package application

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

const (
	// CipherIterations is the fixed PBKDF2 iteration count used to derive the
	// symmetric encryption key from the master key.
	CipherIterations = 100_000

	cipherKeySize = 32

	// tokenVersion identifies the layout of an encrypted token:
	// version(1) || issued_at unix seconds(8, big-endian) || nonce(12) || ciphertext || tag(16).
	// The version byte and timestamp are authenticated as additional data.
	tokenVersion byte = 1
	headerSize        = 1 + 8
)

// CipherEngine performs authenticated encryption of credential payloads with
// AES-256-GCM under a key derived from a verified master key. Engines are only
// handed out by KeyVault.Unlock.
type CipherEngine struct {
	aead cipher.AEAD
	now  func() time.Time
}

// deriveKey stretches the master key with the vault's cipher salt. The output
// is deterministic so records written in one session decrypt in the next.
func deriveKey(masterKey string, cipherSalt []byte) []byte {
	return pbkdf2.Key([]byte(masterKey), cipherSalt, CipherIterations, cipherKeySize, sha256.New)
}

func newCipherEngine(masterKey string, cipherSalt []byte) (*CipherEngine, error) {
	key := deriveKey(masterKey, cipherSalt)
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}

	return &CipherEngine{aead: gcm, now: time.Now}, nil
}

// Encrypt seals plaintext into a self-describing token carrying its format
// version, issue time and a random nonce.
func (e *CipherEngine) Encrypt(plaintext []byte) ([]byte, error) {
	nonceSize := e.aead.NonceSize()
	token := make([]byte, headerSize+nonceSize, headerSize+nonceSize+len(plaintext)+e.aead.Overhead())

	token[0] = tokenVersion
	binary.BigEndian.PutUint64(token[1:headerSize], uint64(e.now().Unix()))

	nonce := token[headerSize : headerSize+nonceSize]
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("rand nonce: %w", err)
	}

	return e.aead.Seal(token, nonce, plaintext, token[:headerSize]), nil
}

// Decrypt opens a token produced by Encrypt. Any token that was sealed under a
// different key, altered, truncated or carries an unknown version fails with
// model.ErrDecryptionFailure and no plaintext.
func (e *CipherEngine) Decrypt(token []byte) ([]byte, error) {
	nonceSize := e.aead.NonceSize()
	if len(token) < headerSize+nonceSize+e.aead.Overhead() {
		return nil, fmt.Errorf("%w: token too short", model.ErrDecryptionFailure)
	}
	if token[0] != tokenVersion {
		return nil, fmt.Errorf("%w: unsupported token version %d", model.ErrDecryptionFailure, token[0])
	}

	nonce := token[headerSize : headerSize+nonceSize]
	plaintext, err := e.aead.Open(nil, nonce, token[headerSize+nonceSize:], token[:headerSize])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDecryptionFailure, err)
	}
	return plaintext, nil
}

// IssuedAt returns the authenticated time a token was sealed at.
func (e *CipherEngine) IssuedAt(token []byte) (time.Time, error) {
	if _, err := e.Decrypt(token); err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(binary.BigEndian.Uint64(token[1:headerSize])), 0).UTC(), nil
}
