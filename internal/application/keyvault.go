package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// Secret cache identifiers. The service is qualified with the vault id so two
// vault files never share a cached key.
const (
	KeyringServicePrefix = "pass-cli."
	KeyringAccount       = "encryption_key"
)

// KDF iteration counts for the key verifier hash.
const (
	ProductionIterations = 600_000
	TestIterations       = 1_000
)

const (
	saltSize    = 16
	keyHashSize = 32
)

// KDFParams configures the key verifier hash. Iteration counts below
// ProductionIterations are only accepted when TestMode is set.
type KDFParams struct {
	Iterations int
	TestMode   bool
}

// ProductionKDF returns the parameters used outside of tests.
func ProductionKDF() KDFParams {
	return KDFParams{Iterations: ProductionIterations}
}

// TestKDF returns reduced-cost parameters for test suites.
func TestKDF() KDFParams {
	return KDFParams{Iterations: TestIterations, TestMode: true}
}

// Validate reports whether the parameters may be used to write a verifier.
func (p KDFParams) Validate() error {
	if p.Iterations <= 0 {
		return fmt.Errorf("%w: kdf iterations must be positive, got %d", model.ErrInvalidInput, p.Iterations)
	}
	if !p.TestMode && p.Iterations < ProductionIterations {
		return fmt.Errorf("%w: kdf iterations %d below production minimum %d", model.ErrInvalidInput, p.Iterations, ProductionIterations)
	}
	return nil
}

// KeyVault gates every cryptographic operation behind proof of master key
// knowledge. It owns the single key verifier and hands out CipherEngines only
// for keys that match it.
type KeyVault struct {
	verifiers driven.VerifierStore
	cache     driven.SecretCache
	params    KDFParams
	logger    *slog.Logger
}

// NewKeyVault creates a KeyVault. cache may be nil, in which case keys are
// never cached and CachedKey always reports a miss.
func NewKeyVault(
	verifiers driven.VerifierStore,
	cache driven.SecretCache,
	params KDFParams,
	logger *slog.Logger,
) *KeyVault {
	if logger == nil {
		logger = slog.Default()
	}
	return &KeyVault{
		verifiers: verifiers,
		cache:     cache,
		params:    params,
		logger:    logger,
	}
}

// HasKey reports whether a verifier has been written.
func (v *KeyVault) HasKey(ctx context.Context) (bool, error) {
	return v.verifiers.Exists(ctx)
}

// SetKey initializes the vault with candidate as its master key. It fails with
// model.ErrAlreadyInitialized if a verifier exists. Caching the key is best
// effort and never fails the call.
func (v *KeyVault) SetKey(ctx context.Context, candidate string) error {
	_, err := v.setKey(ctx, candidate)
	return err
}

func (v *KeyVault) setKey(ctx context.Context, candidate string) (*model.KeyVerifier, error) {
	if candidate == "" {
		return nil, model.ErrEmptyKey
	}
	if err := v.params.Validate(); err != nil {
		return nil, err
	}

	exists, err := v.verifiers.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrAlreadyInitialized
	}

	salt, err := randomBytes(saltSize)
	if err != nil {
		return nil, err
	}
	cipherSalt, err := randomBytes(saltSize)
	if err != nil {
		return nil, err
	}

	verifier := model.KeyVerifier{
		VaultID:    uuid.NewString(),
		KeyHash:    hashKey(candidate, salt, v.params.Iterations),
		Salt:       salt,
		CipherSalt: cipherSalt,
		Iterations: v.params.Iterations,
	}
	if err := v.verifiers.Create(ctx, verifier); err != nil {
		return nil, err
	}
	v.logger.Info("vault initialized", "vault_id", verifier.VaultID, "iterations", verifier.Iterations)

	v.cacheKey(verifier.VaultID, candidate)
	return &verifier, nil
}

// VerifyKey reports whether candidate matches the stored verifier. A mismatch
// is (false, nil); errors are reserved for a missing verifier or storage failure.
func (v *KeyVault) VerifyKey(ctx context.Context, candidate string) (bool, error) {
	verifier, err := v.verifiers.Get(ctx)
	if err != nil {
		return false, err
	}
	return matches(verifier, candidate), nil
}

// Unlock opens a session for candidate. On a fresh vault the key is set;
// otherwise it must match the verifier or model.ErrInvalidKey is returned.
// The returned engine is the only way to encrypt or decrypt credentials.
func (v *KeyVault) Unlock(ctx context.Context, candidate string) (*CipherEngine, error) {
	verifier, err := v.verifiers.Get(ctx)
	switch {
	case errors.Is(err, model.ErrNotInitialized):
		verifier, err = v.setKey(ctx, candidate)
		if errors.Is(err, model.ErrAlreadyInitialized) {
			// Another process initialized the vault between our read and insert.
			verifier, err = v.verifiers.Get(ctx)
			if err == nil && !matches(verifier, candidate) {
				err = model.ErrInvalidKey
			}
		}
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case !matches(verifier, candidate):
		v.logger.Debug("key verification failed", "vault_id", verifier.VaultID)
		return nil, model.ErrInvalidKey
	}

	engine, err := newCipherEngine(candidate, verifier.CipherSalt)
	if err != nil {
		return nil, err
	}
	v.logger.Debug("vault unlocked", "vault_id", verifier.VaultID)
	return engine, nil
}

// CachedKey returns the master key cached for this vault, if any. Every
// failure is reported as a miss so callers fall back to prompting.
func (v *KeyVault) CachedKey(ctx context.Context) (string, bool) {
	if v.cache == nil {
		return "", false
	}
	verifier, err := v.verifiers.Get(ctx)
	if err != nil {
		return "", false
	}

	key, err := v.cache.GetSecret(KeyringServicePrefix+verifier.VaultID, KeyringAccount)
	if err != nil {
		if !errors.Is(err, driven.ErrSecretNotFound) {
			v.logger.Warn("secret cache unavailable", "error", err)
		}
		return "", false
	}
	return key, true
}

// Status summarizes the vault's key lifecycle state.
func (v *KeyVault) Status(ctx context.Context) (model.VaultStatus, error) {
	verifier, err := v.verifiers.Get(ctx)
	if errors.Is(err, model.ErrNotInitialized) {
		return model.VaultStatus{}, nil
	}
	if err != nil {
		return model.VaultStatus{}, err
	}
	return model.VaultStatus{
		Initialized: true,
		VaultID:     verifier.VaultID,
		Iterations:  verifier.Iterations,
		CreatedAt:   verifier.CreatedAt,
	}, nil
}

func (v *KeyVault) cacheKey(vaultID, key string) {
	if v.cache == nil {
		return
	}
	if err := v.cache.SetSecret(KeyringServicePrefix+vaultID, KeyringAccount, key); err != nil {
		v.logger.Warn("could not cache encryption key", "vault_id", vaultID, "error", err)
	}
}

func hashKey(key string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(key), salt, iterations, keyHashSize, sha256.New)
}

// matches compares in constant time with respect to the key content.
func matches(verifier *model.KeyVerifier, candidate string) bool {
	computed := hashKey(candidate, verifier.Salt, verifier.Iterations)
	return subtle.ConstantTimeCompare(computed, verifier.KeyHash) == 1
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("rand salt: %w", err)
	}
	return b, nil
}
