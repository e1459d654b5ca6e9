package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// CredentialService is the plaintext boundary for stored credentials. It
// encrypts before every write and decrypts after every read; the underlying
// store only ever sees ciphertext.
type CredentialService struct {
	store  driven.CredentialStore
	cipher *CipherEngine
	logger *slog.Logger
}

// NewCredentialService creates a CredentialService bound to an unlocked engine.
func NewCredentialService(store driven.CredentialStore, cipher *CipherEngine, logger *slog.Logger) *CredentialService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialService{
		store:  store,
		cipher: cipher,
		logger: logger,
	}
}

// Store encrypts password and appends it for service/username. Earlier rows for
// the same pair are kept.
func (s *CredentialService) Store(ctx context.Context, service, username, password string) error {
	if err := validatePair(service, username); err != nil {
		return err
	}

	token, err := s.cipher.Encrypt([]byte(password))
	if err != nil {
		return fmt.Errorf("encrypt credential %q/%q: %w", service, username, err)
	}

	id, err := s.store.Insert(ctx, service, username, token)
	if err != nil {
		return err
	}
	s.logger.Debug("credential stored", "id", id, "service", service, "username", username)
	return nil
}

// Get returns the password of the most recently stored row for service/username.
// Returns model.ErrNotFound if none exists and model.ErrDecryptionFailure if
// the row does not authenticate under this session's key.
func (s *CredentialService) Get(ctx context.Context, service, username string) (string, error) {
	cred, err := s.store.Latest(ctx, service, username)
	if err != nil {
		return "", err
	}

	plaintext, err := s.cipher.Decrypt(cred.EncryptedPassword)
	if err != nil {
		return "", fmt.Errorf("decrypt credential %q/%q: %w", service, username, err)
	}
	return string(plaintext), nil
}

// List returns stored pairs in insertion order without decrypting anything.
// An empty service returns every row.
func (s *CredentialService) List(ctx context.Context, service string) ([]model.CredentialRef, error) {
	return s.store.List(ctx, service)
}

// Delete removes every row for service/username and returns how many were
// removed. Returns model.ErrNotFound when nothing matched.
func (s *CredentialService) Delete(ctx context.Context, service, username string) (int64, error) {
	n, err := s.store.Delete(ctx, service, username)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("delete %q/%q: %w", service, username, model.ErrNotFound)
	}
	s.logger.Debug("credentials deleted", "service", service, "username", username, "count", n)
	return n, nil
}

// Generate creates a random password of the given length, stores it for
// service/username and returns it.
func (s *CredentialService) Generate(ctx context.Context, service, username string, length int) (string, error) {
	if err := validatePair(service, username); err != nil {
		return "", err
	}
	password, err := GeneratePassword(length)
	if err != nil {
		return "", err
	}
	if err := s.Store(ctx, service, username, password); err != nil {
		return "", err
	}
	return password, nil
}

func validatePair(service, username string) error {
	if service == "" {
		return fmt.Errorf("%w: service is required", model.ErrInvalidInput)
	}
	if username == "" {
		return fmt.Errorf("%w: username is required", model.ErrInvalidInput)
	}
	return nil
}
