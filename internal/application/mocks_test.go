package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// --- VerifierStore mock ---

type mockVerifierStore struct {
	mu       sync.Mutex
	verifier *model.KeyVerifier
	err      error // returned by every call when set
	creates  int
}

func (m *mockVerifierStore) Exists(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	return m.verifier != nil, nil
}

func (m *mockVerifierStore) Get(_ context.Context) (*model.KeyVerifier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.verifier == nil {
		return nil, model.ErrNotInitialized
	}
	v := *m.verifier
	return &v, nil
}

func (m *mockVerifierStore) Create(_ context.Context, v model.KeyVerifier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.verifier != nil {
		return model.ErrAlreadyInitialized
	}
	m.creates++
	v.CreatedAt = time.Now().UTC()
	m.verifier = &v
	return nil
}

// --- CredentialStore mock ---

type mockCredentialStore struct {
	mu     sync.Mutex
	rows   []model.Credential
	nextID int64
}

func (m *mockCredentialStore) Insert(_ context.Context, service, username string, encrypted []byte) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.rows = append(m.rows, model.Credential{
		ID:                m.nextID,
		Service:           service,
		Username:          username,
		EncryptedPassword: append([]byte(nil), encrypted...),
		CreatedAt:         time.Now().UTC(),
	})
	return m.nextID, nil
}

func (m *mockCredentialStore) Latest(_ context.Context, service, username string) (*model.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].Service == service && m.rows[i].Username == username {
			c := m.rows[i]
			return &c, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *mockCredentialStore) List(_ context.Context, service string) ([]model.CredentialRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	refs := []model.CredentialRef{}
	for _, r := range m.rows {
		if service == "" || r.Service == service {
			refs = append(refs, r.Ref())
		}
	}
	return refs, nil
}

func (m *mockCredentialStore) Delete(_ context.Context, service, username string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	var n int64
	for _, r := range m.rows {
		if r.Service == service && r.Username == username {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return n, nil
}

// --- SecretCache mocks ---

type mockSecretCache struct {
	mu      sync.Mutex
	secrets map[string]string
	setErr  error
	getErr  error
	sets    int
}

func newMockSecretCache() *mockSecretCache {
	return &mockSecretCache{secrets: map[string]string{}}
}

func (m *mockSecretCache) SetSecret(service, account, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.secrets[service+"/"+account] = value
	return nil
}

func (m *mockSecretCache) GetSecret(service, account string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.secrets[service+"/"+account]
	if !ok {
		return "", driven.ErrSecretNotFound
	}
	return v, nil
}

var errBackendDown = errors.New("keyring backend unavailable")

// --- helpers ---

func newTestVault() (*KeyVault, *mockVerifierStore, *mockSecretCache) {
	store := &mockVerifierStore{}
	cache := newMockSecretCache()
	return NewKeyVault(store, cache, TestKDF(), nil), store, cache
}
