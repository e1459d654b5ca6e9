// Package keyring adapts the host OS credential facility to the SecretCache
// port. Secrets are stored under the given service name, keyed by account.
package keyring

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/99designs/keyring"

	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.SecretCache = (*OS)(nil)
	_ driven.SecretCache = (*Memory)(nil)
	_ driven.SecretCache = Disabled{}
)

// ErrNoBackend is returned when the host offers no non-interactive keyring backend.
var ErrNoBackend = errors.New("no OS keyring backend available")

// openFunc matches keyring.Open and is swapped out in tests.
type openFunc func(cfg keyring.Config) (keyring.Keyring, error)

// OS stores secrets in the operating system keyring (macOS Keychain, Secret
// Service, KWallet, Windows Credential Manager, keyctl or pass). The encrypted
// file backend is never used because it would prompt for its own passphrase.
type OS struct {
	open     openFunc
	backends []keyring.BackendType
}

// NewOS creates an OS keyring cache using every non-interactive backend the
// host supports.
func NewOS() *OS {
	return &OS{open: keyring.Open, backends: osBackends(keyring.AvailableBackends())}
}

func osBackends(available []keyring.BackendType) []keyring.BackendType {
	return slices.DeleteFunc(slices.Clone(available), func(b keyring.BackendType) bool {
		return b == keyring.FileBackend
	})
}

func (o *OS) ring(service string) (keyring.Keyring, error) {
	if len(o.backends) == 0 {
		return nil, ErrNoBackend
	}
	ring, err := o.open(keyring.Config{
		ServiceName:              service,
		AllowedBackends:          o.backends,
		KeychainTrustApplication: true,
		KeychainSynchronizable:   false,
		LibSecretCollectionName:  "login",
		KWalletAppID:             service,
		KWalletFolder:            service,
		WinCredPrefix:            service,
		KeyCtlScope:              "user",
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring %q: %w", service, err)
	}
	return ring, nil
}

// SetSecret stores value for service/account, replacing any previous value.
func (o *OS) SetSecret(service, account, value string) error {
	ring, err := o.ring(service)
	if err != nil {
		return err
	}
	if err := ring.Set(keyring.Item{
		Key:   account,
		Data:  []byte(value),
		Label: service + " " + account,
	}); err != nil {
		return fmt.Errorf("set keyring item %q: %w", account, err)
	}
	return nil
}

// GetSecret returns the value for service/account or driven.ErrSecretNotFound.
func (o *OS) GetSecret(service, account string) (string, error) {
	ring, err := o.ring(service)
	if err != nil {
		return "", err
	}
	item, err := ring.Get(account)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", driven.ErrSecretNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get keyring item %q: %w", account, err)
	}
	return string(item.Data), nil
}

// Memory is a process-local SecretCache. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{secrets: make(map[string]string)}
}

func memoryKey(service, account string) string {
	return service + "\x00" + account
}

// SetSecret stores value for service/account.
func (m *Memory) SetSecret(service, account, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[memoryKey(service, account)] = value
	return nil
}

// GetSecret returns the value for service/account or driven.ErrSecretNotFound.
func (m *Memory) GetSecret(service, account string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.secrets[memoryKey(service, account)]
	if !ok {
		return "", driven.ErrSecretNotFound
	}
	return v, nil
}

// Disabled is a SecretCache that never stores anything. It is used when
// caching is turned off by configuration.
type Disabled struct{}

// SetSecret discards the value.
func (Disabled) SetSecret(string, string, string) error { return nil }

// GetSecret always reports the secret as absent.
func (Disabled) GetSecret(string, string) (string, error) { return "", driven.ErrSecretNotFound }
