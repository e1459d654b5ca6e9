package driven

import (
	"context"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

// CredentialStore defines the driven port for credential persistence.
// Implementations store and return encrypted payloads as opaque bytes; the
// application layer owns encryption and decryption.
type CredentialStore interface {
	// Insert appends a new row for the given pair. Existing rows for the same
	// pair are left untouched.
	Insert(ctx context.Context, service, username string, encrypted []byte) (int64, error)

	// Latest returns the most recently inserted row for the given pair.
	// Returns model.ErrNotFound if no row matches.
	Latest(ctx context.Context, service, username string) (*model.Credential, error)

	// List returns every row in insertion order. When service is non-empty only
	// rows for that service are returned. Encrypted payloads are not loaded.
	List(ctx context.Context, service string) ([]model.CredentialRef, error)

	// Delete removes all rows for the given pair and reports how many were removed.
	Delete(ctx context.Context, service, username string) (int64, error)
}
