package driven

import (
	"context"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

// VerifierStore defines the driven port for the single key verifier record.
type VerifierStore interface {
	// Exists reports whether a verifier has been written.
	Exists(ctx context.Context) (bool, error)

	// Get returns the verifier. Returns model.ErrNotInitialized if none exists.
	Get(ctx context.Context) (*model.KeyVerifier, error)

	// Create writes the verifier. Returns model.ErrAlreadyInitialized if one
	// already exists; the existing record is never replaced.
	Create(ctx context.Context, v model.KeyVerifier) error
}
