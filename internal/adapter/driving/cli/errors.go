package cli

import (
	"errors"
	"fmt"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitError          = 1
	ExitUsage          = 2
	ExitNotInitialized = 3
	ExitInvalidKey     = 4
	ExitNotFound       = 5
	ExitDecryption     = 6
	ExitStorage        = 7
)

var (
	errAuthRequired = errors.New("authentication required")
	errAuthFailed   = errors.New("authentication failed")
	errNotAuthed    = errors.New("user is not authenticated")
	errKeyMismatch  = errors.New("encryption keys do not match")
	errUnhealthy    = errors.New("vault health check failed")
)

// usageError marks a failure to parse the command line.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// exitCode maps err to the process exit code.
func exitCode(err error) int {
	var usage usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage),
		errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrEmptyKey),
		errors.Is(err, errKeyMismatch):
		return ExitUsage
	case errors.Is(err, model.ErrNotInitialized):
		return ExitNotInitialized
	case errors.Is(err, model.ErrInvalidKey):
		return ExitInvalidKey
	case errors.Is(err, model.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, model.ErrDecryptionFailure):
		return ExitDecryption
	case errors.Is(err, model.ErrStorageIO):
		return ExitStorage
	default:
		return ExitError
	}
}

// errorMessage maps err to the message shown to the user. Sentinels with a
// fixed meaning get a fixed sentence; everything else shows the error chain.
func errorMessage(err error) string {
	var usage usageError
	switch {
	case errors.As(err, &usage):
		return fmt.Sprintf("%v\nRun 'passvault --help' for usage.", usage.err)
	case errors.Is(err, model.ErrNotInitialized):
		return "Password manager not initialized. Please run 'passvault init' first."
	case errors.Is(err, model.ErrAlreadyInitialized):
		return "Password manager already initialized!"
	case errors.Is(err, model.ErrInvalidKey):
		return "Invalid encryption key"
	case errors.Is(err, model.ErrNotFound):
		return "No password found for the given service and username"
	case errors.Is(err, model.ErrDecryptionFailure):
		return "Stored password could not be decrypted with this encryption key"
	case errors.Is(err, errAuthRequired):
		return "Authentication required! Please run 'passvault auth' first."
	case errors.Is(err, errAuthFailed):
		return "Authentication failed!"
	case errors.Is(err, errNotAuthed):
		return "User is not authenticated"
	case errors.Is(err, model.ErrStorageIO):
		return fmt.Sprintf("Storage error: %v", err)
	default:
		return err.Error()
	}
}
