package model

import "errors"

// Key lifecycle errors.
var (
	// ErrNotInitialized indicates no key verifier exists yet.
	ErrNotInitialized = errors.New("vault has not been initialized")

	// ErrAlreadyInitialized indicates a key verifier already exists and cannot be replaced.
	ErrAlreadyInitialized = errors.New("vault has already been initialized")

	// ErrInvalidKey indicates the supplied master key does not match the stored verifier.
	ErrInvalidKey = errors.New("invalid encryption key")

	// ErrEmptyKey indicates an empty master key was supplied for initialization.
	ErrEmptyKey = errors.New("encryption key must not be empty")
)

// Credential errors.
var (
	// ErrNotFound indicates no credential matches the query.
	ErrNotFound = errors.New("credential not found")

	// ErrDecryptionFailure indicates a ciphertext did not authenticate under the active key.
	ErrDecryptionFailure = errors.New("failed to decrypt credential")

	// ErrInvalidInput indicates a required argument was missing or out of range.
	ErrInvalidInput = errors.New("invalid input")
)

// ErrStorageIO wraps filesystem and database failures.
var ErrStorageIO = errors.New("storage failure")
