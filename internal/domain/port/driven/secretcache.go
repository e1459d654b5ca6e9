package driven

import "errors"

// ErrSecretNotFound is returned by SecretCache.GetSecret when no entry exists.
var ErrSecretNotFound = errors.New("secret not found in cache")

// SecretCache is an optional OS-backed store for small secrets keyed by
// service and account. It is a convenience only: every failure must be
// tolerated by callers.
type SecretCache interface {
	SetSecret(service, account, value string) error
	GetSecret(service, account string) (string, error)
}
