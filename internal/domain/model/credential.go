package model

import "time"

// Credential is a stored row for a service/username pair. EncryptedPassword is
// an opaque token produced by the cipher engine; the store never interprets it.
// Several rows may share the same Service and Username.
type Credential struct {
	ID                int64
	Service           string
	Username          string
	EncryptedPassword []byte
	CreatedAt         time.Time
}

// CredentialRef identifies a stored credential without its secret material.
// It is what listing operations return.
type CredentialRef struct {
	ID        int64
	Service   string
	Username  string
	CreatedAt time.Time
}

// Ref strips the encrypted payload from a Credential.
func (c Credential) Ref() CredentialRef {
	return CredentialRef{
		ID:        c.ID,
		Service:   c.Service,
		Username:  c.Username,
		CreatedAt: c.CreatedAt,
	}
}
