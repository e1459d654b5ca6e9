package model

import "time"

// KeyVerifier is the persisted proof of master key knowledge. Exactly one may
// exist per vault and it is never modified once written.
//
// KeyHash is PBKDF2-HMAC-SHA256(masterKey, Salt, Iterations). CipherSalt is the
// per-vault salt used to derive the symmetric encryption key. VaultID names the
// vault in the OS secret cache.
type KeyVerifier struct {
	VaultID    string
	KeyHash    []byte
	Salt       []byte
	CipherSalt []byte
	Iterations int
	CreatedAt  time.Time
}

// VaultStatus summarizes the key lifecycle state of a vault for display.
type VaultStatus struct {
	Initialized bool
	VaultID     string
	Iterations  int
	CreatedAt   time.Time
}
