package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.VerifierStore = (*VerifierRepo)(nil)

// VerifierRepo is the SQLite implementation of the VerifierStore port.
// The key_verifier table admits a single row (id = 1) and triggers reject any
// UPDATE or DELETE against it.
type VerifierRepo struct {
	db *DB
}

// NewVerifierRepo creates a new VerifierRepo.
func NewVerifierRepo(db *DB) *VerifierRepo {
	return &VerifierRepo{db: db}
}

// Exists reports whether the verifier row has been written.
func (r *VerifierRepo) Exists(ctx context.Context) (bool, error) {
	const query = `SELECT COUNT(*) FROM key_verifier`
	var n int
	if err := r.db.Reader.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return false, storageErr("count key verifiers", err)
	}
	return n > 0, nil
}

// Get loads the verifier row.
func (r *VerifierRepo) Get(ctx context.Context) (*model.KeyVerifier, error) {
	const query = `
		SELECT vault_id, key_hash, salt, cipher_salt, iterations, created_at
		FROM key_verifier
		WHERE id = 1`

	var v model.KeyVerifier
	var createdAt string
	err := r.db.Reader.QueryRowContext(ctx, query).
		Scan(&v.VaultID, &v.KeyHash, &v.Salt, &v.CipherSalt, &v.Iterations, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotInitialized
	}
	if err != nil {
		return nil, storageErr("get key verifier", err)
	}

	v.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, storageErr("parse key verifier created_at", err)
	}
	return &v, nil
}

// Create inserts the verifier row. A conflicting insert is discarded by
// SQLite and reported as model.ErrAlreadyInitialized.
func (r *VerifierRepo) Create(ctx context.Context, v model.KeyVerifier) error {
	const query = `
		INSERT INTO key_verifier (id, vault_id, key_hash, salt, cipher_salt, iterations)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`

	res, err := r.db.Writer.ExecContext(ctx, query, v.VaultID, v.KeyHash, v.Salt, v.CipherSalt, v.Iterations)
	if err != nil {
		return storageErr("insert key verifier", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("read inserted key verifier count", err)
	}
	if n == 0 {
		return model.ErrAlreadyInitialized
	}
	return nil
}
