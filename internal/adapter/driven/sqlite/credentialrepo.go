package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQLite implementation of the CredentialStore port.
// Rows are insert-only; the encrypted payload is stored as an opaque blob.
type CredentialRepo struct {
	db *DB
}

// NewCredentialRepo creates a new CredentialRepo.
func NewCredentialRepo(db *DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// Insert appends a new credential row and returns its id.
func (r *CredentialRepo) Insert(ctx context.Context, service, username string, encrypted []byte) (int64, error) {
	const query = `INSERT INTO passwords (service_name, username, encrypted_password) VALUES (?, ?, ?)`
	res, err := r.db.Writer.ExecContext(ctx, query, service, username, encrypted)
	if err != nil {
		return 0, storageErr(fmt.Sprintf("insert credential %q/%q", service, username), err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("read inserted credential id", err)
	}
	return id, nil
}

// Latest returns the most recently inserted row for the pair.
func (r *CredentialRepo) Latest(ctx context.Context, service, username string) (*model.Credential, error) {
	const query = `
		SELECT id, service_name, username, encrypted_password, created_at
		FROM passwords
		WHERE service_name = ? AND username = ?
		ORDER BY id DESC
		LIMIT 1`

	var cred model.Credential
	var createdAt string
	err := r.db.Reader.QueryRowContext(ctx, query, service, username).
		Scan(&cred.ID, &cred.Service, &cred.Username, &cred.EncryptedPassword, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get credential %q/%q", service, username), err)
	}

	cred.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("parse created_at for credential %d", cred.ID), err)
	}
	return &cred, nil
}

// List returns credential references in insertion order, optionally filtered
// by service. Encrypted payloads are never selected.
func (r *CredentialRepo) List(ctx context.Context, service string) ([]model.CredentialRef, error) {
	query := `SELECT id, service_name, username, created_at FROM passwords`
	var args []any
	if service != "" {
		query += ` WHERE service_name = ?`
		args = append(args, service)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list credentials", err)
	}
	defer rows.Close()

	refs := []model.CredentialRef{}
	for rows.Next() {
		var ref model.CredentialRef
		var createdAt string
		if err := rows.Scan(&ref.ID, &ref.Service, &ref.Username, &createdAt); err != nil {
			return nil, storageErr("scan credential", err)
		}

		ref.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, storageErr(fmt.Sprintf("parse created_at for credential %d", ref.ID), err)
		}

		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate credentials", err)
	}

	return refs, nil
}

// Delete removes every row for the pair in a single statement.
func (r *CredentialRepo) Delete(ctx context.Context, service, username string) (int64, error) {
	const query = `DELETE FROM passwords WHERE service_name = ? AND username = ?`
	res, err := r.db.Writer.ExecContext(ctx, query, service, username)
	if err != nil {
		return 0, storageErr(fmt.Sprintf("delete credential %q/%q", service, username), err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("read deleted credential count", err)
	}
	return n, nil
}
