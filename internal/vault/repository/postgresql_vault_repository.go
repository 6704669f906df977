// Package repository implements data persistence for the vault engine.
//
// Every method accepts a *database.Session: an open transaction already bound
// to a row-security context. There is no way to run these queries against an
// unbound connection.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/keyvault/internal/database"
	apperrors "github.com/allisson/keyvault/internal/errors"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// PostgreSQLVaultRepository implements vault and grant lookups for PostgreSQL.
type PostgreSQLVaultRepository struct{}

// Get retrieves a vault scoped to a user's grants. The query joins the grant
// table, so "no such vault" and "no grant for this user" both come back as
// ErrVaultNotFound.
func (p *PostgreSQLVaultRepository) Get(
	ctx context.Context,
	sess *database.Session,
	vaultID, userID uint32,
) (*vaultDomain.Vault, error) {
	query := `SELECT v.id, v.name
			  FROM vaults v
			  JOIN users_vaults uv ON uv.vault_id = v.id
			  WHERE v.id = $1 AND uv.user_id = $2`

	var vault vaultDomain.Vault
	err := sess.QueryRowContext(ctx, query, vaultID, userID).Scan(
		&vault.ID,
		&vault.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrVaultNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get vault")
	}

	return &vault, nil
}

// GetUserVaultGrant retrieves the grant row for a (user, vault) pair. An empty
// result surfaces as ErrNotFound so callers treat absence like any other
// failed lookup.
func (p *PostgreSQLVaultRepository) GetUserVaultGrant(
	ctx context.Context,
	sess *database.Session,
	userID, vaultID uint32,
) (*vaultDomain.UserVaultGrant, error) {
	query := `SELECT user_id, vault_id, encrypted_vault_key, ecdh_public_key
			  FROM users_vaults
			  WHERE user_id = $1 AND vault_id = $2`

	var grant vaultDomain.UserVaultGrant
	err := sess.QueryRowContext(ctx, query, userID, vaultID).Scan(
		&grant.UserID,
		&grant.VaultID,
		&grant.EncryptedVaultKey,
		&grant.ECDHPublicKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user vault grant")
	}

	return &grant, nil
}

// GetEnvironment retrieves an environment belonging to a vault.
func (p *PostgreSQLVaultRepository) GetEnvironment(
	ctx context.Context,
	sess *database.Session,
	environmentID, vaultID uint32,
) (*vaultDomain.Environment, error) {
	query := `SELECT id, vault_id, name FROM environments WHERE id = $1 AND vault_id = $2`

	var environment vaultDomain.Environment
	err := sess.QueryRowContext(ctx, query, environmentID, vaultID).Scan(
		&environment.ID,
		&environment.VaultID,
		&environment.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrEnvironmentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get environment")
	}

	return &environment, nil
}

// NewPostgreSQLVaultRepository creates a new PostgreSQL vault repository.
func NewPostgreSQLVaultRepository() *PostgreSQLVaultRepository {
	return &PostgreSQLVaultRepository{}
}
