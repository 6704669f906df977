package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allisson/keyvault/internal/database"
	apperrors "github.com/allisson/keyvault/internal/errors"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

const serviceAccountColumns = `id, account_name, vault_id, environment_id,
			  ecdh_public_key, encrypted_private_key, created_at, updated_at`

// PostgreSQLServiceAccountRepository implements ServiceAccount persistence for PostgreSQL.
type PostgreSQLServiceAccountRepository struct{}

// GetByPublicKey retrieves the service account owning the exact presented key.
// The session must have been bound by that same key; absence is reported as
// ErrServiceAccountNotFound whether the key is wrong or the account is gone,
// so responses cannot be used to enumerate keys.
func (p *PostgreSQLServiceAccountRepository) GetByPublicKey(
	ctx context.Context,
	sess *database.Session,
	publicKey []byte,
) (*vaultDomain.ServiceAccount, error) {
	query := `SELECT ` + serviceAccountColumns + `
			  FROM service_accounts
			  WHERE ecdh_public_key = $1`

	return p.scanServiceAccount(sess.QueryRowContext(ctx, query, publicKey))
}

// Get retrieves a service account by id. The lookup is deliberately not scoped
// to the caller's vaults: unconnected accounts have no vault to scope by, and
// for connected ones the use case's ownership guard performs the entitlement
// check inside the same transaction.
func (p *PostgreSQLServiceAccountRepository) Get(
	ctx context.Context,
	sess *database.Session,
	serviceAccountID uint32,
) (*vaultDomain.ServiceAccount, error) {
	query := `SELECT ` + serviceAccountColumns + `
			  FROM service_accounts
			  WHERE id = $1`

	return p.scanServiceAccount(sess.QueryRowContext(ctx, query, serviceAccountID))
}

// GetAllByVault retrieves the service accounts connected to a vault.
func (p *PostgreSQLServiceAccountRepository) GetAllByVault(
	ctx context.Context,
	sess *database.Session,
	vaultID uint32,
) ([]*vaultDomain.ServiceAccount, error) {
	query := `SELECT ` + serviceAccountColumns + `
			  FROM service_accounts
			  WHERE vault_id = $1
			  ORDER BY id`

	rows, err := sess.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list service accounts by vault")
	}
	defer func() { _ = rows.Close() }()

	var accounts []*vaultDomain.ServiceAccount
	for rows.Next() {
		account, err := p.scanServiceAccountFromRows(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate service accounts")
	}

	return accounts, nil
}

// ListOverviews retrieves the service accounts visible in the bound session,
// with the names of their vault and environment when connected. Row security
// on the session restricts the result to accounts the bound user may see.
func (p *PostgreSQLServiceAccountRepository) ListOverviews(
	ctx context.Context,
	sess *database.Session,
) ([]*vaultDomain.ServiceAccountOverview, error) {
	query := `SELECT sa.id, sa.account_name, v.name, e.name, sa.created_at, sa.updated_at
			  FROM service_accounts sa
			  LEFT JOIN vaults v ON v.id = sa.vault_id
			  LEFT JOIN environments e ON e.id = sa.environment_id
			  ORDER BY sa.id`

	rows, err := sess.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list service account overviews")
	}
	defer func() { _ = rows.Close() }()

	var overviews []*vaultDomain.ServiceAccountOverview
	for rows.Next() {
		var overview vaultDomain.ServiceAccountOverview
		var vaultName, environmentName sql.NullString

		err := rows.Scan(
			&overview.ID,
			&overview.Name,
			&vaultName,
			&environmentName,
			&overview.CreatedAt,
			&overview.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan service account overview")
		}

		if vaultName.Valid {
			overview.VaultName = &vaultName.String
		}
		if environmentName.Valid {
			overview.EnvironmentName = &environmentName.String
		}

		overviews = append(overviews, &overview)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate service account overviews")
	}

	return overviews, nil
}

// Connect links a service account to a vault and environment.
func (p *PostgreSQLServiceAccountRepository) Connect(
	ctx context.Context,
	sess *database.Session,
	serviceAccountID, vaultID, environmentID uint32,
) error {
	query := `UPDATE service_accounts
			  SET vault_id = $1, environment_id = $2, updated_at = $3
			  WHERE id = $4`

	_, err := sess.ExecContext(ctx, query, vaultID, environmentID, time.Now().UTC(), serviceAccountID)
	if err != nil {
		return apperrors.Wrap(err, "failed to connect service account")
	}

	return nil
}

// scanServiceAccount maps a single-row result to the domain type.
func (p *PostgreSQLServiceAccountRepository) scanServiceAccount(row *sql.Row) (*vaultDomain.ServiceAccount, error) {
	var account vaultDomain.ServiceAccount
	var vaultID, environmentID sql.NullInt64

	err := row.Scan(
		&account.ID,
		&account.Name,
		&vaultID,
		&environmentID,
		&account.ECDHPublicKey,
		&account.EncryptedPrivateKey,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrServiceAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get service account")
	}

	applyNullableIDs(&account, vaultID, environmentID)
	return &account, nil
}

// scanServiceAccountFromRows maps the current row of a multi-row result.
func (p *PostgreSQLServiceAccountRepository) scanServiceAccountFromRows(
	rows *sql.Rows,
) (*vaultDomain.ServiceAccount, error) {
	var account vaultDomain.ServiceAccount
	var vaultID, environmentID sql.NullInt64

	err := rows.Scan(
		&account.ID,
		&account.Name,
		&vaultID,
		&environmentID,
		&account.ECDHPublicKey,
		&account.EncryptedPrivateKey,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan service account")
	}

	applyNullableIDs(&account, vaultID, environmentID)
	return &account, nil
}

func applyNullableIDs(account *vaultDomain.ServiceAccount, vaultID, environmentID sql.NullInt64) {
	if vaultID.Valid {
		id := uint32(vaultID.Int64)
		account.VaultID = &id
	}
	if environmentID.Valid {
		id := uint32(environmentID.Int64)
		account.EnvironmentID = &id
	}
}

// NewPostgreSQLServiceAccountRepository creates a new PostgreSQL service account repository.
func NewPostgreSQLServiceAccountRepository() *PostgreSQLServiceAccountRepository {
	return &PostgreSQLServiceAccountRepository{}
}
