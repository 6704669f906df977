package repository

import (
	"context"

	"github.com/allisson/keyvault/internal/database"
	apperrors "github.com/allisson/keyvault/internal/errors"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// PostgreSQLSecretRepository implements Secret persistence for PostgreSQL.
// Ciphertext columns are read and written verbatim; this layer never inspects
// or transforms them.
type PostgreSQLSecretRepository struct{}

// GetAllByVault retrieves all secrets of a vault. The bound session's row
// security decides whether the vault's rows are visible at all.
func (p *PostgreSQLSecretRepository) GetAllByVault(
	ctx context.Context,
	sess *database.Session,
	vaultID uint32,
) ([]*vaultDomain.Secret, error) {
	query := `SELECT name, name_blind_index, secret, environment_id
			  FROM secrets
			  WHERE vault_id = $1
			  ORDER BY id`

	rows, err := sess.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list vault secrets")
	}
	defer func() { _ = rows.Close() }()

	var secrets []*vaultDomain.Secret
	for rows.Next() {
		var secret vaultDomain.Secret
		err := rows.Scan(
			&secret.EncryptedName,
			&secret.NameBlindIndex,
			&secret.EncryptedSecretValue,
			&secret.EnvironmentID,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan vault secret")
		}
		secrets = append(secrets, &secret)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate vault secrets")
	}

	return secrets, nil
}

// GetAllByServiceAccount retrieves all secrets held directly by a service account.
func (p *PostgreSQLSecretRepository) GetAllByServiceAccount(
	ctx context.Context,
	sess *database.Session,
	serviceAccountID uint32,
) ([]*vaultDomain.ServiceAccountSecret, error) {
	query := `SELECT service_account_id, name, name_blind_index, secret, ecdh_public_key
			  FROM service_account_secrets
			  WHERE service_account_id = $1
			  ORDER BY id`

	rows, err := sess.QueryContext(ctx, query, serviceAccountID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list service account secrets")
	}
	defer func() { _ = rows.Close() }()

	var secrets []*vaultDomain.ServiceAccountSecret
	for rows.Next() {
		var secret vaultDomain.ServiceAccountSecret
		err := rows.Scan(
			&secret.ServiceAccountID,
			&secret.EncryptedName,
			&secret.NameBlindIndex,
			&secret.EncryptedSecretValue,
			&secret.ECDHPublicKey,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan service account secret")
		}
		secrets = append(secrets, &secret)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate service account secrets")
	}

	return secrets, nil
}

// CreateServiceAccountSecret inserts one directly held secret.
func (p *PostgreSQLSecretRepository) CreateServiceAccountSecret(
	ctx context.Context,
	sess *database.Session,
	secret *vaultDomain.ServiceAccountSecret,
) error {
	query := `INSERT INTO service_account_secrets
			  (service_account_id, name, name_blind_index, secret, ecdh_public_key)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := sess.ExecContext(
		ctx,
		query,
		secret.ServiceAccountID,
		secret.EncryptedName,
		secret.NameBlindIndex,
		secret.EncryptedSecretValue,
		secret.ECDHPublicKey,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create service account secret")
	}

	return nil
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL secret repository.
func NewPostgreSQLSecretRepository() *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{}
}
