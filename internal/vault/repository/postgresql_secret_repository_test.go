package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/keyvault/internal/database"
	"github.com/allisson/keyvault/internal/testutil"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// createTestSecret inserts a vault secret fixture directly, bypassing the session layer.
func createTestSecret(t *testing.T, db *sql.DB, vaultID, environmentID uint32) *vaultDomain.Secret {
	t.Helper()

	secret := &vaultDomain.Secret{
		EncryptedName:        testutil.RandomBytes(t, 24),
		NameBlindIndex:       testutil.RandomBytes(t, 32),
		EncryptedSecretValue: testutil.RandomBytes(t, 64),
		EnvironmentID:        environmentID,
	}

	_, err := db.ExecContext(context.Background(),
		`INSERT INTO secrets (vault_id, environment_id, name, name_blind_index, secret)
		 VALUES ($1, $2, $3, $4, $5)`,
		vaultID,
		secret.EnvironmentID,
		secret.EncryptedName,
		secret.NameBlindIndex,
		secret.EncryptedSecretValue,
	)
	require.NoError(t, err, "failed to create test secret")
	return secret
}

func TestNewPostgreSQLSecretRepository(t *testing.T) {
	repo := NewPostgreSQLSecretRepository()
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLSecretRepository{}, repo)
}

func TestPostgreSQLSecretRepository_GetAllByVault(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLSecretRepository()
	sm := database.NewSessionManager(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "alice@example.com")
	vaultID := testutil.CreateTestVault(t, db, userID, "production-vault")
	otherVaultID := testutil.CreateTestVault(t, db, userID, "staging-vault")
	environmentID := testutil.CreateTestEnvironment(t, db, vaultID, "production")
	otherEnvironmentID := testutil.CreateTestEnvironment(t, db, otherVaultID, "staging")

	first := createTestSecret(t, db, vaultID, environmentID)
	second := createTestSecret(t, db, vaultID, environmentID)
	createTestSecret(t, db, otherVaultID, otherEnvironmentID)

	err := sm.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
		secrets, err := repo.GetAllByVault(ctx, sess, vaultID)
		require.NoError(t, err)

		require.Len(t, secrets, 2)

		// Ciphertext comes back byte for byte as stored, in insertion order.
		assert.Equal(t, first.EncryptedName, secrets[0].EncryptedName)
		assert.Equal(t, first.NameBlindIndex, secrets[0].NameBlindIndex)
		assert.Equal(t, first.EncryptedSecretValue, secrets[0].EncryptedSecretValue)
		assert.Equal(t, environmentID, secrets[0].EnvironmentID)
		assert.Equal(t, second.EncryptedName, secrets[1].EncryptedName)
		return nil
	})
	require.NoError(t, err)
}

func TestPostgreSQLSecretRepository_GetAllByVault_Empty(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLSecretRepository()
	sm := database.NewSessionManager(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "alice@example.com")
	vaultID := testutil.CreateTestVault(t, db, userID, "production-vault")

	err := sm.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
		secrets, err := repo.GetAllByVault(ctx, sess, vaultID)
		require.NoError(t, err)

		assert.Empty(t, secrets)
		return nil
	})
	require.NoError(t, err)
}

// asRestrictedRole switches the bound transaction to the non-owner role so the
// row-security policies actually apply. SET LOCAL keeps the switch scoped to
// the transaction, which matters with pooled connections.
func asRestrictedRole(t *testing.T, ctx context.Context, sess *database.Session) {
	t.Helper()

	_, err := sess.ExecContext(ctx, "SET LOCAL ROLE "+testutil.RestrictedRoleName)
	require.NoError(t, err, "failed to assume restricted role")
}

func TestPostgreSQLSecretRepository_ServiceAccountSecretRowSecurity(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	testutil.EnsureRestrictedRole(t, db)

	repo := NewPostgreSQLSecretRepository()
	sm := database.NewSessionManager(db)
	ctx := context.Background()

	publicKey := testutil.RandomBytes(t, 32)
	foreignKey := testutil.RandomBytes(t, 32)
	accountID := testutil.CreateTestServiceAccount(t, db, "ci-runner", publicKey, nil, nil)
	testutil.CreateTestServiceAccount(t, db, "other-runner", foreignKey, nil, nil)

	userID := testutil.CreateTestUser(t, db, "alice@example.com")

	stored := &vaultDomain.ServiceAccountSecret{
		ServiceAccountID:     accountID,
		EncryptedName:        testutil.RandomBytes(t, 24),
		NameBlindIndex:       testutil.RandomBytes(t, 32),
		EncryptedSecretValue: testutil.RandomBytes(t, 64),
		ECDHPublicKey:        publicKey,
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO service_account_secrets (service_account_id, name, name_blind_index, secret, ecdh_public_key)
		 VALUES ($1, $2, $3, $4, $5)`,
		stored.ServiceAccountID,
		stored.EncryptedName,
		stored.NameBlindIndex,
		stored.EncryptedSecretValue,
		stored.ECDHPublicKey,
	)
	require.NoError(t, err)

	t.Run("MatchingKeyReadsOwnRows", func(t *testing.T) {
		err := sm.WithKeySession(ctx, publicKey, func(ctx context.Context, sess *database.Session) error {
			asRestrictedRole(t, ctx, sess)

			secrets, err := repo.GetAllByServiceAccount(ctx, sess, accountID)
			require.NoError(t, err)

			require.Len(t, secrets, 1)
			assert.Equal(t, stored.EncryptedSecretValue, secrets[0].EncryptedSecretValue)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("ForeignKeyReadsNothing", func(t *testing.T) {
		err := sm.WithKeySession(ctx, foreignKey, func(ctx context.Context, sess *database.Session) error {
			asRestrictedRole(t, ctx, sess)

			secrets, err := repo.GetAllByServiceAccount(ctx, sess, accountID)
			require.NoError(t, err)

			assert.Empty(t, secrets)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("UngrantedUserReadsNothing", func(t *testing.T) {
		err := sm.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
			asRestrictedRole(t, ctx, sess)

			secrets, err := repo.GetAllByServiceAccount(ctx, sess, accountID)
			require.NoError(t, err)

			assert.Empty(t, secrets)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("UserWritesToUnconnectedAccount", func(t *testing.T) {
		deposited := &vaultDomain.ServiceAccountSecret{
			ServiceAccountID:     accountID,
			EncryptedName:        testutil.RandomBytes(t, 24),
			NameBlindIndex:       testutil.RandomBytes(t, 32),
			EncryptedSecretValue: testutil.RandomBytes(t, 64),
			ECDHPublicKey:        publicKey,
		}
		err := sm.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
			asRestrictedRole(t, ctx, sess)

			return repo.CreateServiceAccountSecret(ctx, sess, deposited)
		})
		require.NoError(t, err)

		// The depositor still cannot read it back; only the key holder can.
		err = sm.WithKeySession(ctx, publicKey, func(ctx context.Context, sess *database.Session) error {
			asRestrictedRole(t, ctx, sess)

			secrets, err := repo.GetAllByServiceAccount(ctx, sess, accountID)
			require.NoError(t, err)

			require.Len(t, secrets, 2)
			assert.Equal(t, deposited.EncryptedSecretValue, secrets[1].EncryptedSecretValue)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestPostgreSQLSecretRepository_CreateAndGetAllByServiceAccount(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLSecretRepository()
	sm := database.NewSessionManager(db)
	ctx := context.Background()

	publicKey := testutil.RandomBytes(t, 32)
	accountID := testutil.CreateTestServiceAccount(t, db, "ci-runner", publicKey, nil, nil)
	otherAccountID := testutil.CreateTestServiceAccount(t, db, "other-runner", testutil.RandomBytes(t, 32), nil, nil)

	userID := testutil.CreateTestUser(t, db, "alice@example.com")

	first := &vaultDomain.ServiceAccountSecret{
		ServiceAccountID:     accountID,
		EncryptedName:        testutil.RandomBytes(t, 24),
		NameBlindIndex:       testutil.RandomBytes(t, 32),
		EncryptedSecretValue: testutil.RandomBytes(t, 64),
		ECDHPublicKey:        publicKey,
	}
	second := &vaultDomain.ServiceAccountSecret{
		ServiceAccountID:     accountID,
		EncryptedName:        testutil.RandomBytes(t, 24),
		NameBlindIndex:       testutil.RandomBytes(t, 32),
		EncryptedSecretValue: testutil.RandomBytes(t, 64),
		ECDHPublicKey:        publicKey,
	}
	decoy := &vaultDomain.ServiceAccountSecret{
		ServiceAccountID:     otherAccountID,
		EncryptedName:        testutil.RandomBytes(t, 24),
		NameBlindIndex:       testutil.RandomBytes(t, 32),
		EncryptedSecretValue: testutil.RandomBytes(t, 64),
		ECDHPublicKey:        testutil.RandomBytes(t, 32),
	}

	// Write in a user session, as the create-secrets operation does.
	err := sm.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
		for _, secret := range []*vaultDomain.ServiceAccountSecret{first, second, decoy} {
			if err := repo.CreateServiceAccountSecret(ctx, sess, secret); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	// Read back in a key session, as the service-account fetch does.
	err = sm.WithKeySession(ctx, publicKey, func(ctx context.Context, sess *database.Session) error {
		secrets, err := repo.GetAllByServiceAccount(ctx, sess, accountID)
		require.NoError(t, err)

		require.Len(t, secrets, 2)

		assert.Equal(t, accountID, secrets[0].ServiceAccountID)
		assert.Equal(t, first.EncryptedName, secrets[0].EncryptedName)
		assert.Equal(t, first.NameBlindIndex, secrets[0].NameBlindIndex)
		assert.Equal(t, first.EncryptedSecretValue, secrets[0].EncryptedSecretValue)
		assert.Equal(t, publicKey, secrets[0].ECDHPublicKey)
		assert.Equal(t, second.EncryptedName, secrets[1].EncryptedName)
		return nil
	})
	require.NoError(t, err)
}
