package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/keyvault/internal/database"
	apperrors "github.com/allisson/keyvault/internal/errors"
	"github.com/allisson/keyvault/internal/testutil"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

func TestNewPostgreSQLVaultRepository(t *testing.T) {
	repo := NewPostgreSQLVaultRepository()
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLVaultRepository{}, repo)
}

func TestPostgreSQLVaultRepository_Get(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLVaultRepository()
	sm := database.NewSessionManager(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "alice@example.com")
	vaultID := testutil.CreateTestVault(t, db, userID, "production-vault")

	err := sm.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
		vault, err := repo.Get(ctx, sess, vaultID, userID)
		require.NoError(t, err)

		assert.Equal(t, vaultID, vault.ID)
		assert.Equal(t, "production-vault", vault.Name)
		return nil
	})
	require.NoError(t, err)
}

func TestPostgreSQLVaultRepository_Get_NotFound(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLVaultRepository()
	sm := database.NewSessionManager(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "alice@example.com")

	err := sm.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
		_, err := repo.Get(ctx, sess, 999999, userID)
		return err
	})
	assert.ErrorIs(t, err, vaultDomain.ErrVaultNotFound)
}

func TestPostgreSQLVaultRepository_Get_NoGrant(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLVaultRepository()
	sm := database.NewSessionManager(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, "alice@example.com")
	outsider := testutil.CreateTestUser(t, db, "bob@example.com")
	vaultID := testutil.CreateTestVault(t, db, owner, "production-vault")

	// An existing vault without a grant is indistinguishable from an absent one.
	err := sm.WithUserSession(ctx, outsider, func(ctx context.Context, sess *database.Session) error {
		_, err := repo.Get(ctx, sess, vaultID, outsider)
		return err
	})
	assert.ErrorIs(t, err, vaultDomain.ErrVaultNotFound)
}

func TestPostgreSQLVaultRepository_GetUserVaultGrant(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLVaultRepository()
	sm := database.NewSessionManager(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "alice@example.com")
	vaultID := testutil.CreateTestVault(t, db, userID, "production-vault")

	err := sm.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
		grant, err := repo.GetUserVaultGrant(ctx, sess, userID, vaultID)
		require.NoError(t, err)

		assert.Equal(t, userID, grant.UserID)
		assert.Equal(t, vaultID, grant.VaultID)
		assert.NotEmpty(t, grant.EncryptedVaultKey)
		assert.NotEmpty(t, grant.ECDHPublicKey)
		return nil
	})
	require.NoError(t, err)
}

func TestPostgreSQLVaultRepository_GetUserVaultGrant_NotFound(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLVaultRepository()
	sm := database.NewSessionManager(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "alice@example.com")

	err := sm.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
		_, err := repo.GetUserVaultGrant(ctx, sess, userID, 999999)
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostgreSQLVaultRepository_GetEnvironment(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLVaultRepository()
	sm := database.NewSessionManager(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "alice@example.com")
	vaultID := testutil.CreateTestVault(t, db, userID, "production-vault")
	environmentID := testutil.CreateTestEnvironment(t, db, vaultID, "production")

	err := sm.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
		environment, err := repo.GetEnvironment(ctx, sess, environmentID, vaultID)
		require.NoError(t, err)

		assert.Equal(t, environmentID, environment.ID)
		assert.Equal(t, vaultID, environment.VaultID)
		assert.Equal(t, "production", environment.Name)
		return nil
	})
	require.NoError(t, err)
}

func TestPostgreSQLVaultRepository_GetEnvironment_WrongVault(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLVaultRepository()
	sm := database.NewSessionManager(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "alice@example.com")
	vaultID := testutil.CreateTestVault(t, db, userID, "production-vault")
	otherVaultID := testutil.CreateTestVault(t, db, userID, "staging-vault")
	environmentID := testutil.CreateTestEnvironment(t, db, vaultID, "production")

	// An environment looked up under a vault it does not belong to is absent.
	err := sm.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
		_, err := repo.GetEnvironment(ctx, sess, environmentID, otherVaultID)
		return err
	})
	assert.ErrorIs(t, err, vaultDomain.ErrEnvironmentNotFound)
}
