// Package usecase defines the interfaces and implementations for vault access
// use cases. Use cases orchestrate identity-bound database sessions and
// repositories to implement secret retrieval and creation; they never touch
// the ciphertext they move.
package usecase

import (
	"context"

	"github.com/allisson/keyvault/internal/database"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// VaultRepository defines the interface for vault and grant lookups.
type VaultRepository interface {
	Get(ctx context.Context, sess *database.Session, vaultID, userID uint32) (*vaultDomain.Vault, error)
	GetUserVaultGrant(
		ctx context.Context,
		sess *database.Session,
		userID, vaultID uint32,
	) (*vaultDomain.UserVaultGrant, error)
	GetEnvironment(
		ctx context.Context,
		sess *database.Session,
		environmentID, vaultID uint32,
	) (*vaultDomain.Environment, error)
}

// ServiceAccountRepository defines the interface for ServiceAccount persistence operations.
type ServiceAccountRepository interface {
	GetByPublicKey(ctx context.Context, sess *database.Session, publicKey []byte) (*vaultDomain.ServiceAccount, error)
	Get(ctx context.Context, sess *database.Session, serviceAccountID uint32) (*vaultDomain.ServiceAccount, error)
	GetAllByVault(ctx context.Context, sess *database.Session, vaultID uint32) ([]*vaultDomain.ServiceAccount, error)
	ListOverviews(ctx context.Context, sess *database.Session) ([]*vaultDomain.ServiceAccountOverview, error)
	Connect(ctx context.Context, sess *database.Session, serviceAccountID, vaultID, environmentID uint32) error
}

// SecretRepository defines the interface for Secret persistence operations.
type SecretRepository interface {
	GetAllByVault(ctx context.Context, sess *database.Session, vaultID uint32) ([]*vaultDomain.Secret, error)
	GetAllByServiceAccount(
		ctx context.Context,
		sess *database.Session,
		serviceAccountID uint32,
	) ([]*vaultDomain.ServiceAccountSecret, error)
	CreateServiceAccountSecret(ctx context.Context, sess *database.Session, secret *vaultDomain.ServiceAccountSecret) error
}

// VaultUseCase defines the interface for vault access business logic. Every
// method runs inside a single identity-bound transaction; partial results are
// never committed.
type VaultUseCase interface {
	// FetchServiceAccountSecrets returns the secrets held directly by the
	// service account owning the presented public key.
	FetchServiceAccountSecrets(ctx context.Context, publicKey []byte) (*vaultDomain.ServiceAccountSecrets, error)

	// FetchVaultContents returns a vault's secrets, connected service
	// accounts, and the caller's wrapped vault key.
	FetchVaultContents(ctx context.Context, userID, vaultID uint32) (*vaultDomain.VaultContents, error)

	// CreateSecrets writes a batch of client-encrypted secrets to one or more
	// service accounts. The batch is atomic: any failed entry discards the
	// whole batch.
	CreateSecrets(ctx context.Context, userID uint32, batch []vaultDomain.AccountSecrets) error

	// ListServiceAccounts returns an overview of the service accounts visible
	// to the user.
	ListServiceAccounts(ctx context.Context, userID uint32) ([]*vaultDomain.ServiceAccountOverview, error)

	// ConnectServiceAccount links an unconnected service account to a vault
	// and one of its environments.
	ConnectServiceAccount(ctx context.Context, userID, serviceAccountID, vaultID, environmentID uint32) error
}
