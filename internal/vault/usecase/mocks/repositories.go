// Package mocks provides mock repository implementations for testing use cases.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/keyvault/internal/database"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// MockVaultRepository is a mock implementation of VaultRepository for testing.
type MockVaultRepository struct {
	mock.Mock
}

// Get mocks the Get method of VaultRepository.
func (m *MockVaultRepository) Get(
	ctx context.Context,
	sess *database.Session,
	vaultID, userID uint32,
) (*vaultDomain.Vault, error) {
	args := m.Called(ctx, sess, vaultID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Vault), args.Error(1)
}

// GetUserVaultGrant mocks the GetUserVaultGrant method of VaultRepository.
func (m *MockVaultRepository) GetUserVaultGrant(
	ctx context.Context,
	sess *database.Session,
	userID, vaultID uint32,
) (*vaultDomain.UserVaultGrant, error) {
	args := m.Called(ctx, sess, userID, vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.UserVaultGrant), args.Error(1)
}

// GetEnvironment mocks the GetEnvironment method of VaultRepository.
func (m *MockVaultRepository) GetEnvironment(
	ctx context.Context,
	sess *database.Session,
	environmentID, vaultID uint32,
) (*vaultDomain.Environment, error) {
	args := m.Called(ctx, sess, environmentID, vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Environment), args.Error(1)
}

// MockServiceAccountRepository is a mock implementation of ServiceAccountRepository for testing.
type MockServiceAccountRepository struct {
	mock.Mock
}

// GetByPublicKey mocks the GetByPublicKey method of ServiceAccountRepository.
func (m *MockServiceAccountRepository) GetByPublicKey(
	ctx context.Context,
	sess *database.Session,
	publicKey []byte,
) (*vaultDomain.ServiceAccount, error) {
	args := m.Called(ctx, sess, publicKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.ServiceAccount), args.Error(1)
}

// Get mocks the Get method of ServiceAccountRepository.
func (m *MockServiceAccountRepository) Get(
	ctx context.Context,
	sess *database.Session,
	serviceAccountID uint32,
) (*vaultDomain.ServiceAccount, error) {
	args := m.Called(ctx, sess, serviceAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.ServiceAccount), args.Error(1)
}

// GetAllByVault mocks the GetAllByVault method of ServiceAccountRepository.
func (m *MockServiceAccountRepository) GetAllByVault(
	ctx context.Context,
	sess *database.Session,
	vaultID uint32,
) ([]*vaultDomain.ServiceAccount, error) {
	args := m.Called(ctx, sess, vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.ServiceAccount), args.Error(1)
}

// ListOverviews mocks the ListOverviews method of ServiceAccountRepository.
func (m *MockServiceAccountRepository) ListOverviews(
	ctx context.Context,
	sess *database.Session,
) ([]*vaultDomain.ServiceAccountOverview, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.ServiceAccountOverview), args.Error(1)
}

// Connect mocks the Connect method of ServiceAccountRepository.
func (m *MockServiceAccountRepository) Connect(
	ctx context.Context,
	sess *database.Session,
	serviceAccountID, vaultID, environmentID uint32,
) error {
	args := m.Called(ctx, sess, serviceAccountID, vaultID, environmentID)
	return args.Error(0)
}

// MockSecretRepository is a mock implementation of SecretRepository for testing.
type MockSecretRepository struct {
	mock.Mock
}

// GetAllByVault mocks the GetAllByVault method of SecretRepository.
func (m *MockSecretRepository) GetAllByVault(
	ctx context.Context,
	sess *database.Session,
	vaultID uint32,
) ([]*vaultDomain.Secret, error) {
	args := m.Called(ctx, sess, vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Secret), args.Error(1)
}

// GetAllByServiceAccount mocks the GetAllByServiceAccount method of SecretRepository.
func (m *MockSecretRepository) GetAllByServiceAccount(
	ctx context.Context,
	sess *database.Session,
	serviceAccountID uint32,
) ([]*vaultDomain.ServiceAccountSecret, error) {
	args := m.Called(ctx, sess, serviceAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.ServiceAccountSecret), args.Error(1)
}

// CreateServiceAccountSecret mocks the CreateServiceAccountSecret method of SecretRepository.
func (m *MockSecretRepository) CreateServiceAccountSecret(
	ctx context.Context,
	sess *database.Session,
	secret *vaultDomain.ServiceAccountSecret,
) error {
	args := m.Called(ctx, sess, secret)
	return args.Error(0)
}
