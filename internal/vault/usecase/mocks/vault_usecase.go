package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// MockVaultUseCase is a mock implementation of VaultUseCase for testing.
type MockVaultUseCase struct {
	mock.Mock
}

// FetchServiceAccountSecrets mocks the FetchServiceAccountSecrets method of VaultUseCase.
func (m *MockVaultUseCase) FetchServiceAccountSecrets(
	ctx context.Context,
	publicKey []byte,
) (*vaultDomain.ServiceAccountSecrets, error) {
	args := m.Called(ctx, publicKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.ServiceAccountSecrets), args.Error(1)
}

// FetchVaultContents mocks the FetchVaultContents method of VaultUseCase.
func (m *MockVaultUseCase) FetchVaultContents(
	ctx context.Context,
	userID, vaultID uint32,
) (*vaultDomain.VaultContents, error) {
	args := m.Called(ctx, userID, vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.VaultContents), args.Error(1)
}

// CreateSecrets mocks the CreateSecrets method of VaultUseCase.
func (m *MockVaultUseCase) CreateSecrets(
	ctx context.Context,
	userID uint32,
	batch []vaultDomain.AccountSecrets,
) error {
	args := m.Called(ctx, userID, batch)
	return args.Error(0)
}

// ListServiceAccounts mocks the ListServiceAccounts method of VaultUseCase.
func (m *MockVaultUseCase) ListServiceAccounts(
	ctx context.Context,
	userID uint32,
) ([]*vaultDomain.ServiceAccountOverview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.ServiceAccountOverview), args.Error(1)
}

// ConnectServiceAccount mocks the ConnectServiceAccount method of VaultUseCase.
func (m *MockVaultUseCase) ConnectServiceAccount(
	ctx context.Context,
	userID, serviceAccountID, vaultID, environmentID uint32,
) error {
	args := m.Called(ctx, userID, serviceAccountID, vaultID, environmentID)
	return args.Error(0)
}
