package dto

import (
	"time"

	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// ServiceAccountSecretResponse represents one directly held secret in API responses.
type ServiceAccountSecretResponse struct {
	Name           []byte `json:"name"`
	NameBlindIndex []byte `json:"name_blind_index"`
	Secret         []byte `json:"secret"`
	ECDHPublicKey  []byte `json:"ecdh_public_key"`
}

// ServiceAccountSecretsResponse represents the result of a service-account fetch.
type ServiceAccountSecretsResponse struct {
	ServiceAccountID uint32                         `json:"service_account_id"`
	Secrets          []ServiceAccountSecretResponse `json:"secrets"`
}

// MapServiceAccountSecrets converts the domain result to an API response.
func MapServiceAccountSecrets(result *vaultDomain.ServiceAccountSecrets) ServiceAccountSecretsResponse {
	secrets := make([]ServiceAccountSecretResponse, 0, len(result.Secrets))
	for _, secret := range result.Secrets {
		secrets = append(secrets, ServiceAccountSecretResponse{
			Name:           secret.EncryptedName,
			NameBlindIndex: secret.NameBlindIndex,
			Secret:         secret.EncryptedSecretValue,
			ECDHPublicKey:  secret.ECDHPublicKey,
		})
	}
	return ServiceAccountSecretsResponse{
		ServiceAccountID: result.ServiceAccountID,
		Secrets:          secrets,
	}
}

// VaultSecretResponse represents one vault secret in API responses.
type VaultSecretResponse struct {
	Name           []byte `json:"name"`
	NameBlindIndex []byte `json:"name_blind_index"`
	Secret         []byte `json:"secret"`
	EnvironmentID  uint32 `json:"environment_id"`
}

// ConnectedServiceAccountResponse represents a connected service account in a
// vault fetch response.
type ConnectedServiceAccountResponse struct {
	ServiceAccountID uint32 `json:"service_account_id"`
	EnvironmentID    uint32 `json:"environment_id"`
	ECDHPublicKey    []byte `json:"ecdh_public_key"`
}

// VaultContentsResponse represents the assembled result of a vault fetch.
type VaultContentsResponse struct {
	Name              string                            `json:"name"`
	EncryptedVaultKey []byte                            `json:"encrypted_vault_key"`
	UserECDHPublicKey []byte                            `json:"user_ecdh_public_key"`
	Secrets           []VaultSecretResponse             `json:"secrets"`
	ServiceAccounts   []ConnectedServiceAccountResponse `json:"service_accounts"`
}

// MapVaultContents converts the domain result to an API response.
func MapVaultContents(contents *vaultDomain.VaultContents) VaultContentsResponse {
	secrets := make([]VaultSecretResponse, 0, len(contents.Secrets))
	for _, secret := range contents.Secrets {
		secrets = append(secrets, VaultSecretResponse{
			Name:           secret.EncryptedName,
			NameBlindIndex: secret.NameBlindIndex,
			Secret:         secret.EncryptedSecretValue,
			EnvironmentID:  secret.EnvironmentID,
		})
	}

	accounts := make([]ConnectedServiceAccountResponse, 0, len(contents.ServiceAccounts))
	for _, account := range contents.ServiceAccounts {
		accounts = append(accounts, ConnectedServiceAccountResponse{
			ServiceAccountID: account.ServiceAccountID,
			EnvironmentID:    account.EnvironmentID,
			ECDHPublicKey:    account.ECDHPublicKey,
		})
	}

	return VaultContentsResponse{
		Name:              contents.Name,
		EncryptedVaultKey: contents.EncryptedVaultKey,
		UserECDHPublicKey: contents.UserECDHPublicKey,
		Secrets:           secrets,
		ServiceAccounts:   accounts,
	}
}

// ServiceAccountOverviewResponse represents a service account listing row.
type ServiceAccountOverviewResponse struct {
	ID              uint32    `json:"id"`
	Name            string    `json:"name"`
	VaultName       *string   `json:"vault_name"`
	EnvironmentName *string   `json:"environment_name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ListServiceAccountsResponse represents the service account listing.
type ListServiceAccountsResponse struct {
	ServiceAccounts []ServiceAccountOverviewResponse `json:"service_accounts"`
}

// MapServiceAccountOverviews converts domain overview rows to an API response.
func MapServiceAccountOverviews(overviews []*vaultDomain.ServiceAccountOverview) ListServiceAccountsResponse {
	accounts := make([]ServiceAccountOverviewResponse, 0, len(overviews))
	for _, overview := range overviews {
		accounts = append(accounts, ServiceAccountOverviewResponse{
			ID:              overview.ID,
			Name:            overview.Name,
			VaultName:       overview.VaultName,
			EnvironmentName: overview.EnvironmentName,
			CreatedAt:       overview.CreatedAt,
			UpdatedAt:       overview.UpdatedAt,
		})
	}
	return ListServiceAccountsResponse{ServiceAccounts: accounts}
}
