// Package dto provides data transfer objects for HTTP request and response handling.
// All secret-bearing fields are []byte and travel base64-encoded on the wire;
// the server never decodes them into anything meaningful.
package dto

import (
	validation "github.com/jellydator/validation"

	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// FetchServiceAccountSecretsRequest carries the self-presented service account
// credential: the account's ECDH public key. The key is a credential, not an
// input field, so its absence is handled by identity resolution rather than
// validation.
type FetchServiceAccountSecretsRequest struct {
	ECDHPublicKey []byte `json:"ecdh_public_key"`
}

// SecretPayloadRequest is one client-encrypted secret to be written.
type SecretPayloadRequest struct {
	Name           []byte `json:"name"`
	NameBlindIndex []byte `json:"name_blind_index"`
	Secret         []byte `json:"secret"`
}

// Validate checks if the secret payload is valid.
func (r *SecretPayloadRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.NameBlindIndex, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.Secret, validation.Required, validation.Length(1, 0)),
	)
}

// AccountSecretsRequest is one entry of a create-secrets batch.
type AccountSecretsRequest struct {
	ServiceAccountID uint32                 `json:"service_account_id"`
	ECDHPublicKey    []byte                 `json:"ecdh_public_key"`
	Secrets          []SecretPayloadRequest `json:"secrets"`
}

// Validate checks if the batch entry is valid.
func (r *AccountSecretsRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.ServiceAccountID, validation.Required),
		validation.Field(&r.ECDHPublicKey, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.Secrets, validation.Required),
	)
	if err != nil {
		return err
	}

	for i := range r.Secrets {
		if err := r.Secrets[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CreateSecretsRequest contains the batch of secrets to write.
type CreateSecretsRequest struct {
	AccountSecrets []AccountSecretsRequest `json:"account_secrets"`
}

// Validate checks if the create secrets request is valid.
func (r *CreateSecretsRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.AccountSecrets, validation.Required),
	)
	if err != nil {
		return err
	}

	for i := range r.AccountSecrets {
		if err := r.AccountSecrets[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToDomain converts the request batch to domain batch entries.
func (r *CreateSecretsRequest) ToDomain() []vaultDomain.AccountSecrets {
	batch := make([]vaultDomain.AccountSecrets, 0, len(r.AccountSecrets))
	for _, entry := range r.AccountSecrets {
		secrets := make([]vaultDomain.SecretPayload, 0, len(entry.Secrets))
		for _, payload := range entry.Secrets {
			secrets = append(secrets, vaultDomain.SecretPayload{
				EncryptedName:        payload.Name,
				NameBlindIndex:       payload.NameBlindIndex,
				EncryptedSecretValue: payload.Secret,
			})
		}
		batch = append(batch, vaultDomain.AccountSecrets{
			ServiceAccountID: entry.ServiceAccountID,
			ECDHPublicKey:    entry.ECDHPublicKey,
			Secrets:          secrets,
		})
	}
	return batch
}

// ConnectServiceAccountRequest contains the target vault and environment for
// connecting a service account.
type ConnectServiceAccountRequest struct {
	VaultID       uint32 `json:"vault_id"`
	EnvironmentID uint32 `json:"environment_id"`
}

// Validate checks if the connect service account request is valid.
func (r *ConnectServiceAccountRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.VaultID, validation.Required),
		validation.Field(&r.EnvironmentID, validation.Required),
	)
}
