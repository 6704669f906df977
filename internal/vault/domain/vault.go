// Package domain defines the core domain models for the vault engine.
//
// Every secret-bearing field is opaque ciphertext produced client-side. The
// server stores and moves these bytes without inspecting or transforming them;
// only structure and ownership are enforced here.
package domain

// Vault is a named container of secrets belonging to an organisation. Secrets
// and service accounts reference a vault; they are never owned by it directly.
type Vault struct {
	// ID is the vault identifier.
	ID uint32
	// Name is the plaintext administrative label of the vault.
	Name string
}

// UserVaultGrant records that a user may access a vault. Exactly one grant
// exists per (user, vault) pair; it is created when access is given and
// deleted when revoked.
type UserVaultGrant struct {
	// UserID is the user holding the grant.
	UserID uint32
	// VaultID is the vault the grant applies to.
	VaultID uint32
	// EncryptedVaultKey is the vault's symmetric key wrapped to the user's
	// public key, client-side.
	EncryptedVaultKey []byte
	// ECDHPublicKey is the user's own public key used for that wrapping.
	ECDHPublicKey []byte
}

// VaultContents is the assembled result of a vault fetch: the vault's label,
// the requesting user's key material, and the vault's secrets and connected
// service accounts.
type VaultContents struct {
	// Name is the vault's plaintext name.
	Name string
	// EncryptedVaultKey is the caller's wrapped copy of the vault key.
	EncryptedVaultKey []byte
	// UserECDHPublicKey is the caller's public key, returned so the client can
	// unwrap locally.
	UserECDHPublicKey []byte
	// Secrets are the vault's secrets, ciphertext passed through unchanged.
	Secrets []*Secret
	// ServiceAccounts are the service accounts connected to the vault.
	ServiceAccounts []*ConnectedServiceAccount
}
