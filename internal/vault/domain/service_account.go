package domain

import "time"

// ServiceAccount is a non-human identity with its own ECDH keypair. The public
// key is stored in clear for lookups; the private key is stored wrapped for
// later distribution to the machine that will use it.
//
// A service account starts unconnected and may later be connected to exactly
// one (vault, environment) pair. Until then it can still hold secrets directly
// (see ServiceAccountSecret).
type ServiceAccount struct {
	// ID is the service account identifier.
	ID uint32
	// Name is the plaintext administrative label of the account.
	Name string
	// VaultID is the connected vault, nil while unconnected.
	VaultID *uint32
	// EnvironmentID is the connected environment, nil while unconnected.
	// VaultID and EnvironmentID are either both present or both absent.
	EnvironmentID *uint32
	// ECDHPublicKey is the account's public key.
	ECDHPublicKey []byte
	// EncryptedPrivateKey is the account's private key, wrapped client-side.
	EncryptedPrivateKey []byte
	// CreatedAt is the UTC timestamp the account was created.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp the account was last modified.
	UpdatedAt time.Time
}

// Connected reports whether the account has been connected to a vault.
func (s *ServiceAccount) Connected() bool {
	return s.VaultID != nil && s.EnvironmentID != nil
}

// ConnectedServiceAccount is the projection of a connected service account
// returned by a vault fetch.
type ConnectedServiceAccount struct {
	// ServiceAccountID is the account identifier.
	ServiceAccountID uint32
	// EnvironmentID is the environment the account is connected to.
	EnvironmentID uint32
	// ECDHPublicKey is the account's public key.
	ECDHPublicKey []byte
}

// ServiceAccountOverview is the read-only listing row backing the service
// accounts page: the account plus the names of its vault and environment when
// connected.
type ServiceAccountOverview struct {
	// ID is the service account identifier.
	ID uint32
	// Name is the account's plaintext name.
	Name string
	// VaultName is the connected vault's name, nil while unconnected.
	VaultName *string
	// EnvironmentName is the connected environment's name, nil while unconnected.
	EnvironmentName *string
	// CreatedAt is the UTC timestamp the account was created.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp the account was last modified.
	UpdatedAt time.Time
}

// Environment is a named deployment target within a vault.
type Environment struct {
	// ID is the environment identifier.
	ID uint32
	// VaultID is the owning vault.
	VaultID uint32
	// Name is the environment's plaintext name.
	Name string
}
