package domain

// Secret is a vault-scoped secret. All three encrypted fields are produced
// client-side: the name and value under the vault key, the blind index as a
// deterministic token allowing equality lookup without revealing the name.
type Secret struct {
	// EncryptedName is the secret's name, encrypted.
	EncryptedName []byte
	// NameBlindIndex is the deterministic lookup token for the name. The
	// server treats it as an opaque key, not a uniqueness constraint it owns.
	NameBlindIndex []byte
	// EncryptedSecretValue is the secret's value, encrypted.
	EncryptedSecretValue []byte
	// EnvironmentID is the environment the secret belongs to.
	EnvironmentID uint32
}

// ServiceAccountSecret is a secret held directly by a service account rather
// than through a vault. Its access path bypasses vault-level row security and
// is gated solely by presenting the matching service-account public key, which
// is why the flow that reads these is the "dangerous" one. It exists so a
// freshly created account can hold secrets before being connected to a vault.
type ServiceAccountSecret struct {
	// ServiceAccountID is the owning service account.
	ServiceAccountID uint32
	// EncryptedName is the secret's name, encrypted.
	EncryptedName []byte
	// NameBlindIndex is the deterministic lookup token for the name.
	NameBlindIndex []byte
	// EncryptedSecretValue is the secret's value, encrypted.
	EncryptedSecretValue []byte
	// ECDHPublicKey is the key the value was encrypted to.
	ECDHPublicKey []byte
}

// ServiceAccountSecrets is the result of a service-account fetch.
type ServiceAccountSecrets struct {
	// ServiceAccountID is the account owning the presented public key.
	ServiceAccountID uint32
	// Secrets are the account's directly held secrets.
	Secrets []*ServiceAccountSecret
}

// SecretPayload is one client-encrypted secret to be written.
type SecretPayload struct {
	EncryptedName        []byte
	NameBlindIndex       []byte
	EncryptedSecretValue []byte
}

// AccountSecrets is one entry of a create-secrets batch: the target service
// account, the public key the payloads were encrypted under, and the payloads.
type AccountSecrets struct {
	ServiceAccountID uint32
	ECDHPublicKey    []byte
	Secrets          []SecretPayload
}
