package domain

import (
	"github.com/allisson/keyvault/internal/errors"
)

// Vault-specific error definitions.
var (
	// ErrVaultNotFound covers both "vault doesn't exist" and "caller has no
	// grant on it". The conflation is deliberate: a caller must not be able to
	// enumerate which vaults exist.
	ErrVaultNotFound = errors.Wrap(errors.ErrNotFound, "vault not found")

	// ErrServiceAccountNotFound indicates the referenced service account does
	// not exist or is not visible to the caller.
	ErrServiceAccountNotFound = errors.Wrap(errors.ErrNotFound, "service account not found")

	// ErrEnvironmentNotFound indicates the referenced environment does not
	// exist in the target vault.
	ErrEnvironmentNotFound = errors.Wrap(errors.ErrNotFound, "environment not found")

	// ErrGrantInconsistent indicates a user-vault grant row was missing after
	// the vault fetch for the same pair succeeded in the same transaction.
	ErrGrantInconsistent = errors.Wrap(errors.ErrInternal, "user vault grant missing after vault fetch")

	// ErrAlreadyConnected indicates a connect attempt on a service account
	// that is already linked to a vault.
	ErrAlreadyConnected = errors.Wrap(errors.ErrInvalidInput, "service account already connected to a vault")
)
