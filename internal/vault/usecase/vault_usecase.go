package usecase

import (
	"context"
	"errors"

	"github.com/allisson/keyvault/internal/database"
	apperrors "github.com/allisson/keyvault/internal/errors"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// vaultUseCase implements the VaultUseCase interface.
type vaultUseCase struct {
	sessionManager     database.SessionManager
	vaultRepo          VaultRepository
	serviceAccountRepo ServiceAccountRepository
	secretRepo         SecretRepository
}

// FetchServiceAccountSecrets resolves the account owning the presented key and
// returns its directly held secrets. The key both binds the session's row
// visibility and selects the account, so a wrong key and a missing account are
// the same not-found outcome.
func (v *vaultUseCase) FetchServiceAccountSecrets(
	ctx context.Context,
	publicKey []byte,
) (*vaultDomain.ServiceAccountSecrets, error) {
	var result *vaultDomain.ServiceAccountSecrets

	err := v.sessionManager.WithKeySession(ctx, publicKey, func(ctx context.Context, sess *database.Session) error {
		account, err := v.serviceAccountRepo.GetByPublicKey(ctx, sess, publicKey)
		if err != nil {
			return err
		}

		secrets, err := v.secretRepo.GetAllByServiceAccount(ctx, sess, account.ID)
		if err != nil {
			return err
		}

		result = &vaultDomain.ServiceAccountSecrets{
			ServiceAccountID: account.ID,
			Secrets:          secrets,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// FetchVaultContents assembles a vault's secrets, its connected service
// accounts, and the caller's own key material for unwrapping, all read within
// one transaction.
func (v *vaultUseCase) FetchVaultContents(
	ctx context.Context,
	userID, vaultID uint32,
) (*vaultDomain.VaultContents, error) {
	var result *vaultDomain.VaultContents

	err := v.sessionManager.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
		secrets, err := v.secretRepo.GetAllByVault(ctx, sess, vaultID)
		if err != nil {
			return err
		}

		vault, err := v.vaultRepo.Get(ctx, sess, vaultID, userID)
		if err != nil {
			return err
		}

		// The vault fetch above already proved a grant exists for this pair,
		// so an empty result here means the data changed under us mid-read.
		grant, err := v.vaultRepo.GetUserVaultGrant(ctx, sess, userID, vaultID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return vaultDomain.ErrGrantInconsistent
			}
			return err
		}

		accounts, err := v.serviceAccountRepo.GetAllByVault(ctx, sess, vaultID)
		if err != nil {
			return err
		}

		result = &vaultDomain.VaultContents{
			Name:              vault.Name,
			EncryptedVaultKey: grant.EncryptedVaultKey,
			UserECDHPublicKey: grant.ECDHPublicKey,
			Secrets:           secrets,
			ServiceAccounts:   connectedAccounts(accounts),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// connectedAccounts projects the accounts that have a target environment.
// Rows connected to a vault but missing an environment cannot receive secret
// deliveries and are left out.
func connectedAccounts(accounts []*vaultDomain.ServiceAccount) []*vaultDomain.ConnectedServiceAccount {
	var connected []*vaultDomain.ConnectedServiceAccount
	for _, account := range accounts {
		if !account.Connected() {
			continue
		}
		connected = append(connected, &vaultDomain.ConnectedServiceAccount{
			ServiceAccountID: account.ID,
			EnvironmentID:    *account.EnvironmentID,
			ECDHPublicKey:    account.ECDHPublicKey,
		})
	}
	return connected
}

// CreateSecrets writes every payload of every batch entry within a single
// transaction. Each target account is checked before its payloads are written:
// a connected account requires the caller to hold a grant on its vault, while
// an unconnected account is open to any authenticated caller so it can be
// stocked before being handed over.
func (v *vaultUseCase) CreateSecrets(
	ctx context.Context,
	userID uint32,
	batch []vaultDomain.AccountSecrets,
) error {
	return v.sessionManager.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
		for _, entry := range batch {
			account, err := v.serviceAccountRepo.Get(ctx, sess, entry.ServiceAccountID)
			if err != nil {
				return err
			}

			if account.Connected() {
				_, err := v.vaultRepo.GetUserVaultGrant(ctx, sess, userID, *account.VaultID)
				if err != nil {
					if errors.Is(err, apperrors.ErrNotFound) {
						return apperrors.Wrap(
							apperrors.ErrPermissionDenied,
							"no grant on the service account's vault",
						)
					}
					return err
				}
			}

			for _, payload := range entry.Secrets {
				secret := &vaultDomain.ServiceAccountSecret{
					ServiceAccountID:     entry.ServiceAccountID,
					EncryptedName:        payload.EncryptedName,
					NameBlindIndex:       payload.NameBlindIndex,
					EncryptedSecretValue: payload.EncryptedSecretValue,
					ECDHPublicKey:        entry.ECDHPublicKey,
				}
				if err := v.secretRepo.CreateServiceAccountSecret(ctx, sess, secret); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ListServiceAccounts returns the overview rows visible to the user.
func (v *vaultUseCase) ListServiceAccounts(
	ctx context.Context,
	userID uint32,
) ([]*vaultDomain.ServiceAccountOverview, error) {
	var result []*vaultDomain.ServiceAccountOverview

	err := v.sessionManager.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
		overviews, err := v.serviceAccountRepo.ListOverviews(ctx, sess)
		if err != nil {
			return err
		}
		result = overviews
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ConnectServiceAccount links an unconnected account to a (vault, environment)
// pair the caller holds a grant on. A vault the caller cannot see reads as
// absent, the same as in every other lookup.
func (v *vaultUseCase) ConnectServiceAccount(
	ctx context.Context,
	userID, serviceAccountID, vaultID, environmentID uint32,
) error {
	return v.sessionManager.WithUserSession(ctx, userID, func(ctx context.Context, sess *database.Session) error {
		account, err := v.serviceAccountRepo.Get(ctx, sess, serviceAccountID)
		if err != nil {
			return err
		}
		if account.Connected() {
			return vaultDomain.ErrAlreadyConnected
		}

		if _, err := v.vaultRepo.GetUserVaultGrant(ctx, sess, userID, vaultID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return vaultDomain.ErrVaultNotFound
			}
			return err
		}

		if _, err := v.vaultRepo.GetEnvironment(ctx, sess, environmentID, vaultID); err != nil {
			return err
		}

		return v.serviceAccountRepo.Connect(ctx, sess, serviceAccountID, vaultID, environmentID)
	})
}

// NewVaultUseCase creates a new VaultUseCase.
func NewVaultUseCase(
	sessionManager database.SessionManager,
	vaultRepo VaultRepository,
	serviceAccountRepo ServiceAccountRepository,
	secretRepo SecretRepository,
) VaultUseCase {
	return &vaultUseCase{
		sessionManager:     sessionManager,
		vaultRepo:          vaultRepo,
		serviceAccountRepo: serviceAccountRepo,
		secretRepo:         secretRepo,
	}
}
