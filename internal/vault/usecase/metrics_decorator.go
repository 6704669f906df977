package usecase

import (
	"context"
	"time"

	"github.com/allisson/keyvault/internal/metrics"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// FetchServiceAccountSecrets records metrics for service-account secret fetches.
func (v *vaultUseCaseWithMetrics) FetchServiceAccountSecrets(
	ctx context.Context,
	publicKey []byte,
) (*vaultDomain.ServiceAccountSecrets, error) {
	start := time.Now()
	result, err := v.next.FetchServiceAccountSecrets(ctx, publicKey)

	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", "service_account_fetch", status)
	v.metrics.RecordDuration(ctx, "vault", "service_account_fetch", time.Since(start), status)

	return result, err
}

// FetchVaultContents records metrics for vault content fetches.
func (v *vaultUseCaseWithMetrics) FetchVaultContents(
	ctx context.Context,
	userID, vaultID uint32,
) (*vaultDomain.VaultContents, error) {
	start := time.Now()
	result, err := v.next.FetchVaultContents(ctx, userID, vaultID)

	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", "vault_fetch", status)
	v.metrics.RecordDuration(ctx, "vault", "vault_fetch", time.Since(start), status)

	return result, err
}

// CreateSecrets records metrics for secret batch creation.
func (v *vaultUseCaseWithMetrics) CreateSecrets(
	ctx context.Context,
	userID uint32,
	batch []vaultDomain.AccountSecrets,
) error {
	start := time.Now()
	err := v.next.CreateSecrets(ctx, userID, batch)

	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", "secrets_create", status)
	v.metrics.RecordDuration(ctx, "vault", "secrets_create", time.Since(start), status)

	return err
}

// ListServiceAccounts records metrics for service account listings.
func (v *vaultUseCaseWithMetrics) ListServiceAccounts(
	ctx context.Context,
	userID uint32,
) ([]*vaultDomain.ServiceAccountOverview, error) {
	start := time.Now()
	result, err := v.next.ListServiceAccounts(ctx, userID)

	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", "service_account_list", status)
	v.metrics.RecordDuration(ctx, "vault", "service_account_list", time.Since(start), status)

	return result, err
}

// ConnectServiceAccount records metrics for service account connections.
func (v *vaultUseCaseWithMetrics) ConnectServiceAccount(
	ctx context.Context,
	userID, serviceAccountID, vaultID, environmentID uint32,
) error {
	start := time.Now()
	err := v.next.ConnectServiceAccount(ctx, userID, serviceAccountID, vaultID, environmentID)

	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", "service_account_connect", status)
	v.metrics.RecordDuration(ctx, "vault", "service_account_connect", time.Since(start), status)

	return err
}
