// Package http provides HTTP handlers for vault access operations. Handlers
// translate between the JSON surface and the use case layer; everything
// secret-shaped passes through as opaque bytes.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/keyvault/internal/errors"
	"github.com/allisson/keyvault/internal/httputil"
	"github.com/allisson/keyvault/internal/identity"
	"github.com/allisson/keyvault/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/keyvault/internal/vault/usecase"
	customValidation "github.com/allisson/keyvault/internal/validation"
)

// VaultHandler handles HTTP requests for vault access operations.
type VaultHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	logger       *slog.Logger
}

// NewVaultHandler creates a new vault handler with required dependencies.
func NewVaultHandler(useCase vaultUseCase.VaultUseCase, logger *slog.Logger) *VaultHandler {
	return &VaultHandler{
		vaultUseCase: useCase,
		logger:       logger,
	}
}

// userID extracts the resolved human user from the request context.
func (h *VaultHandler) userID(c *gin.Context) (uint32, bool) {
	principal, ok := identity.GetPrincipal(c.Request.Context())
	if !ok {
		return 0, false
	}
	return principal.UserID()
}

// FetchServiceAccountSecretsHandler returns the secrets held directly by the
// service account owning the presented key.
// POST /v1/service-accounts/secrets - Mode B (self-presented key) route.
// Returns 200 OK with the account's secrets.
func (h *VaultHandler) FetchServiceAccountSecretsHandler(c *gin.Context) {
	var req dto.FetchServiceAccountSecretsRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// The payload key is the credential, so a request without one is a
	// permission failure, not a malformed request. A gateway-asserted user
	// id on this route still wins over the payload key, and a human user
	// has no business on the key-credential path.
	principal, err := identity.Resolve(c.GetHeader(identity.UserIDHeader), req.ECDHPublicKey)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	publicKey, ok := principal.PublicKey()
	if !ok {
		httputil.HandleErrorGin(
			c,
			apperrors.Wrap(apperrors.ErrPermissionDenied, "service account credential required"),
			h.logger,
		)
		return
	}

	result, err := h.vaultUseCase.FetchServiceAccountSecrets(c.Request.Context(), publicKey)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapServiceAccountSecrets(result))
}

// FetchVaultContentsHandler returns a vault's secrets, connected service
// accounts, and the caller's wrapped vault key.
// GET /v1/vaults/:id - Requires a gateway-asserted user.
// Returns 200 OK with the vault contents.
func (h *VaultHandler) FetchVaultContentsHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrPermissionDenied, h.logger)
		return
	}

	vaultID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			customValidation.WrapValidationError(fmt.Errorf("invalid vault id: %w", err)),
			h.logger,
		)
		return
	}

	contents, err := h.vaultUseCase.FetchVaultContents(c.Request.Context(), userID, uint32(vaultID))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVaultContents(contents))
}

// CreateSecretsHandler writes a batch of client-encrypted secrets to one or
// more service accounts. The batch commits or fails as a whole.
// POST /v1/secrets - Requires a gateway-asserted user.
// Returns 201 Created.
func (h *VaultHandler) CreateSecretsHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrPermissionDenied, h.logger)
		return
	}

	var req dto.CreateSecretsRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.vaultUseCase.CreateSecrets(c.Request.Context(), userID, req.ToDomain()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusCreated)
}

// ListServiceAccountsHandler returns an overview of the service accounts
// visible to the caller.
// GET /v1/service-accounts - Requires a gateway-asserted user.
// Returns 200 OK with the listing.
func (h *VaultHandler) ListServiceAccountsHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrPermissionDenied, h.logger)
		return
	}

	overviews, err := h.vaultUseCase.ListServiceAccounts(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapServiceAccountOverviews(overviews))
}

// ConnectServiceAccountHandler links an unconnected service account to a vault
// and one of its environments.
// POST /v1/service-accounts/:id/connect - Requires a gateway-asserted user.
// Returns 204 No Content on success.
func (h *VaultHandler) ConnectServiceAccountHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrPermissionDenied, h.logger)
		return
	}

	serviceAccountID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			customValidation.WrapValidationError(fmt.Errorf("invalid service account id: %w", err)),
			h.logger,
		)
		return
	}

	var req dto.ConnectServiceAccountRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	err = h.vaultUseCase.ConnectServiceAccount(
		c.Request.Context(),
		userID,
		uint32(serviceAccountID),
		req.VaultID,
		req.EnvironmentID,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
