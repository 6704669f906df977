package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/allisson/keyvault/internal/httputil"
	"github.com/allisson/keyvault/internal/identity"
)

// RequireUserIdentity resolves the gateway-asserted user identity and stores
// it in the request context. Requests without a user assertion are rejected;
// requests with an unparseable one fail as internal errors because the
// upstream gateway is trusted to set the header correctly.
func RequireUserIdentity(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := identity.Resolve(c.GetHeader(identity.UserIDHeader), nil)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := identity.WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
