// Package identity resolves the caller identity of an inbound request into a
// typed principal consumed by every downstream step.
//
// Two authentication modes exist. Mode A is a proxy-asserted identity: the
// trusted gateway in front of the API sets the X-User-Id header after
// authenticating a human user. Mode B is a self-presented service-account key:
// the request payload carries an ECDH public key, and the key itself is the
// credential, verified later when the security context is bound against the
// database. Presence of the header, not its content, selects the mode.
package identity

import (
	"context"
	"strconv"

	apperrors "github.com/allisson/keyvault/internal/errors"
)

// UserIDHeader carries the authenticated numeric user id asserted by the
// trusted upstream gateway.
const UserIDHeader = "X-User-Id"

// Kind discriminates the principal variants.
type Kind int

// Principal variants.
const (
	KindHumanUser Kind = iota + 1
	KindServiceAccountKey
)

// Principal is the resolved identity of a caller for one request. It is
// constructed once per request and never persisted.
type Principal struct {
	kind      Kind
	userID    uint32
	publicKey []byte
}

// HumanUser constructs a Mode A principal from a gateway-asserted user id.
func HumanUser(userID uint32) Principal {
	return Principal{kind: KindHumanUser, userID: userID}
}

// ServiceAccountKey constructs a Mode B principal from a presented public key.
func ServiceAccountKey(publicKey []byte) Principal {
	return Principal{kind: KindServiceAccountKey, publicKey: publicKey}
}

// Kind returns the principal variant.
func (p Principal) Kind() Kind {
	return p.kind
}

// UserID returns the user id for a human principal.
func (p Principal) UserID() (uint32, bool) {
	return p.userID, p.kind == KindHumanUser
}

// PublicKey returns the presented key for a service-account principal.
func (p Principal) PublicKey() ([]byte, bool) {
	return p.publicKey, p.kind == KindServiceAccountKey
}

// Resolve produces exactly one principal from the request metadata and payload
// key, or fails.
//
// A present header wins: its value must parse as an unsigned integer, and a
// value that does not is an ErrInternal, not a caller error, because the
// gateway is trusted to set it correctly. With no header, a non-empty payload
// key yields a service-account principal. Neither yields ErrPermissionDenied.
func Resolve(userIDHeader string, publicKey []byte) (Principal, error) {
	if userIDHeader != "" {
		userID, err := strconv.ParseUint(userIDHeader, 10, 32)
		if err != nil {
			return Principal{}, apperrors.Wrap(apperrors.ErrInternal, "user id assertion not parseable as unsigned int")
		}
		return HumanUser(uint32(userID)), nil
	}

	if len(publicKey) > 0 {
		return ServiceAccountKey(publicKey), nil
	}

	return Principal{}, apperrors.Wrap(apperrors.ErrPermissionDenied, "no credential presented")
}

// principalKey is a context key type for storing resolved principals.
type principalKey struct{}

// WithPrincipal stores a resolved principal in the context.
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the resolved principal from the context.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(Principal)
	return principal, ok
}
