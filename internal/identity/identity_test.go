package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/keyvault/internal/errors"
)

func TestResolve(t *testing.T) {
	t.Run("header yields human user", func(t *testing.T) {
		principal, err := Resolve("42", nil)
		require.NoError(t, err)

		assert.Equal(t, KindHumanUser, principal.Kind())
		userID, ok := principal.UserID()
		assert.True(t, ok)
		assert.Equal(t, uint32(42), userID)

		_, ok = principal.PublicKey()
		assert.False(t, ok)
	})

	t.Run("header wins over payload key", func(t *testing.T) {
		principal, err := Resolve("7", []byte("key-material"))
		require.NoError(t, err)
		assert.Equal(t, KindHumanUser, principal.Kind())
	})

	t.Run("malformed header is an internal error", func(t *testing.T) {
		for _, value := range []string{"abc", "-1", "4294967296", "12.5"} {
			_, err := Resolve(value, nil)
			assert.ErrorIs(t, err, apperrors.ErrInternal, "value %q", value)
		}
	})

	t.Run("payload key yields service account principal", func(t *testing.T) {
		key := []byte{1, 2, 3, 4}
		principal, err := Resolve("", key)
		require.NoError(t, err)

		assert.Equal(t, KindServiceAccountKey, principal.Kind())
		got, ok := principal.PublicKey()
		assert.True(t, ok)
		assert.Equal(t, key, got)

		_, ok = principal.UserID()
		assert.False(t, ok)
	})

	t.Run("no credential is permission denied", func(t *testing.T) {
		_, err := Resolve("", nil)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

		_, err = Resolve("", []byte{})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestPrincipalContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		ctx := WithPrincipal(context.Background(), HumanUser(9))

		principal, ok := GetPrincipal(ctx)
		require.True(t, ok)
		userID, _ := principal.UserID()
		assert.Equal(t, uint32(9), userID)
	})

	t.Run("absent principal", func(t *testing.T) {
		_, ok := GetPrincipal(context.Background())
		assert.False(t, ok)
	})
}
