// Package mocks provides mock implementations for testing code that opens
// identity-bound database sessions.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/keyvault/internal/database"
)

// MockSessionManager is a mock implementation of database.SessionManager for testing.
//
// When the expectation's return value is nil, the callback is executed with an
// empty session and its error becomes the method's result, mirroring the real
// manager's commit-on-nil behavior. A non-nil return value is returned without
// running the callback, standing in for a failed begin or bind.
type MockSessionManager struct {
	mock.Mock
}

// WithUserSession mocks the WithUserSession method of SessionManager.
func (m *MockSessionManager) WithUserSession(
	ctx context.Context,
	userID uint32,
	fn func(ctx context.Context, sess *database.Session) error,
) error {
	args := m.Called(ctx, userID, fn)
	if args.Get(0) == nil {
		return fn(ctx, &database.Session{})
	}
	return args.Error(0)
}

// WithKeySession mocks the WithKeySession method of SessionManager.
func (m *MockSessionManager) WithKeySession(
	ctx context.Context,
	publicKey []byte,
	fn func(ctx context.Context, sess *database.Session) error,
) error {
	args := m.Called(ctx, publicKey, fn)
	if args.Get(0) == nil {
		return fn(ctx, &database.Session{})
	}
	return args.Error(0)
}

var _ database.SessionManager = (*MockSessionManager)(nil)
