// Package database provides database connection management and the
// identity-bound transactional session used by all repositories.
package database

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"strconv"

	apperrors "github.com/allisson/keyvault/internal/errors"
)

// Row-security context statements. They must be the first statements executed
// after the transaction begins; every query that follows is filtered by the
// database's row-security policies against the value set here. The third
// argument scopes the setting to the current transaction.
const (
	setUserContextQuery = `SELECT set_config('row_level_security.user_id', $1, true)`
	setKeyContextQuery  = `SELECT set_config('row_level_security.ecdh_public_key', $1, true)`
)

// Session is an open transaction whose row visibility has been bound to a
// caller identity. Repositories accept only a *Session, never a raw *sql.DB or
// *sql.Tx, so a query against an unbound transaction does not compile.
type Session struct {
	tx *sql.Tx
}

// ExecContext executes a statement within the bound transaction.
func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.tx.ExecContext(ctx, query, args...)
}

// QueryContext executes a query within the bound transaction.
func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.tx.QueryContext(ctx, query, args...)
}

// QueryRowContext executes a single-row query within the bound transaction.
func (s *Session) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return s.tx.QueryRowContext(ctx, query, args...)
}

// SessionManager opens identity-bound sessions. Each call acquires a pooled
// connection, begins a transaction, binds the row-security context, runs fn,
// and commits on nil error or rolls back otherwise. Nothing fn writes is
// visible outside the session until the commit succeeds.
type SessionManager interface {
	// WithUserSession binds row visibility to a human user id.
	WithUserSession(ctx context.Context, userID uint32, fn func(ctx context.Context, sess *Session) error) error

	// WithKeySession binds row visibility to the service account owning the
	// presented ECDH public key. The key itself is the credential; no prior
	// lookup is performed.
	WithKeySession(ctx context.Context, publicKey []byte, fn func(ctx context.Context, sess *Session) error) error
}

// sqlSessionManager implements SessionManager over a *sql.DB pool.
type sqlSessionManager struct {
	db *sql.DB
}

// NewSessionManager creates a SessionManager for the given database pool.
func NewSessionManager(db *sql.DB) SessionManager {
	return &sqlSessionManager{db: db}
}

// WithUserSession implements SessionManager.
func (m *sqlSessionManager) WithUserSession(
	ctx context.Context,
	userID uint32,
	fn func(ctx context.Context, sess *Session) error,
) error {
	return m.withSession(ctx, setUserContextQuery, strconv.FormatUint(uint64(userID), 10), fn)
}

// WithKeySession implements SessionManager.
func (m *sqlSessionManager) WithKeySession(
	ctx context.Context,
	publicKey []byte,
	fn func(ctx context.Context, sess *Session) error,
) error {
	if len(publicKey) == 0 {
		return apperrors.Wrap(apperrors.ErrPermissionDenied, "empty public key")
	}
	return m.withSession(ctx, setKeyContextQuery, base64.StdEncoding.EncodeToString(publicKey), fn)
}

// withSession runs the begin/bind/work/commit cycle shared by both entry points.
// A failed bind aborts the transaction: queries with an unknown visibility
// scope must never run.
func (m *sqlSessionManager) withSession(
	ctx context.Context,
	bindQuery, bindValue string,
	fn func(ctx context.Context, sess *Session) error,
) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "failed to begin transaction: "+err.Error())
	}

	if _, err := tx.ExecContext(ctx, bindQuery, bindValue); err != nil {
		if rbErr := rollback(tx); rbErr != nil {
			return rbErr
		}
		return apperrors.Wrap(apperrors.ErrInternal, "failed to bind security context: "+err.Error())
	}

	if err := fn(ctx, &Session{tx: tx}); err != nil {
		if rbErr := rollback(tx); rbErr != nil {
			return rbErr
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "failed to commit transaction: "+err.Error())
	}

	return nil
}

// rollback discards the transaction. ErrTxDone is tolerated: the driver already
// rolled back when the request context was cancelled mid-transaction.
func rollback(tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.Wrap(apperrors.ErrInternal, "failed to rollback transaction: "+err.Error())
	}
	return nil
}
