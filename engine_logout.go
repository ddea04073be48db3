package authgate

import (
	"context"
	"errors"
)

// LogOut clears the user's stored refresh hash, ending the active session.
// Logout is idempotent: logging out without a session, or for an unknown
// user, succeeds without error.
func (e *Engine) LogOut(ctx context.Context, userID string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	if err := e.store.ClearRefreshHash(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		e.emitAudit(ctx, auditEventLogoutSession, false, userID, "", err, nil)
		return err
	}

	e.metricInc(MetricLogout)
	e.metricInc(MetricSessionInvalidated)
	e.emitAudit(ctx, auditEventLogoutSession, true, userID, "", nil, nil)

	return nil
}

// LogOutByAccessToken verifies the access token and logs out its subject.
func (e *Engine) LogOutByAccessToken(ctx context.Context, accessToken string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	claims, err := e.tokens.ParseAccess(accessToken)
	if err != nil {
		return ErrTokenInvalid
	}

	return e.LogOut(ctx, claims.UID)
}
