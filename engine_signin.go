package authgate

import (
	"context"
	"errors"
	"strings"
)

// SignIn verifies the email/password pair and establishes a new session,
// returning a fresh token pair. An unknown email and a wrong password are
// both reported as [ErrInvalidCredentials]. Signing in replaces any
// previously stored refresh hash, so older refresh tokens stop rotating.
func (e *Engine) SignIn(ctx context.Context, email, pass string) (TokenPair, error) {
	if !e.ready() {
		return TokenPair{}, ErrEngineNotReady
	}

	email = strings.TrimSpace(email)

	user, err := e.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricSignInFailure)
			e.emitAudit(ctx, auditEventSignInFailure, false, "", email, ErrInvalidCredentials, nil)
			return TokenPair{}, ErrInvalidCredentials
		}
		e.emitAudit(ctx, auditEventSignInFailure, false, "", email, err, nil)
		return TokenPair{}, err
	}

	if !e.hasher.Verify(pass, user.PasswordHash) {
		e.metricInc(MetricSignInFailure)
		e.emitAudit(ctx, auditEventSignInFailure, false, user.UserID, email, ErrInvalidCredentials, nil)
		return TokenPair{}, ErrInvalidCredentials
	}

	pair, err := e.issueSessionTokens(ctx, user)
	if err != nil {
		e.metricInc(MetricSignInFailure)
		e.emitAudit(ctx, auditEventSignInFailure, false, user.UserID, email, err, nil)
		return TokenPair{}, err
	}

	e.metricInc(MetricSignInSuccess)
	e.metricInc(MetricSessionCreated)
	e.emitAudit(ctx, auditEventSignInSuccess, true, user.UserID, email, nil, nil)

	return pair, nil
}
