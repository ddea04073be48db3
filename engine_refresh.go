package authgate

import (
	"context"
	"errors"

	"github.com/authgate/authgate/jwt"
)

// Refresh rotates the session of the given user: the presented refresh token
// must verify against the stored hash, and the stored hash is swapped to the
// new token's hash with a conditional write. Exactly one of any set of
// concurrent refreshes with the same token wins; the rest get
// [ErrRefreshDenied].
//
// A verified token whose hash no longer matches the stored one is a replay
// of an already-rotated token and yields [ErrRefreshReuse]. A refresh
// without an active session (fresh account, after logout, or for an unknown
// user) yields [ErrRefreshDenied].
func (e *Engine) Refresh(ctx context.Context, userID, refreshToken string) (TokenPair, error) {
	if !e.ready() {
		return TokenPair{}, ErrEngineNotReady
	}

	claims, err := e.tokens.ParseRefresh(refreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, userID, "", ErrTokenInvalid, nil)
		return TokenPair{}, ErrTokenInvalid
	}

	if userID != "" && claims.UID != userID {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshDenied, false, userID, "", ErrRefreshDenied, func() map[string]string {
			return map[string]string{"reason": "subject_mismatch"}
		})
		return TokenPair{}, ErrRefreshDenied
	}

	return e.refreshWithClaims(ctx, claims, refreshToken)
}

// RefreshByToken rotates the session identified by the refresh token itself,
// taking the user from the verified claims.
func (e *Engine) RefreshByToken(ctx context.Context, refreshToken string) (TokenPair, error) {
	return e.Refresh(ctx, "", refreshToken)
}

func (e *Engine) refreshWithClaims(ctx context.Context, claims *jwt.Claims, refreshToken string) (TokenPair, error) {
	user, err := e.store.GetUserByID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricRefreshFailure)
			e.emitAudit(ctx, auditEventRefreshDenied, false, claims.UID, "", ErrRefreshDenied, func() map[string]string {
				return map[string]string{"reason": "unknown_user"}
			})
			return TokenPair{}, ErrRefreshDenied
		}
		e.emitAudit(ctx, auditEventRefreshDenied, false, claims.UID, "", err, nil)
		return TokenPair{}, err
	}

	if user.SessionState() == NoSession {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshDenied, false, user.UserID, user.Email, ErrRefreshDenied, func() map[string]string {
			return map[string]string{"reason": "no_session"}
		})
		return TokenPair{}, ErrRefreshDenied
	}

	if !e.hasher.Verify(refreshToken, user.RefreshTokenHash) {
		// Valid signature but not the current session token: this token
		// was already rotated out.
		e.metricInc(MetricRefreshReuseDetected)
		e.emitAudit(ctx, auditEventRefreshReuseDetected, false, user.UserID, user.Email, ErrRefreshReuse, nil)
		return TokenPair{}, ErrRefreshReuse
	}

	access, err := e.tokens.IssueAccess(user.UserID, user.Email)
	if err != nil {
		return TokenPair{}, err
	}
	nextRefresh, err := e.tokens.IssueRefresh(user.UserID, user.Email)
	if err != nil {
		return TokenPair{}, err
	}
	nextHash, err := e.hasher.Hash(nextRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	swapped, err := e.store.SwapRefreshHash(ctx, user.UserID, user.RefreshTokenHash, nextHash)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricRefreshFailure)
			e.emitAudit(ctx, auditEventRefreshDenied, false, user.UserID, user.Email, ErrRefreshDenied, nil)
			return TokenPair{}, ErrRefreshDenied
		}
		e.emitAudit(ctx, auditEventRefreshDenied, false, user.UserID, user.Email, err, nil)
		return TokenPair{}, err
	}
	if !swapped {
		// Someone else rotated or cleared the session between our read
		// and the conditional write. This caller loses.
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshDenied, false, user.UserID, user.Email, ErrRefreshDenied, func() map[string]string {
			return map[string]string{"reason": "rotation_lost"}
		})
		return TokenPair{}, ErrRefreshDenied
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, user.UserID, user.Email, nil, nil)

	return TokenPair{AccessToken: access, RefreshToken: nextRefresh}, nil
}
