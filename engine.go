package authgate

import (
	"context"
	"errors"

	internalaudit "github.com/authgate/authgate/internal/audit"
	"github.com/authgate/authgate/jwt"
	"github.com/authgate/authgate/password"
)

// Engine is the authentication orchestrator. It verifies credentials, issues
// and rotates token pairs, and enforces the single-active-session model on
// top of a [CredentialStore]. Engines are immutable after [Builder.Build]
// and safe for concurrent use.
type Engine struct {
	store   CredentialStore
	hasher  *password.Argon2
	tokens  *jwt.Manager
	audit   *internalaudit.Dispatcher
	metrics *Metrics
}

// Close drains and stops the async audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were dropped because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.SnapshotNow()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() bool {
	return e != nil && e.store != nil && e.hasher != nil && e.tokens != nil
}

// issueSessionTokens signs a fresh token pair for the user and stores the
// argon2 hash of the refresh token, unconditionally replacing any previous
// session (last login wins).
func (e *Engine) issueSessionTokens(ctx context.Context, user UserRecord) (TokenPair, error) {
	access, err := e.tokens.IssueAccess(user.UserID, user.Email)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := e.tokens.IssueRefresh(user.UserID, user.Email)
	if err != nil {
		return TokenPair{}, err
	}

	refreshHash, err := e.hasher.Hash(refresh)
	if err != nil {
		return TokenPair{}, err
	}

	if err := e.store.ReplaceRefreshHash(ctx, user.UserID, refreshHash); err != nil {
		// The record vanished between lookup and write; surface it the
		// same way as a failed credential check would have.
		if errors.Is(err, ErrUserNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
