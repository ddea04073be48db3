package authgate

import (
	"context"
	"time"
)

// ValidateAccess verifies an access token and returns the authenticated
// identity. It is the hot path: verification is stateless and never touches
// the credential store, so an access token stays valid until expiry even
// after logout.
func (e *Engine) ValidateAccess(ctx context.Context, accessToken string) (*AuthResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	var start time.Time
	if e.metrics.LatencyEnabled() {
		start = time.Now()
	}

	claims, err := e.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricValidateLatency, time.Since(start))
	}

	return &AuthResult{
		UserID: claims.UID,
		Email:  claims.Email,
	}, nil
}
