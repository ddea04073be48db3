package authgate

import (
	"context"
	"errors"
	"strings"
)

// SignUp registers a new user and signs them in, returning a fresh token
// pair. A taken email yields [ErrEmailTaken]; uniqueness is decided
// atomically by the store, so concurrent sign-ups on the same email resolve
// to exactly one winner.
func (e *Engine) SignUp(ctx context.Context, email, pass string) (TokenPair, error) {
	if !e.ready() {
		return TokenPair{}, ErrEngineNotReady
	}

	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") || pass == "" {
		e.metricInc(MetricSignUpFailure)
		e.emitAudit(ctx, auditEventSignUpFailure, false, "", email, ErrSignUpInvalid, nil)
		return TokenPair{}, ErrSignUpInvalid
	}

	passwordHash, err := e.hasher.Hash(pass)
	if err != nil {
		e.metricInc(MetricSignUpFailure)
		e.emitAudit(ctx, auditEventSignUpFailure, false, "", email, err, nil)
		return TokenPair{}, err
	}

	user, err := e.store.CreateUser(ctx, CreateUserInput{
		Email:        email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			e.metricInc(MetricSignUpDuplicate)
			e.emitAudit(ctx, auditEventSignUpDuplicate, false, "", email, ErrEmailTaken, nil)
			return TokenPair{}, ErrEmailTaken
		}
		e.metricInc(MetricSignUpFailure)
		e.emitAudit(ctx, auditEventSignUpFailure, false, "", email, err, nil)
		return TokenPair{}, err
	}

	pair, err := e.issueSessionTokens(ctx, user)
	if err != nil {
		e.metricInc(MetricSignUpFailure)
		e.emitAudit(ctx, auditEventSignUpFailure, false, user.UserID, email, err, nil)
		return TokenPair{}, err
	}

	e.metricInc(MetricSignUpSuccess)
	e.metricInc(MetricSessionCreated)
	e.emitAudit(ctx, auditEventSignUpSuccess, true, user.UserID, email, nil, nil)

	return pair, nil
}
