package authgate

import (
	"context"
	"strings"
)

// BearerToken extracts the token from an Authorization header value. It
// reports false for a missing header, a non-Bearer scheme, or an empty
// token.
func BearerToken(header string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(header, bearer) {
		return "", false
	}

	token := header[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

type clientIPContextKey struct{}
type userAgentContextKey struct{}

// WithClientIP attaches the caller's IP address to ctx. The Engine includes
// it in audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// WithUserAgent attaches the HTTP User-Agent string to ctx for audit
// metadata.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return context.WithValue(ctx, userAgentContextKey{}, userAgent)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}

func userAgentFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	userAgent, _ := ctx.Value(userAgentContextKey{}).(string)
	return userAgent
}
