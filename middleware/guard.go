package middleware

import (
	"context"
	"net/http"

	"github.com/authgate/authgate"
)

type authResultContextKey struct{}

// AuthResultFromContext returns the identity injected by [Guard].
func AuthResultFromContext(ctx context.Context) (*authgate.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*authgate.AuthResult)
	return res, ok
}

// Guard rejects requests without a valid bearer access token and injects the
// authenticated identity into the request context.
func Guard(engine *authgate.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := authgate.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := engine.ValidateAccess(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
