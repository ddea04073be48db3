// Package httpapi exposes the four-endpoint JSON surface over an
// authgate.Engine: sign-up, sign-in, sign-out, and refresh. It is thin glue:
// body decoding, request-context enrichment, and error→status mapping.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/authgate/authgate"
)

// Handler serves the authentication endpoints.
type Handler struct {
	engine *authgate.Engine
}

// New returns a Handler over the engine.
func New(engine *authgate.Engine) *Handler {
	return &Handler{engine: engine}
}

// Register mounts the endpoints on the mux:
//
//	POST /auth/signup   {"email","password"}        → 201 token pair
//	POST /auth/signin   {"email","password"}        → 200 token pair
//	POST /auth/logout   Authorization: Bearer <at>  → 204
//	POST /auth/refresh  {"refresh_token"}           → 200 token pair
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/signup", h.signUp)
	mux.HandleFunc("POST /auth/signin", h.signIn)
	mux.HandleFunc("POST /auth/logout", h.logOut)
	mux.HandleFunc("POST /auth/refresh", h.refresh)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	pair, err := h.engine.SignUp(requestContext(r), body.Email, body.Password)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, pair)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	pair, err := h.engine.SignIn(requestContext(r), body.Email, body.Password)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

func (h *Handler) logOut(w http.ResponseWriter, r *http.Request) {
	token, ok := authgate.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.engine.LogOutByAccessToken(requestContext(r), token); err != nil {
		writeEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "missing refresh token")
		return
	}

	pair, err := h.engine.RefreshByToken(requestContext(r), body.RefreshToken)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

func writeEngineError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, authgate.ErrSignUpInvalid):
		return http.StatusBadRequest
	case errors.Is(err, authgate.ErrInvalidCredentials),
		errors.Is(err, authgate.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, authgate.ErrRefreshDenied),
		errors.Is(err, authgate.ErrRefreshReuse):
		return http.StatusForbidden
	case errors.Is(err, authgate.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, authgate.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func requestContext(r *http.Request) context.Context {
	ctx := r.Context()

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ctx = authgate.WithClientIP(ctx, host)
	ctx = authgate.WithUserAgent(ctx, r.UserAgent())

	return ctx
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
