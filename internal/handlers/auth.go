package handlers

import (
	"net/http"

	"blogapi/internal/apperr"
	"blogapi/internal/identity"
	"blogapi/internal/middleware"
)

// Auth groups the registration, login, and 2FA handlers.
type Auth struct {
	identity *identity.Service
}

// NewAuth creates the auth handler group.
func NewAuth(svc *identity.Service) *Auth {
	return &Auth{identity: svc}
}

// Register handles POST /auth/register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.identity.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login and returns a bearer token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, err := h.identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Logout handles POST /auth/logout, revoking the presented token.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		writeError(w, apperr.New(apperr.Unauthenticated, "no token presented"))
		return
	}
	if err := h.identity.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Setup2FA handles POST /auth/2fa/setup. Returns the TOTP secret, the
// otpauth URL, and a QR code PNG as base64 for enrollment.
func (h *Auth) Setup2FA(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromCtx(r.Context())
	setup, err := h.identity.Setup2FA(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setup)
}

// Verify2FA handles POST /auth/2fa/verify, checking a TOTP code and
// marking the current token verified.
func (h *Auth) Verify2FA(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	if err := h.identity.Verify2FA(r.Context(), middleware.BearerToken(r), caller, req.Code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}
