package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/fitcert/backend/pkg/auth"
)

// AuthConfig holds the environment-configured admin credentials.
type AuthConfig struct {
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	SecureCookies bool
}

// AuthHandler issues and revokes admin sessions.
type AuthHandler struct {
	cfg AuthConfig
}

// NewAuthHandler creates an AuthHandler with the given config.
func NewAuthHandler(cfg AuthConfig) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. Credentials come from the
// environment; the comparison is constant-time in both fields.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.cfg.AdminEmail == "" || h.cfg.AdminPassword == "" {
		writeJSONError(w, http.StatusServiceUnavailable, "login_disabled")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(h.cfg.AdminEmail))
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.AdminPassword))
	if emailOK&passOK != 1 {
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	token := auth.CreateSessionToken(auth.AdminUserID, auth.SessionSecretBytes(h.cfg.SessionSecret))
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
}

// Logout handles POST /api/auth/logout by expiring the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
}
