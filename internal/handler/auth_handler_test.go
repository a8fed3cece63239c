package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fitcert/backend/pkg/auth"
)

func testAuthHandler() *AuthHandler {
	return NewAuthHandler(AuthConfig{
		AdminEmail:    "admin@fitcert.example",
		AdminPassword: "correct-horse-battery-staple",
		SessionSecret: "test-secret",
	})
}

func TestAuthHandler_Login_Success(t *testing.T) {
	h := testAuthHandler()

	body := `{"email":"admin@fitcert.example","password":"correct-horse-battery-staple"}`
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName() {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("expected a session cookie")
	}
	userID, err := auth.VerifySessionToken(sessionCookie.Value, auth.SessionSecretBytes("test-secret"))
	if err != nil {
		t.Fatalf("cookie does not verify: %v", err)
	}
	if userID != auth.AdminUserID {
		t.Errorf("expected admin session, got %q", userID)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	h := testAuthHandler()

	body := `{"email":"admin@fitcert.example","password":"wrong"}`
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no cookie on failed login")
	}
}

func TestAuthHandler_Login_DisabledWithoutCredentials(t *testing.T) {
	h := NewAuthHandler(AuthConfig{SessionSecret: "test-secret"})

	body := `{"email":"a@b.com","password":"x"}`
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when no admin is configured, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout_ExpiresCookie(t *testing.T) {
	h := testAuthHandler()

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expiring session cookie, got %+v", cookies)
	}
}
