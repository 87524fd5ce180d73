package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"waitline/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func protectedHandler(gotUserID *string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if id, ok := r.Context().Value(globals.UserIDKey).(string); ok {
			*gotUserID = id
		}
		w.WriteHeader(http.StatusOK)
	}
}

func signTestToken(t *testing.T, userID string) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	var userID string
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/places/p1/official", nil)

	Authenticate(protectedHandler(&userID))(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if userID != "" {
		t.Fatalf("handler ran without a token")
	}
}

// Upgrade headers alone must not get a request past auth.
func TestAuthenticateRejectsForgedUpgradeHeaders(t *testing.T) {
	var userID string
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/places/p1/official", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")

	Authenticate(protectedHandler(&userID))(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if userID != "" {
		t.Fatalf("handler ran behind forged upgrade headers")
	}
}

func TestAuthenticateRejectsBadFormat(t *testing.T) {
	var userID string
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", signTestToken(t, "u1")) // missing Bearer prefix

	Authenticate(protectedHandler(&userID))(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticatePassesValidToken(t *testing.T) {
	var userID string
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "u42"))

	Authenticate(protectedHandler(&userID))(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if userID != "u42" {
		t.Fatalf("context userID = %q, want u42", userID)
	}
}
