package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finstagram/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signedToken(t *testing.T, userID string) string {
	t.Helper()
	claims := &Claims{
		Username: "tester",
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func userIDCapturingHandler(captured *string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if id, ok := r.Context().Value(globals.UserIDKey).(string); ok {
			*captured = id
		}
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	var captured string
	handler := Authenticate(userIDCapturingHandler(&captured))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/timeline", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, "u42"))
	w := httptest.NewRecorder()

	handler(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if captured != "u42" {
		t.Fatalf("context user id = %q, want u42", captured)
	}
}

func TestAuthenticateRejectsMissingAndBadTokens(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	for _, header := range []string{"", "Bearer garbage", "not-bearer"} {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/timeline", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()

		handler(w, r, nil)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, w.Code)
		}
	}
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	var captured string
	handler := OptionalAuth(userIDCapturingHandler(&captured))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/trending", nil)
	w := httptest.NewRecorder()

	handler(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if captured != "" {
		t.Fatalf("anonymous request carried user id %q", captured)
	}
}

func TestValidateJWTRoundTrip(t *testing.T) {
	claims, err := ValidateJWT("Bearer " + signedToken(t, "u7"))
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "u7" || claims.Username != "tester" {
		t.Fatalf("claims = %+v", claims)
	}
}
