package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func runCartSession(t *testing.T, mutate func(*http.Request)) (string, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/cart", nil)
	if mutate != nil {
		mutate(c.Request)
	}

	CartSession(testSecret)(c)
	return c.GetString("cartOwnerId"), recorder
}

func TestCartSessionBearerTokenWins(t *testing.T) {
	token := signTestToken(t, testSecret, jwt.MapClaims{
		"userId": "64f000000000000000000002",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	ownerID, _ := runCartSession(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
		r.Header.Set("X-Cart-Session", "guest-session-should-lose")
	})

	if ownerID != "64f000000000000000000002" {
		t.Errorf("expected user id as cart owner, got %q", ownerID)
	}
}

func TestCartSessionInvalidTokenFallsBackToGuest(t *testing.T) {
	badToken := signTestToken(t, "wrong-secret", jwt.MapClaims{
		"userId": "64f000000000000000000002",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	ownerID, _ := runCartSession(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+badToken)
		r.Header.Set("X-Cart-Session", "abc-123")
	})

	if ownerID != "guest:abc-123" {
		t.Errorf("expected guest owner from session header, got %q", ownerID)
	}
}

func TestCartSessionExistingHeaderEchoed(t *testing.T) {
	ownerID, recorder := runCartSession(t, func(r *http.Request) {
		r.Header.Set("X-Cart-Session", "abc-123")
	})

	if ownerID != "guest:abc-123" {
		t.Errorf("expected guest:abc-123, got %q", ownerID)
	}
	if got := recorder.Header().Get("X-Cart-Session"); got != "abc-123" {
		t.Errorf("expected session header echoed, got %q", got)
	}
}

func TestCartSessionMintsGuestSession(t *testing.T) {
	ownerID, recorder := runCartSession(t, nil)

	minted := recorder.Header().Get("X-Cart-Session")
	if minted == "" {
		t.Fatal("expected a minted session id in the response header")
	}
	if ownerID != "guest:"+minted {
		t.Errorf("expected owner guest:%s, got %q", minted, ownerID)
	}
}
