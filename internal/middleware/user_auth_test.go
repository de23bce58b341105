package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func runUserAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var captured interface{}
	r := gin.New()
	r.GET("/protected", UserAuth(testSecret), func(c *gin.Context) {
		captured, _ = c.Get("userId")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)
	return recorder, captured
}

func TestUserAuthInjectsObjectID(t *testing.T) {
	userID := primitive.NewObjectID()
	token := signTestToken(t, testSecret, jwt.MapClaims{
		"userId": userID.Hex(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	recorder, captured := runUserAuth(t, "Bearer "+token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	got, ok := captured.(primitive.ObjectID)
	if !ok {
		t.Fatalf("expected ObjectID in context, got %T", captured)
	}
	if got != userID {
		t.Errorf("expected %s, got %s", userID.Hex(), got.Hex())
	}
}

func TestUserAuthRejections(t *testing.T) {
	wrongSigner := signTestToken(t, "wrong-secret", jwt.MapClaims{
		"userId": primitive.NewObjectID().Hex(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	noUserID := signTestToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"wrong signer", "Bearer " + wrongSigner},
		{"no userId claim", "Bearer " + noUserID},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder, _ := runUserAuth(t, tc.authorization)
			if recorder.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", recorder.Code)
			}
		})
	}
}
