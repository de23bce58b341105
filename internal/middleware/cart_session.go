package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const cartSessionHeader = "X-Cart-Session"

// CartSession resolves the cart owner for both logged-in users and guests.
// A valid bearer token wins (the cart follows the account); otherwise the
// X-Cart-Session header identifies a guest cart, minted here on first touch
// and echoed back so the client can persist it.
func CartSession(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ownerID := userIDFromBearer(c.GetHeader("Authorization"), secret); ownerID != "" {
			c.Set("cartOwnerId", ownerID)
			c.Next()
			return
		}

		sessionID := strings.TrimSpace(c.GetHeader(cartSessionHeader))
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		c.Header(cartSessionHeader, sessionID)
		c.Set("cartOwnerId", "guest:"+sessionID)
		c.Next()
	}
}

func userIDFromBearer(header, secret string) string {
	raw, ok := bearerToken(header)
	if !ok {
		return ""
	}

	claims, ok := parseClaims(raw, secret)
	if !ok {
		return ""
	}

	userID, _ := claims["userId"].(string)
	return strings.TrimSpace(userID)
}
