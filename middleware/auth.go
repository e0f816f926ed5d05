package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/haimult/pulse-survey-server/utils"
)

// CtxSession holds *utils.SessionClaims for the authenticated admin.
const CtxSession = "sessionClaims"

// RequireAdminSession checks Authorization: Bearer <token> and admits
// only admin-tier session tokens (issued by the verify endpoint).
func RequireAdminSession(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}
		rawToken := strings.TrimSpace(authHeader[7:])

		claims, err := utils.VerifySessionToken(rawToken, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		if claims.Tier != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin session required"})
			return
		}

		c.Set(CtxSession, claims)
		c.Next()
	}
}

// SessionClaims pulls the claims RequireAdminSession stored.
func SessionClaims(c *gin.Context) *utils.SessionClaims {
	v, ok := c.Get(CtxSession)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.SessionClaims)
	return claims
}
