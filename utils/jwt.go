package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims scope a builder session token to one survey config
// and one credential tier.
type SessionClaims struct {
	CustomID string `json:"custom_id"`
	Tier     string `json:"tier"`
	jwt.RegisteredClaims
}

const sessionTTL = 24 * time.Hour

// GenerateSessionToken signs an HS256 token after a successful
// credential verification.
func GenerateSessionToken(customID, tier, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret is not set")
	}
	claims := SessionClaims{
		CustomID: customID,
		Tier:     tier,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifySessionToken parses and validates a session token.
func VerifySessionToken(tokenStr, secret string) (*SessionClaims, error) {
	if secret == "" {
		return nil, errors.New("JWT secret is not set")
	}
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
