// Package auth issues and validates the bearer tokens that gate the
// analytics and admin surfaces.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"folio/internal/config"
	"folio/internal/users"
)

// Claims embeds jwt.RegisteredClaims to include the standard JWT fields
// alongside the folio-specific ones.
type Claims struct {
	UserID  uint `json:"userId"`
	IsAdmin bool `json:"isAdmin"`
	jwt.RegisteredClaims
}

// IssueToken signs a bearer token for the given user. Lifetime comes from
// the configured auth token TTL.
func IssueToken(cfg *config.Config, user *users.User) (string, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(cfg.GetAuthTokenTTLSeconds()) * time.Second)

	claims := &Claims{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    cfg.GetAppName(),
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ResolveBearerToken parses and validates a bearer token string.
func ResolveBearerToken(cfg *config.Config, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.PrivateKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	return claims, nil
}
