// Package security provides JWT token utilities
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateAdminToken creates a JWT for the demo admin surface with the given
// role, valid for 24 hours.
func GenerateAdminToken(role, jwtSecret string) (string, error) {
	claims := jwt.MapClaims{
		"role": role,
		"iat":  time.Now().UTC().Unix(),
		"exp":  time.Now().UTC().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// GetRoleFromClaims extracts the role claim from a validated admin token.
func GetRoleFromClaims(claims jwt.MapClaims) string {
	if role, ok := claims["role"].(string); ok {
		return role
	}
	return ""
}
