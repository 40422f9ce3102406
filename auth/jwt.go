package auth

import (
	"time"

	"chat-api/apperrors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = 30 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// CreateToken signs an HS256 token whose sub claim carries subject (the
// username, or the email for verification links).
func CreateToken(subject string, secretKey []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	return token.SignedString(secretKey)
}

// ParseToken validates the token and returns its sub claim.
func ParseToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", apperrors.ErrBadToken
	}
	if !token.Valid || claims.Subject == "" {
		return "", apperrors.ErrBadToken
	}
	return claims.Subject, nil
}
