// Package auth issues and verifies the signed access tokens the HTTP API
// uses to identify a person.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"filesafe/internal/common"
)

// Claims carries the standard registered claims plus the identifier of the
// authenticated person.
type Claims struct {
	jwt.RegisteredClaims
	PersonID string
}

// GenerateToken signs an HS256 token for personID that expires after
// validityDuration.
func GenerateToken(personID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		PersonID: personID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetPersonIDFromToken parses and verifies tokenString and returns the
// embedded person identifier.
func GetPersonIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.PersonID, nil
}
