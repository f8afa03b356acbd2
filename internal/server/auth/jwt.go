// Package auth verifies the bearer tokens issued by the Rentadoor backend.
// The vault only consumes tokens; issuing them (login, refresh) lives with
// the main CRUD API.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Monterolautaro/rentadoor-docvault/internal/common"
)

// Claims carries the registered claims plus the Rentadoor user id and the
// admin flag that gates unscoped document listing.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Admin  bool   `json:"admin"`
}

// GenerateToken signs an HS256 token for userID. Used by tests and by the
// operator CLI; production tokens come from the main backend with the same
// secret.
func GenerateToken(userID string, admin bool, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Admin:  admin,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates tokenString and returns its claims. Any parse or
// signature failure maps to common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
