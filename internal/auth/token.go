// Package auth issues and verifies signed session resume tokens. A token
// names the actor (user id, admin flag) so a connection can be restored
// without re-prompting for credentials while the token is still valid.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkhrutsky/mdskeeper/internal/common"
)

// Claims extends the registered JWT claims with the actor identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid,omitempty"`
	Admin  bool   `json:"admin,omitempty"`
}

// GenerateToken mints an HS256 token for the given actor.
func GenerateToken(userID string, admin bool, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Admin:  admin,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies tokenString and returns the actor it names.
// Expired tokens yield common.ErrTokenExpired; any other verification
// failure yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (userID string, admin bool, err error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", false, common.ErrTokenExpired
		}
		return "", false, common.ErrInvalidToken
	}

	if !token.Valid {
		return "", false, common.ErrInvalidToken
	}

	return claims.UserID, claims.Admin, nil
}
