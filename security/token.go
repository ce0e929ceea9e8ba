package security

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the user information carried in a backend token.
type Identity struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
}

// IdentityClaims includes Identity and standard JWT claims
type IdentityClaims struct {
	Identity
	jwt.RegisteredClaims
}

// CreateIdentityToken signs an HS256 token. It backs the development
// backend and the createtoken tool; production tokens come from the API.
func CreateIdentityToken(identity Identity, base64Secret string, expiresIn time.Duration) (string, error) {
	secretBytes, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return "", fmt.Errorf("decode signing secret: %w", err)
	}
	now := time.Now()
	claims := IdentityClaims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "fieldwork",
			Subject:   fmt.Sprintf("%d", identity.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretBytes)
}

var ErrMissingExpiry = errors.New("token has no exp claim")

// DecodeToken reads the claims of a token without verifying its
// signature. The console never holds the backend's signing key; it only
// needs the expiry to decide whether the session is still usable.
func DecodeToken(tokenStr string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.ExpiresAt == nil {
		return nil, ErrMissingExpiry
	}
	return claims, nil
}

// VerifyToken parses and validates a token signed with the given secret.
func VerifyToken(tokenStr string, secret []byte) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}
