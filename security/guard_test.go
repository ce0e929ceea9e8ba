package security

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("console-test-secret-console-test"))

func mustToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	token, err := CreateIdentityToken(Identity{UserID: 5, Email: "admin@example.com"}, testSecret, expiresIn)
	require.NoError(t, err)
	return token
}

func TestEvaluate(t *testing.T) {
	now := time.Now()

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1}).SignedString([]byte("k"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		state  GuardState
		reason string
	}{
		{"missing token", "", StateNoToken, ReasonUnauthorized},
		{"garbage", "not-a-jwt", StateInvalid, ReasonInvalidToken},
		{"no exp claim", noExp, StateInvalid, ReasonInvalidToken},
		{"expired an hour ago", mustToken(t, -time.Hour), StateInvalid, ReasonSessionExpired},
		{"valid for an hour", mustToken(t, time.Hour), StateValid, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.token, now)
			assert.Equal(t, tt.state, d.State)
			assert.Equal(t, tt.reason, d.Reason)
			assert.Equal(t, tt.state == StateValid, d.Allowed())
		})
	}
}

func TestEvaluateExpiryBoundary(t *testing.T) {
	token := mustToken(t, time.Hour)
	claims, err := DecodeToken(token)
	require.NoError(t, err)

	exp := claims.ExpiresAt.Time
	assert.Equal(t, StateValid, Evaluate(token, exp.Add(-time.Second)).State)
	assert.Equal(t, ReasonSessionExpired, Evaluate(token, exp).Reason)
}

func TestDecodeIgnoresSignature(t *testing.T) {
	token := mustToken(t, time.Hour)
	claims, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, 5, claims.UserID)
	assert.Equal(t, "5", claims.Subject)

	_, err = VerifyToken(token, []byte("other-secret"))
	assert.Error(t, err)

	secret, _ := base64.StdEncoding.DecodeString(testSecret)
	verified, err := VerifyToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", verified.Email)
}
