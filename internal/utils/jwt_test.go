package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestGenerateAndParseJWT(t *testing.T) {
	now := time.Now()
	token, err := GenerateJWT(map[string]any{"email": "ada@example.com", "name": "Ada", "exp": 1}, testSecret, now)
	require.NoError(t, err)

	claims, err := ParseJWT(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", ClaimEmail(claims))
	assert.Equal(t, "Ada", claims["name"])
	assert.Equal(t, float64(now.Add(24*time.Hour).Unix()), claims["exp"], "client exp must be overridden")
}

func TestGenerateJWTRequiresEmail(t *testing.T) {
	_, err := GenerateJWT(map[string]any{"name": "Ada"}, testSecret, time.Now())
	assert.ErrorIs(t, err, ErrMissingEmail)

	_, err = GenerateJWT(map[string]any{"email": 42}, testSecret, time.Now())
	assert.ErrorIs(t, err, ErrMissingEmail)
}

func TestParseJWTRejects(t *testing.T) {
	valid, err := GenerateJWT(map[string]any{"email": "ada@example.com"}, testSecret, time.Now())
	require.NoError(t, err)

	expired, err := GenerateJWT(map[string]any{"email": "ada@example.com"}, testSecret, time.Now().Add(-25*time.Hour))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "ada@example.com"}).SignedString(testSecret)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"email": "ada@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{"wrong secret", valid, []byte("other")},
		{"expired", expired, testSecret},
		{"missing exp", noExp, testSecret},
		{"alg none", unsigned, testSecret},
		{"garbage", "not.a.token", testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJWT(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}
