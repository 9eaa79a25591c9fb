package utils_test

import (
	"testing"
	"time"

	"taskboard/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestGenerateAccessToken(t *testing.T) {
	userID := uuid.New()

	token, err := utils.GenerateAccessToken(userID, "admin", testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := utils.ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(utils.AccessTokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestGenerateRefreshToken(t *testing.T) {
	userID := uuid.New()

	token, err := utils.GenerateRefreshToken(userID, testSecret)
	require.NoError(t, err)

	claims, err := utils.ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Empty(t, claims.Role)
	assert.WithinDuration(t, time.Now().Add(utils.RefreshTokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateToken(t *testing.T) {
	userID := uuid.New()
	valid, err := utils.GenerateAccessToken(userID, "user", testSecret)
	require.NoError(t, err)

	expired := signExpiredToken(t, userID, testSecret)
	unsigned := signWithNoneMethod(t, userID)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr bool
	}{
		{name: "valid token", token: valid, secret: testSecret, wantErr: false},
		{name: "wrong secret", token: valid, secret: "other-secret", wantErr: true},
		{name: "expired token", token: expired, secret: testSecret, wantErr: true},
		{name: "none signing method", token: unsigned, secret: testSecret, wantErr: true},
		{name: "garbage", token: "not.a.token", secret: testSecret, wantErr: true},
		{name: "empty", token: "", secret: testSecret, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := utils.ValidateToken(tt.token, tt.secret)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, claims.UserID)
			}
		})
	}
}

func signExpiredToken(t *testing.T, userID uuid.UUID, secret string) string {
	t.Helper()

	claims := &utils.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func signWithNoneMethod(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	claims := &utils.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return token
}
