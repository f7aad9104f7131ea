package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

var testSecret = []byte("test-secret")

func TestGenerateAndParse_RoundTrip(t *testing.T) {
	p := &models.Principal{ID: "u-1", Username: "alice", Role: models.RoleUploader}

	tokenString, err := GenerateToken(p, testSecret, time.Hour)
	require.NoError(t, err)

	got, err := PrincipalFromToken(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestPrincipalFromToken_WrongKey(t *testing.T) {
	p := &models.Principal{ID: "u-1", Username: "alice", Role: models.RoleAdmin}
	tokenString, err := GenerateToken(p, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = PrincipalFromToken(tokenString, []byte("other"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestPrincipalFromToken_Expired(t *testing.T) {
	p := &models.Principal{ID: "u-1", Username: "alice", Role: models.RoleViewer}
	tokenString, err := GenerateToken(p, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = PrincipalFromToken(tokenString, testSecret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestPrincipalFromToken_UnknownRole(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username: "mallory",
		Role:     "SUPERUSER",
	})
	tokenString, err := token.SignedString(testSecret)
	require.NoError(t, err)

	_, err = PrincipalFromToken(tokenString, testSecret)
	assert.ErrorIs(t, err, common.ErrUnknownRole)
}

func TestPrincipalFromToken_MissingSubject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username: "alice",
		Role:     "ADMIN",
	})
	tokenString, err := token.SignedString(testSecret)
	require.NoError(t, err)

	_, err = PrincipalFromToken(tokenString, testSecret)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}
