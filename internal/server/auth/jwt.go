// Package auth maps bearer tokens issued by the external authenticator onto
// vault principals. The vault verifies signatures and the role claim here,
// at the boundary; the core trusts the resulting Principal verbatim.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// Claims carries the registered claims plus the vault identity claims.
// Subject doubles as the principal id.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// GenerateToken signs an HS256 token for the given principal. Used by tests
// and by operator tooling; the production issuer lives outside the vault.
func GenerateToken(p *models.Principal, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Username: p.Username,
		Role:     string(p.Role),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// PrincipalFromToken validates tokenString and builds the Principal.
// A token with a role outside the closed role set is rejected with
// common.ErrUnknownRole so garbage roles never reach the core.
func PrincipalFromToken(tokenString string, secretKey []byte) (*models.Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnknownRole, err)
	}

	return &models.Principal{
		ID:       claims.Subject,
		Username: claims.Username,
		Role:     role,
	}, nil
}
