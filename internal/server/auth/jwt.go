// Package auth issues and verifies bearer access tokens and hashes user
// passwords.
package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/civicreport/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// TokenIssuer signs and verifies HS256 tokens whose subject is the decimal
// user id. It holds no mutable state and is safe for concurrent use.
type TokenIssuer struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewTokenIssuer builds an issuer. A zero ttl issues tokens without an exp
// claim, so they stay valid until the secret is rotated.
func NewTokenIssuer(secretKey []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secretKey: secretKey, ttl: ttl, now: time.Now}
}

func (i *TokenIssuer) Issue(userID int64) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject: strconv.FormatInt(userID, 10),
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(i.now().Add(i.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(i.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks the signature and claims and returns the subject user id.
// Every failure is reported as common.ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return 0, common.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, common.ErrInvalidToken
	}

	return userID, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return "", common.ErrInvalidToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", common.ErrInvalidToken
	}

	return token, nil
}
