package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrSecretRequired = errors.New("token: signing secret is required")
	ErrTokenInvalid   = errors.New("token: invalid")
)

// JWTIssuer signs HS256 tokens whose subject is the user id. Each token carries a
// unique jti so two logins in the same second still get distinct sessions.
type JWTIssuer struct {
	Secret []byte
	Issuer string
}

func (j JWTIssuer) Issue(subject string, issuedAt time.Time, ttl time.Duration) (string, error) {
	if len(j.Secret) == 0 {
		return "", ErrSecretRequired
	}
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    j.issuer(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry and returns the subject.
func (j JWTIssuer) Verify(token string) (string, error) {
	if len(j.Secret) == 0 {
		return "", ErrSecretRequired
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, func(t *jwt.Token) (any, error) {
		return j.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer()),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

func (j JWTIssuer) issuer() string {
	if j.Issuer != "" {
		return j.Issuer
	}
	return "airbrb"
}
