// Package auth issues and verifies session tokens and password hashes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// TokenManager signs and verifies stateless HMAC JWTs whose subject is a
// user id. There is no server-side session state, so a token stays valid
// until it expires.
type TokenManager struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, method string, ttl time.Duration) (*TokenManager, error) {
	var m *jwt.SigningMethodHMAC
	switch method {
	case "", "HS256":
		m = jwt.SigningMethodHS256
	case "HS384":
		m = jwt.SigningMethodHS384
	case "HS512":
		m = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing method %q", method)
	}
	if secret == "" {
		return nil, errors.New("signing secret must not be empty")
	}
	return &TokenManager{
		secret: []byte(secret),
		method: m,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL is the lifetime given to issued tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Generate issues a token for userID and returns it with its expiry.
func (m *TokenManager) Generate(userID uuid.UUID) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt.Truncate(time.Second), nil
}

// Verify checks signature, algorithm and expiry and returns the user id in
// the subject claim.
func (m *TokenManager) Verify(tokenString string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrExpiredToken
		}
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	return userID, nil
}
