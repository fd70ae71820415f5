package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	shareIssuer   = "lifepath"
	shareAudience = "report-share"
)

var (
	errShareExpired = errors.New("share token expired")
	errShareInvalid = errors.New("share token invalid")
)

// ShareSigner issues and verifies HS256 share tokens whose subject is a report ID.
type ShareSigner struct {
	key []byte
	ttl time.Duration
}

// NewShareSigner returns a signer. The key must be at least 16 bytes.
func NewShareSigner(key []byte, ttl time.Duration) (*ShareSigner, error) {
	if len(key) < 16 {
		return nil, fmt.Errorf("share signing key must be at least 16 bytes, got %d", len(key))
	}
	if ttl <= 0 {
		return nil, errors.New("share ttl must be positive")
	}
	return &ShareSigner{key: append([]byte(nil), key...), ttl: ttl}, nil
}

// Sign returns a token for reportID valid from now for the signer's TTL.
func (s *ShareSigner) Sign(reportID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    shareIssuer,
		Subject:   reportID,
		Audience:  jwt.ClaimStrings{shareAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign share token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify returns the report ID carried by a valid token.
func (s *ShareSigner) Verify(token string, now time.Time) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(shareIssuer),
		jwt.WithAudience(shareAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errShareExpired
		}
		return "", fmt.Errorf("%w: %w", errShareInvalid, err)
	}
	if claims.Subject == "" {
		return "", errShareInvalid
	}
	return claims.Subject, nil
}
