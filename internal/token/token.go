// Package token mints and validates the three token kinds used by the
// account lifecycle: the emailed verification code, the reset-password
// token embedded in a URL, and the signed session token carried in a cookie.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// VerificationCodeTTL and ResetTokenTTL match the one-day window the
	// emails promise.
	VerificationCodeTTL = 24 * time.Hour
	ResetTokenTTL       = 24 * time.Hour

	// SessionTTL bounds both the JWT exp claim and the cookie lifetime.
	SessionTTL = 24 * time.Hour

	resetTokenBytes = 20
)

var (
	ErrInvalidSessionToken = errors.New("invalid session token")

	codeRange = big.NewInt(900000)
)

// NewVerificationCode returns a 6-digit numeric code uniformly sampled from
// [100000, 999999] and its expiry.
func NewVerificationCode() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate verification code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)
	return code, time.Now().Add(VerificationCodeTTL), nil
}

// NewResetToken returns a hex-encoded token with 20 bytes of randomness and
// its expiry. The token is a bearer capability, so it must be unguessable.
func NewResetToken() (string, time.Time, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), time.Now().Add(ResetTokenTTL), nil
}

// JWT signs and verifies session tokens with an HMAC secret held by the
// server. Sessions are stateless: the token itself is the only record.
type JWT struct {
	secret string
	ttl    time.Duration
}

func NewJWT(secret string) *JWT {
	return &JWT{secret: secret, ttl: SessionTTL}
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// NewSessionToken issues a signed token binding userID for the session TTL.
func (j *JWT) NewSessionToken(userID string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(j.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ParseSessionToken verifies the signature and expiry of a session token and
// returns the bound account id. Any malformed, tampered or expired token
// yields ErrInvalidSessionToken.
func (j *JWT) ParseSessionToken(tokenStr string) (string, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(j.secret), nil
	})
	if err != nil || !t.Valid {
		return "", ErrInvalidSessionToken
	}
	claims, ok := t.Claims.(*sessionClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidSessionToken
	}
	return claims.Subject, nil
}
