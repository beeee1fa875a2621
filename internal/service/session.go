package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"socialfeed/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "socialfeed-api"
	tokenAudience = "socialfeed-client"
)

// Session is the verified content of a session token.
type Session struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for userID valid for the issuer's TTL.
func (i *TokenIssuer) Issue(userID uint) (string, *Session, error) {
	if len(i.secret) == 0 {
		return "", nil, errors.New("JWT secret not configured")
	}

	now := i.now()
	session := &Session{
		UserID:    userID,
		TokenID:   generateJTI(now),
		ExpiresAt: now.Add(i.ttl),
	}
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": session.ExpiresAt.Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": session.TokenID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, session, nil
}

// Parse verifies signature, algorithm, issuer, audience and expiry.
// Every failure is reported as the same unauthorized error.
func (i *TokenIssuer) Parse(tokenString string) (*Session, error) {
	invalid := models.NewUnauthorizedError("Invalid or expired token")
	if tokenString == "" {
		return nil, models.NewUnauthorizedError("Authorization required")
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return nil, invalid
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, invalid
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, invalid
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, invalid
	}
	jti, _ := claims["jti"].(string)

	return &Session{UserID: uint(userID), TokenID: jti, ExpiresAt: exp.Time}, nil
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8])
}
