// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces ([TokenIssuer], middleware's
// TokenVerifier).
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vizitapp/vizit/internal/platform/clock"
	"github.com/vizitapp/vizit/pkg/uuid"
)

// Fallback lifetimes applied when the configured TTL string is malformed.
// The tokens themselves must always carry an 'exp' claim — only the
// convenience expiry metadata may be absent.
const (
	fallbackAccessTTL  = 15 * time.Minute
	fallbackRefreshTTL = 7 * 24 * time.Hour
)

// Internal failure kinds for refresh verification. They are never shown to
// API callers; the service layer collapses both into one Unauthorized.
var (
	// ErrTokenExpired means the signature was valid but the token's lifetime has passed.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenInvalid means the token is malformed or signed under the wrong secret.
	ErrTokenInvalid = errors.New("sec: token invalid")
)

// AuthClaims represents the payload embedded inside a Vizit JWT.
//
// # Why custom claims?
//
// By embedding the Email, Username, and Role directly inside the JWT,
// the authentication middleware can reconstruct the active user context
// WITHOUT querying the database on every single API request. Possession of
// an unexpired, correctly-signed access token IS the session — no session
// table exists.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserID returns the account identifier carried in the 'sub' claim.
func (c *AuthClaims) UserID() string { return c.Subject }

// TokenPair is the transient artifact returned to authenticated callers.
// It is never persisted server-side.
type TokenPair struct {
	// AccessToken is the short-lived bearer credential authorizing API calls.
	AccessToken string `json:"jwt"`

	// RefreshToken is the long-lived credential used solely to obtain a new pair.
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the absolute expiry of the access token. Nil when the
	// configured TTL string could not be parsed (graceful degradation).
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// RevocationSet is an extension point for early refresh-token invalidation,
// keyed by the token's 'jti' claim.
//
// The default wiring passes nil: a captured refresh token stays valid until
// its natural expiry. Deployments that need early revocation plug a Redis- or
// SQL-backed set here.
type RevocationSet interface {
	// Contains reports whether the token identifier has been revoked.
	Contains(tokenID string) bool
}

// TokenService signs and verifies HS256 JWT pairs.
//
// # Dual Secrets
//
// Access and refresh tokens are signed under DISTINCT secrets so that
// compromise of one secret cannot forge the other token type.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     string
	refreshTTL    string
	issuer        string
	clock         clock.Clock
	revoked       RevocationSet
}

// NewTokenService creates a new TokenService.
//
// # Parameters
//   - accessSecret: HMAC secret for access tokens.
//   - refreshSecret: HMAC secret for refresh tokens (must differ from accessSecret).
//   - accessTTL, refreshTTL: compact lifetime strings ("15m", "7d").
//   - issuer: the 'iss' claim value.
//   - clk: injected time source so tests can pin expiry math.
//   - revoked: optional early-revocation hook; nil disables the check.
func NewTokenService(accessSecret, refreshSecret, accessTTL, refreshTTL, issuer string, clk clock.Clock, revoked RevocationSet) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("sec: token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, fmt.Errorf("sec: access and refresh secrets must differ")
	}
	if clk == nil {
		clk = clock.System()
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
		clock:         clk,
		revoked:       revoked,
	}, nil
}

/*
IssuePair signs a fresh access/refresh token pair for a user.

Description: Builds the shared claims set {sub, email, username, role} and
signs it twice — once per secret and lifetime. The access token's absolute
expiry is computed from the configured TTL string; if that string is
malformed, the pair is still issued (with fallback claim lifetimes) and only
the ExpiresAt metadata is left unset.

Parameters:
  - userID: string (subject)
  - email: string
  - username: string
  - role: string

Returns:
  - *TokenPair: Transport-ready credentials
  - error: Signing failures only
*/
func (service *TokenService) IssuePair(userID, email, username, role string) (*TokenPair, error) {
	now := service.clock.Now()

	accessDuration, accessParsed := ParseTTL(service.accessTTL)
	if !accessParsed {
		accessDuration = fallbackAccessTTL
	}

	refreshDuration, refreshParsed := ParseTTL(service.refreshTTL)
	if !refreshParsed {
		refreshDuration = fallbackRefreshTTL
	}

	accessToken, err := service.sign(service.accessSecret, userID, email, username, role, now, accessDuration)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to sign access token: %w", err)
	}

	refreshToken, err := service.sign(service.refreshSecret, userID, email, username, role, now, refreshDuration)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to sign refresh token: %w", err)
	}

	pair := &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}

	// Only expose the convenience expiry when the TTL string was well-formed.
	if accessParsed {
		expiresAt := now.Add(accessDuration)
		pair.ExpiresAt = &expiresAt
	}

	return pair, nil
}

// sign builds and signs a single HS256 token under the given secret.
func (service *TokenService) sign(secret []byte, userID, email, username, role string, now time.Time, timeToLive time.Duration) (string, error) {
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(), // jti: hook for the RevocationSet
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(timeToLive)),
		},
		Email:    email,
		Username: username,
		Role:     role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccess checks the signature and validity of an access token.
//
// Used by the authentication middleware on every protected request.
func (service *TokenService) VerifyAccess(tokenString string) (*AuthClaims, error) {
	return service.verify(tokenString, service.accessSecret)
}

/*
VerifyRefresh checks the signature and validity of a refresh token.

Description: Validates against the refresh secret and, when a [RevocationSet]
is configured, rejects revoked token identifiers. Expiry and signature
failures surface as distinct internal errors ([ErrTokenExpired],
[ErrTokenInvalid]) so the service layer can log precisely while presenting a
single generic failure to callers.

Parameters:
  - tokenString: string

Returns:
  - *AuthClaims: Verified claims
  - error: ErrTokenExpired or ErrTokenInvalid
*/
func (service *TokenService) VerifyRefresh(tokenString string) (*AuthClaims, error) {
	claims, err := service.verify(tokenString, service.refreshSecret)
	if err != nil {
		return nil, err
	}

	if service.revoked != nil && service.revoked.Contains(claims.ID) {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// verify parses a token under the given secret and classifies failures.
func (service *TokenService) verify(tokenString string, secret []byte) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(service.clock.Now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
