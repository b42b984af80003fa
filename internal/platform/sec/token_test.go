// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizitapp/vizit/internal/platform/clock"
	"github.com/vizitapp/vizit/internal/platform/sec"
)

const (
	testAccessSecret  = "unit-test-access-secret"
	testRefreshSecret = "unit-test-refresh-secret"
)

// pinnedClock returns a clock frozen at a fixed instant, plus the instant.
func pinnedClock() (clock.Clock, time.Time) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return clock.Func(func() time.Time { return at }), at
}

// revokedSet is a test double holding explicitly revoked token IDs.
type revokedSet map[string]bool

func (s revokedSet) Contains(tokenID string) bool { return s[tokenID] }

/*
TestNewTokenService_SecretValidation verifies the constructor rejects missing
or interchangeable secrets.
*/
func TestNewTokenService_SecretValidation(t *testing.T) {
	clk, _ := pinnedClock()

	tests := []struct {
		name          string
		accessSecret  string
		refreshSecret string
		wantErr       bool
	}{
		{"valid_distinct_secrets", testAccessSecret, testRefreshSecret, false},
		{"empty_access_secret", "", testRefreshSecret, true},
		{"empty_refresh_secret", testAccessSecret, "", true},
		{"equal_secrets", "shared", "shared", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := sec.NewTokenService(tt.accessSecret, tt.refreshSecret, "15m", "7d", "vizit.app", clk, nil)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

/*
TestTokenService_IssuePair verifies that a pair carries the expected claims
and the access-token expiry metadata.
*/
func TestTokenService_IssuePair(t *testing.T) {
	clk, now := pinnedClock()
	service, err := sec.NewTokenService(testAccessSecret, testRefreshSecret, "15m", "7d", "vizit.app", clk, nil)
	require.NoError(t, err)

	pair, err := service.IssuePair("user-1", "jane@example.com", "jane", "user")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	// 1. ExpiresAt metadata derives from the configured TTL
	require.NotNil(t, pair.ExpiresAt)
	assert.Equal(t, now.Add(15*time.Minute), *pair.ExpiresAt)

	// 2. The access token verifies under the access secret and carries the claims
	claims, err := service.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "jane", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "vizit.app", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	// 3. The refresh token verifies under the refresh secret
	refreshClaims, err := service.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refreshClaims.UserID())
}

/*
TestTokenService_IssuePair_MalformedTTL verifies graceful degradation: tokens
are still issued, only the expiry metadata is omitted.
*/
func TestTokenService_IssuePair_MalformedTTL(t *testing.T) {
	clk, _ := pinnedClock()
	service, err := sec.NewTokenService(testAccessSecret, testRefreshSecret, "soon", "later", "vizit.app", clk, nil)
	require.NoError(t, err)

	pair, err := service.IssuePair("user-1", "jane@example.com", "jane", "user")
	require.NoError(t, err)

	// The pair still works; only the convenience metadata is missing.
	assert.Nil(t, pair.ExpiresAt)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	_, err = service.VerifyAccess(pair.AccessToken)
	assert.NoError(t, err)
}

/*
TestTokenService_CrossSecretRejection verifies that each token type only
verifies under its own secret.
*/
func TestTokenService_CrossSecretRejection(t *testing.T) {
	clk, _ := pinnedClock()
	service, err := sec.NewTokenService(testAccessSecret, testRefreshSecret, "15m", "7d", "vizit.app", clk, nil)
	require.NoError(t, err)

	pair, err := service.IssuePair("user-1", "jane@example.com", "jane", "user")
	require.NoError(t, err)

	// An access token presented as a refresh token must fail, and vice versa.
	_, err = service.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)

	_, err = service.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)
}

/*
TestTokenService_Expiry verifies that verification distinguishes expired from
malformed tokens internally.
*/
func TestTokenService_Expiry(t *testing.T) {
	issuedAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	current := issuedAt

	// A mutable clock lets the test travel forward past the expiry.
	clk := clock.Func(func() time.Time { return current })

	service, err := sec.NewTokenService(testAccessSecret, testRefreshSecret, "15m", "7d", "vizit.app", clk, nil)
	require.NoError(t, err)

	pair, err := service.IssuePair("user-1", "jane@example.com", "jane", "user")
	require.NoError(t, err)

	// 1. Fresh: both verify
	_, err = service.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)

	// 2. Past the access lifetime: access dies, refresh survives
	current = issuedAt.Add(16 * time.Minute)
	_, err = service.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)

	_, err = service.VerifyRefresh(pair.RefreshToken)
	assert.NoError(t, err)

	// 3. Past the refresh lifetime: everything dies
	current = issuedAt.Add(8 * 24 * time.Hour)
	_, err = service.VerifyRefresh(pair.RefreshToken)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_Revocation verifies the RevocationSet extension point.
*/
func TestTokenService_Revocation(t *testing.T) {
	clk, _ := pinnedClock()
	revoked := revokedSet{}

	service, err := sec.NewTokenService(testAccessSecret, testRefreshSecret, "15m", "7d", "vizit.app", clk, revoked)
	require.NoError(t, err)

	pair, err := service.IssuePair("user-1", "jane@example.com", "jane", "user")
	require.NoError(t, err)

	claims, err := service.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)

	// Revoke by jti: the same token now fails verification.
	revoked[claims.ID] = true
	_, err = service.VerifyRefresh(pair.RefreshToken)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)
}

/*
TestTokenService_GarbageTokens verifies malformed inputs yield the invalid
classification, never a panic.
*/
func TestTokenService_GarbageTokens(t *testing.T) {
	clk, _ := pinnedClock()
	service, err := sec.NewTokenService(testAccessSecret, testRefreshSecret, "15m", "7d", "vizit.app", clk, nil)
	require.NoError(t, err)

	for _, garbage := range []string{"", "not-a-jwt", "a.b.c", "eyJhbGciOiJub25lIn0.e30."} {
		_, err := service.VerifyAccess(garbage)
		assert.ErrorIs(t, err, sec.ErrTokenInvalid)
	}
}
