// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizitapp/vizit/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies that a hashed password verifies against
its own plaintext and nothing else.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple", sec.DefaultBcryptCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// 1. The hash must never equal the plaintext
	assert.NotEqual(t, "correct horse battery staple", hash)

	// 2. The original password verifies
	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))

	// 3. Anything else does not
	assert.False(t, sec.CheckPasswordHash("correct horse battery стаple", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}

/*
TestHashPassword_DistinctSalts verifies that hashing the same password twice
produces different hashes (random salt).
*/
func TestHashPassword_DistinctSalts(t *testing.T) {
	first, err := sec.HashPassword("same-password", sec.DefaultBcryptCost)
	require.NoError(t, err)

	second, err := sec.HashPassword("same-password", sec.DefaultBcryptCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, sec.CheckPasswordHash("same-password", first))
	assert.True(t, sec.CheckPasswordHash("same-password", second))
}

/*
TestHashPassword_CostClamping verifies that out-of-range work factors fall
back to the default cost instead of failing.
*/
func TestHashPassword_CostClamping(t *testing.T) {
	tests := []struct {
		name string
		cost int
	}{
		{"zero_cost", 0},
		{"negative_cost", -5},
		{"absurdly_high_cost", 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := sec.HashPassword("pw-with-odd-cost", tt.cost)
			require.NoError(t, err)
			assert.True(t, sec.CheckPasswordHash("pw-with-odd-cost", hash))
		})
	}
}

/*
TestCheckPasswordHash_MalformedHash verifies that garbage hashes are rejected
without panicking.
*/
func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("anything", "not-a-bcrypt-hash"))
	assert.False(t, sec.CheckPasswordHash("anything", ""))
}
