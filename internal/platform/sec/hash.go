// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor applied when the configured cost is
// out of bcrypt's supported range. 12 balances login latency against
// brute-force resistance on current hardware.
const DefaultBcryptCost = 12

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// The plaintext never appears in errors or logs.
func HashPassword(plainTextPassword string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
//
// bcrypt's own comparison primitive is constant-time with respect to the
// candidate password.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
