// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

package auth

import "time"

// # Authentication Constraints

const (
	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// UsernameMaxAttempts bounds the collision-disambiguation loop during
	// registration. Hitting the bound means the local part of the email is
	// pathologically popular and the caller gets an explicit error instead
	// of an unbounded scan.
	UsernameMaxAttempts = 1000

	// PasswordMinLength is the minimum accepted password length.
	PasswordMinLength = 8
)
