// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the standard UUID library to specifically generate Version 7 values,
which are optimized for database performance.

Advantages:

  - Sortable: Naturally ordered by creation time (millisecond precision).
  - Friendly: Prevents index fragmentation in PostgreSQL (B-tree optimal).
  - Compact: 128-bit storage, compatible with standard 'uuid' types.

This is the mandatory ID type for all primary keys in the Vizit ecosystem.
For opaque single-use tokens (password reset, email verification) use
[Opaque] instead — those must not leak creation time.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {

	// Create a new version 7 UUID (time-sortable)
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// Opaque generates a random (version 4) UUID string.
//
// Unlike [New], the value carries no embedded timestamp, which makes it
// suitable for bearer-style secrets sent out-of-band.
func Opaque() string {
	return uuid.NewString()
}
