// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByIdentifier resolves an account by email OR username in a single
		query. Absence is reported as apperr.NotFound, never as a panic.

		Parameters:
		  - context: context.Context
		  - identifier: string (email or username)

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByIdentifier(context context.Context, identifier string) (*User, error)

	/*
		Create persists a brand-new user account to the storage. A unique
		constraint violation on email or username surfaces as apperr.Conflict —
		the constraint, not an application-level pre-check, is the source of
		truth under concurrent registration.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdateLastLogin stamps the account's last successful authentication.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - at: time.Time

		Returns:
		  - error: Persistence failures
	*/
	UpdateLastLogin(context context.Context, userID string, at time.Time) error

	/*
		SetResetTicket installs a fresh password-reset token and expiry on the
		account row, overwriting any earlier, still-pending ticket.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - token: string (opaque single-use token)
		  - expiresAt: time.Time
		  - at: time.Time (UpdatedAt stamp from the caller's clock)

		Returns:
		  - error: Persistence failures
	*/
	SetResetTicket(context context.Context, userID, token string, expiresAt, at time.Time) error

	/*
		ConsumeResetTicket atomically redeems a pending reset ticket: in one
		conditional UPDATE it installs the new password hash and clears the
		token and expiry, but only if the token matches and has not expired.

		Parameters:
		  - context: context.Context
		  - token: string
		  - newHash: string
		  - now: time.Time (expiry boundary; expires <= now is already dead)

		Returns:
		  - bool: true if exactly one row was consumed
		  - error: Persistence failures
	*/
	ConsumeResetTicket(context context.Context, token, newHash string, now time.Time) (bool, error)

	/*
		ConsumeVerificationToken marks the holder of the given email
		verification token as verified and clears the token.

		Parameters:
		  - context: context.Context
		  - token: string
		  - now: time.Time

		Returns:
		  - bool: true if exactly one row was consumed
		  - error: Persistence failures
	*/
	ConsumeVerificationToken(context context.Context, token string, now time.Time) (bool, error)
}
