// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

/*
Package account handles user profile management and account lifecycle.

It provides functionalities for users to view and update their private identity
data, rotate their password, and retire their account, plus the administrative
directory listing.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Deletion Policy: Accounts are never hard-deleted; retirement anonymizes
    the row so historical references stay resolvable.
*/
package account

import (
	"context"
	"time"

	"github.com/vizitapp/vizit/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		EmailTaken reports whether another account already owns the email.

		Parameters:
		  - context: context.Context
		  - email: string
		  - excludeID: string (the caller's own account, ignored in the check)

		Returns:
		  - bool: true if a different account holds the email
		  - error: Storage failures
	*/
	EmailTaken(context context.Context, email, excludeID string) (bool, error)

	/*
		UsernameTaken reports whether another account already owns the username.

		Parameters:
		  - context: context.Context
		  - username: string
		  - excludeID: string

		Returns:
		  - bool: true if a different account holds the username
		  - error: Storage failures
	*/
	UsernameTaken(context context.Context, username, excludeID string) (bool, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes; UpdatedAt already stamped)

		Returns:
		  - error: apperr.Conflict or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string
		  - at: time.Time (UpdatedAt stamp from the caller's clock)

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string, at time.Time) error

	/*
		Anonymize retires an account: replaces the identifying columns with
		the supplied tombstone values, clears PII and pending tokens, and
		deactivates the row. The row itself is never deleted.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - email: string (tombstone email)
		  - username: string (tombstone username)
		  - at: time.Time

		Returns:
		  - error: Execution failures
	*/
	Anonymize(context context.Context, userID, email, username string, at time.Time) error

	/*
		List returns a page of accounts plus the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*auth.User: Page of accounts, newest first
		  - int: Total account count
		  - error: Retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*auth.User, int, error)
}
