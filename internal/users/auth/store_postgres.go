// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vizitapp/vizit/internal/platform/database/schema"
	"github.com/vizitapp/vizit/internal/platform/dberr"
)

// # User Repository

// accountColumns is the canonical select list, in [scanUser] order.
var accountColumns = strings.Join(schema.UserAccount.Columns(), ", ")

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// scanUser hydrates a [User] from a row selected with [accountColumns].
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Company,
		&user.Position,
		&user.PhoneNumber,
		&user.Role,
		&user.IsActive,
		&user.EmailVerified,
		&user.EmailVerificationToken,
		&user.PasswordResetToken,
		&user.PasswordResetExpires,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata. The caller owns the clock and
supplies the CreatedAt/UpdatedAt stamps. Duplicate email or username is
reported by the database's unique constraints and mapped to a client-safe
Conflict.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		schema.UserAccount.Table, accountColumns)

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Company,
		user.Position,
		user.PhoneNumber,
		user.Role,
		user.IsActive,
		user.EmailVerified,
		user.EmailVerificationToken,
		user.PasswordResetToken,
		user.PasswordResetExpires,
		user.LastLoginAt,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return dberr.Wrap(err, "User", "Email or username is already registered")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "")
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns, schema.UserAccount.Table, schema.UserAccount.Email)

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "")
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns, schema.UserAccount.Table, schema.UserAccount.Username)

	user, err := scanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "")
	}

	return user, nil
}

/*
FindByIdentifier resolves an account by email OR username in a single query.

Description: One round trip serves the flexible-login contract; rows matching
either column are equivalent because both carry unique indexes.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByIdentifier(context context.Context, identifier string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 OR %s = $1`,
		accountColumns, schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.Username)

	user, err := scanUser(repository.pool.QueryRow(context, query, identifier))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "")
	}

	return user, nil
}

/*
UpdateLastLogin stamps the account's last successful authentication time.

Parameters:
  - context: context.Context
  - userID: string
  - at: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateLastLogin(context context.Context, userID string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.LastLoginAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID)

	_, err := repository.pool.Exec(context, query, userID, at)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_last_login_failed: %w", err)
	}

	return nil
}

/*
SetResetTicket installs a fresh password-reset token and expiry on the row.

Description: Overwrites any still-pending ticket so only the newest reset link
is redeemable.

Parameters:
  - context: context.Context
  - userID: string
  - token: string
  - expiresAt: time.Time
  - at: time.Time (caller-supplied UpdatedAt stamp)

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetResetTicket(context context.Context, userID, token string, expiresAt, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.PasswordResetToken,
		schema.UserAccount.PasswordResetExpires,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID)

	_, err := repository.pool.Exec(context, query, userID, token, expiresAt, at)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_reset_ticket_failed: %w", err)
	}

	return nil
}

/*
ConsumeResetTicket atomically redeems a pending password-reset ticket.

Description: A single conditional UPDATE installs the new hash and clears the
ticket, guarded by token equality AND a strict future expiry. Concurrent
redemption attempts race on the row lock; exactly one observes rowsAffected=1.

Parameters:
  - context: context.Context
  - token: string
  - newHash: string
  - now: time.Time

Returns:
  - bool: true if the ticket was consumed by this call
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ConsumeResetTicket(context context.Context, token, newHash string, now time.Time) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NULL, %s = NULL, %s = $3
		WHERE %s = $1 AND %s > $3`,
		schema.UserAccount.Table,
		schema.UserAccount.Password,
		schema.UserAccount.PasswordResetToken,
		schema.UserAccount.PasswordResetExpires,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.PasswordResetToken,
		schema.UserAccount.PasswordResetExpires)

	tag, err := repository.pool.Exec(context, query, token, newHash, now)
	if err != nil {
		return false, fmt.Errorf("postgres_user_repo_consume_reset_ticket_failed: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

/*
ConsumeVerificationToken marks the token holder's email as verified.

Parameters:
  - context: context.Context
  - token: string
  - now: time.Time

Returns:
  - bool: true if the token matched a pending account
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ConsumeVerificationToken(context context.Context, token string, now time.Time) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = TRUE, %s = NULL, %s = $2
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.EmailVerified,
		schema.UserAccount.EmailVerificationToken,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.EmailVerificationToken)

	tag, err := repository.pool.Exec(context, query, token, now)
	if err != nil {
		return false, fmt.Errorf("postgres_user_repo_consume_verification_failed: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
