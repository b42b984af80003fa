// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vizitapp/vizit/internal/platform/database/schema"
	"github.com/vizitapp/vizit/internal/platform/dberr"
	"github.com/vizitapp/vizit/internal/users/auth"
)

// # Account Repository

// accountColumns is the canonical select list, in [hydrateUser] order.
var accountColumns = strings.Join(schema.UserAccount.Columns(), ", ")

// PostgresAccountRepository implements the AccountRepository interface using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// hydrateUser scans a row selected with [accountColumns] into an entity.
func hydrateUser(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
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
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := hydrateUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "")
	}

	return user, nil
}

/*
EmailTaken reports whether another account already owns the email.

Parameters:
  - context: context.Context
  - email: string
  - excludeID: string

Returns:
  - bool: true if a different account holds the email
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) EmailTaken(context context.Context, email, excludeID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s != $2)`,
		schema.UserAccount.Table, schema.UserAccount.Email, schema.UserAccount.ID)

	var taken bool
	if err := repository.pool.QueryRow(context, query, email, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("postgres_account_repo_email_taken_failed: %w", err)
	}

	return taken, nil
}

/*
UsernameTaken reports whether another account already owns the username.

Parameters:
  - context: context.Context
  - username: string
  - excludeID: string

Returns:
  - bool: true if a different account holds the username
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) UsernameTaken(context context.Context, username, excludeID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s != $2)`,
		schema.UserAccount.Table, schema.UserAccount.Username, schema.UserAccount.ID)

	var taken bool
	if err := repository.pool.QueryRow(context, query, username, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("postgres_account_repo_username_taken_failed: %w", err)
	}

	return taken, nil
}

/*
Update persists changes to a user's mutable profile fields.

Description: Synchronizes the in-memory user state with the database; the
caller supplies the UpdatedAt stamp. A unique violation on email or username
(lost race after the service-level check) is mapped to a client-safe Conflict.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: apperr.Conflict or update failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Email,
		schema.UserAccount.Username,
		schema.UserAccount.FirstName,
		schema.UserAccount.LastName,
		schema.UserAccount.Company,
		schema.UserAccount.Position,
		schema.UserAccount.PhoneNumber,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID)

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Company,
		user.Position,
		user.PhoneNumber,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return dberr.Wrap(err, "User", "Email or username is already taken")
		}
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string
  - at: time.Time (caller-supplied UpdatedAt stamp)

Returns:
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) UpdatePassword(context context.Context, userID, newHash string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Password, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID)

	_, err := repository.pool.Exec(context, query, userID, newHash, at)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
Anonymize retires an account in place.

Description: Replaces the identifying columns with tombstone values, clears
the PII and pending-token columns, and deactivates the row. Reports NotFound
when the account does not exist.

Parameters:
  - context: context.Context
  - userID: string
  - email: string (tombstone)
  - username: string (tombstone)
  - at: time.Time

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) Anonymize(context context.Context, userID, email, username string, at time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3,
			%s = '', %s = '', %s = '', %s = '', %s = '',
			%s = FALSE, %s = NULL, %s = NULL, %s = NULL,
			%s = $4
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Email,
		schema.UserAccount.Username,
		schema.UserAccount.FirstName,
		schema.UserAccount.LastName,
		schema.UserAccount.Company,
		schema.UserAccount.Position,
		schema.UserAccount.PhoneNumber,
		schema.UserAccount.IsActive,
		schema.UserAccount.EmailVerificationToken,
		schema.UserAccount.PasswordResetToken,
		schema.UserAccount.PasswordResetExpires,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, userID, email, username, at)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_anonymize_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User", "")
	}

	return nil
}

/*
List returns a page of accounts ordered by creation time, newest first.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*auth.User: Page of accounts
  - int: Total account count
  - error: Retrieval errors
*/
func (repository *PostgresAccountRepository) List(context context.Context, limit, offset int) ([]*auth.User, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.UserAccount.Table)

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY %s DESC
		LIMIT $1 OFFSET $2`,
		accountColumns, schema.UserAccount.Table, schema.UserAccount.CreatedAt)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*auth.User, 0, limit)
	for rows.Next() {
		user, err := hydrateUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_rows_failed: %w", err)
	}

	return users, total, nil
}
