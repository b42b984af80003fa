// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vizitapp/vizit/internal/platform/apperr"
	"github.com/vizitapp/vizit/internal/platform/clock"
	"github.com/vizitapp/vizit/internal/platform/sec"
	"github.com/vizitapp/vizit/internal/users/auth"
	"github.com/vizitapp/vizit/pkg/pagination"
	"github.com/vizitapp/vizit/pkg/pointer"
)

// # Service Layer

// Service orchestrates business logic for user accounts.
//
// It ensures that profile updates, password rotation, and account retirement
// follow established business constraints.
type Service struct {
	accountRepository AccountRepository
	clock             clock.Clock
	bcryptCost        int
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	accountRepo AccountRepository,
	clk clock.Clock,
	bcryptCost int,
	logger *slog.Logger,
) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		accountRepository: accountRepo,
		clock:             clk,
		bcryptCost:        bcryptCost,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: apperr.NotFound or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
//
// Only the fields named here can ever be touched by a profile update; a nil
// pointer means "leave unchanged".
type UpdateProfileInput struct {
	Email       *string
	Username    *string
	FirstName   *string
	LastName    *string
	Company     *string
	Position    *string
	PhoneNumber *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides the provided allow-listed
fields, and synchronizes the change to persistent storage. Email and username
changes are re-checked for uniqueness; the database constraints remain the
final authority under concurrency.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: apperr.Conflict, apperr.NotFound, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Identity changes need an ownership check against the rest of the directory.
	if input.Email != nil && *input.Email != user.Email {
		taken, err := service.accountRepository.EmailTaken(context, *input.Email, userID)
		if err != nil {
			return nil, fmt.Errorf("account_service_email_check_failed: %w", err)
		}
		if taken {
			return nil, apperr.Conflict("Email is already registered")
		}
		user.Email = *input.Email
	}

	if input.Username != nil && *input.Username != user.Username {
		taken, err := service.accountRepository.UsernameTaken(context, *input.Username, userID)
		if err != nil {
			return nil, fmt.Errorf("account_service_username_check_failed: %w", err)
		}
		if taken {
			return nil, apperr.Conflict("Username is already taken")
		}
		user.Username = *input.Username
	}

	// Apply delta updates
	user.FirstName = pointer.Fallback(input.FirstName, user.FirstName)
	user.LastName = pointer.Fallback(input.LastName, user.LastName)
	user.Company = pointer.Fallback(input.Company, user.Company)
	user.Position = pointer.Fallback(input.Position, user.Position)
	user.PhoneNumber = pointer.Fallback(input.PhoneNumber, user.PhoneNumber)

	// Persist changes
	user.UpdatedAt = service.clock.Now()
	if err := service.accountRepository.Update(context, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

// # Password Rotation

/*
ChangePassword allows an authenticated user to rotate their credentials.

Description: Verifies the current password before installing the new hash.
A confirmation mismatch and a wrong current password are both input errors,
not authentication failures — the caller is already authenticated.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string
  - confirmPassword: string

Returns:
  - error: ValidationError, apperr.NotFound, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword, confirmPassword string) error {

	if newPassword != confirmPassword {
		return apperr.ValidationError("Passwords do not match",
			apperr.FieldError{Field: auth.FieldConfirmPassword, Message: "must match the new password"})
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return fmt.Errorf("account_service_change_password_lookup_failed: %w", err)
	}

	// Verify the current password before allowing the change.
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.ValidationError("Current password is incorrect",
			apperr.FieldError{Field: auth.FieldCurrentPassword, Message: "is incorrect"})
	}

	hashedPassword, err := sec.HashPassword(newPassword, service.bcryptCost)
	if err != nil {
		return fmt.Errorf("account_service_change_password_hash_failed: %w", err)
	}

	if err := service.accountRepository.UpdatePassword(context, userID, hashedPassword, service.clock.Now()); err != nil {
		return fmt.Errorf("account_service_change_password_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_password_changed", slog.String("user_id", userID))

	return nil
}

// # Account Retirement

/*
DeleteAccount retires a user account in place.

Description: The row is anonymized, never removed: the email and username are
replaced with timestamped tombstones (freeing both for future registration),
PII columns and pending tokens are cleared, and the account is deactivated so
it can no longer authenticate.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.NotFound or execution failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {

	// The tombstone values are unique per retirement thanks to the timestamp.
	now := service.clock.Now()
	stamp := now.UnixMilli()
	tombstoneEmail := fmt.Sprintf("deleted_%d@deleted.local", stamp)
	tombstoneUsername := fmt.Sprintf("deleted_%d", stamp)

	if err := service.accountRepository.Anonymize(context, userID, tombstoneEmail, tombstoneUsername, now); err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.WarnContext(context, "user_account_retired", slog.String("user_id", userID))

	return nil
}

// # Directory Administration

/*
ListUsers returns a paginated slice of the account directory.

Description: Administrative view; results carry the sanitized projection only.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*auth.PublicUser: Page of sanitized profiles
  - pagination.Meta: Page metadata
  - error: Retrieval failures
*/
func (service *Service) ListUsers(context context.Context, params pagination.Params) ([]*auth.PublicUser, pagination.Meta, error) {

	users, total, err := service.accountRepository.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_list_users_failed: %w", err)
	}

	projections := make([]*auth.PublicUser, 0, len(users))
	for _, user := range users {
		projections = append(projections, user.Public())
	}

	return projections, pagination.NewMeta(params.Page, params.Limit, total), nil
}
