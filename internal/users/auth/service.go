// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vizitapp/vizit/internal/platform/apperr"
	"github.com/vizitapp/vizit/internal/platform/clock"
	"github.com/vizitapp/vizit/internal/platform/notify"
	"github.com/vizitapp/vizit/internal/platform/sec"
	"github.com/vizitapp/vizit/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer defines the contract for minting and verifying token pairs.
type TokenIssuer interface {
	// IssuePair signs a fresh access/refresh pair for the given account.
	IssuePair(userID, email, username, role string) (*sec.TokenPair, error)

	// VerifyRefresh validates a refresh token against the refresh secret.
	VerifyRefresh(tokenStr string) (*sec.AuthClaims, error)
}

// Options carries the feature flags and tuning knobs the service reads
// from the environment configuration.
type Options struct {
	// RegistrationEnabled gates the Register operation entirely.
	RegistrationEnabled bool

	// EmailVerificationRequired makes new accounts start unverified with a
	// pending verification token.
	EmailVerificationRequired bool

	// BcryptCost is the password hashing work factor.
	BcryptCost int
}

// Session is the result of a successful authentication exchange: a signed
// token pair plus the sanitized account projection.
type Session struct {
	Tokens *sec.TokenPair
	User   *PublicUser
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or recovery logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenIssuer    TokenIssuer
	mailer         notify.Dispatcher
	clock          clock.Clock
	options        Options
	logger         *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	userRepo UserRepository,
	tokens TokenIssuer,
	mailer notify.Dispatcher,
	clk clock.Clock,
	options Options,
	logger *slog.Logger,
) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		userRepository: userRepo,
		tokenIssuer:    tokens,
		mailer:         mailer,
		clock:          clk,
		options:        options,
		logger:         logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Company     string
	Position    string
	PhoneNumber string
	AcceptTerms bool
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member. The username is derived from the
email's local part, disambiguated with an integer suffix on collision. On
success the account is immediately authenticated: a token pair is issued
alongside the sanitized profile.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Session: Token pair and created profile
  - error: ValidationError, Conflict, Exhausted, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {

	// Feature flag: the whole operation can be switched off.
	if !service.options.RegistrationEnabled {
		return nil, apperr.ValidationError("Registration is currently disabled")
	}

	// Enrollment requires explicit terms acceptance.
	if !input.AcceptTerms {
		return nil, apperr.ValidationError("You must accept the terms of service",
			apperr.FieldError{Field: FieldAcceptTerms, Message: "must be accepted"})
	}

	// Verify email uniqueness against BOTH identifier columns: an email that
	// equals an existing account's username would make identifier login
	// ambiguous, so it conflicts the same way a duplicate email does.
	_, err := service.userRepository.FindByIdentifier(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_email_lookup_failed: %w", err)
	}

	// Derive a unique username from the email's local part.
	username, err := service.deriveUsername(context, input.Email)
	if err != nil {
		return nil, err
	}

	// Prevent storing plain-text passwords.
	hashedPassword, err := sec.HashPassword(input.Password, service.options.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	now := service.clock.Now()
	user := &User{
		ID:            uuid.New(),
		Email:         input.Email,
		Username:      username,
		PasswordHash:  hashedPassword,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Company:       input.Company,
		Position:      input.Position,
		PhoneNumber:   input.PhoneNumber,
		Role:          sec.RoleUser,
		IsActive:      true,
		EmailVerified: !service.options.EmailVerificationRequired,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Issue a pending verification token when the deployment demands it.
	if service.options.EmailVerificationRequired {
		verificationToken := uuid.Opaque()
		user.EmailVerificationToken = &verificationToken
	}

	// Persist the user. The unique constraints are the authority on races:
	// a concurrent registration of the same email or username surfaces here
	// as a Conflict regardless of the pre-checks above.
	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Hand the verification mail to the outbox. Best-effort: a queue failure
	// must not fail the registration.
	if user.EmailVerificationToken != nil {
		if err := service.mailer.SendEmailVerification(context, user.Email, *user.EmailVerificationToken); err != nil {
			service.logger.ErrorContext(context, "verification_mail_enqueue_failed",
				slog.String("user_id", user.ID), slog.Any("error", err))
		}
	}

	tokens, err := service.tokenIssuer.IssuePair(user.ID, user.Email, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_registered",
		slog.String("user_id", user.ID), slog.String("username", user.Username))

	return &Session{Tokens: tokens, User: user.Public()}, nil
}

// deriveUsername builds a unique username from the email's local part.
//
// The raw local part is tried first; on collision an integer suffix counts
// up (jane, jane1, jane2, ...). The loop is bounded: past
// [UsernameMaxAttempts] the caller gets an explicit Exhausted error.
func (service *Service) deriveUsername(context context.Context, email string) (string, error) {
	base := email
	if at := strings.Index(email, "@"); at >= 0 {
		base = email[:at]
	}

	for attempt := 0; attempt < UsernameMaxAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = base + strconv.Itoa(attempt)
		}

		_, err := service.userRepository.FindByUsername(context, candidate)
		if apperr.IsNotFound(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("auth_service_username_lookup_failed: %w", err)
		}
		// err == nil: the candidate is taken, try the next suffix.
	}

	return "", apperr.Exhausted("Could not derive a unique username for this email")
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Identifier string // Can be Username or Email
	Password   string
}

/*
Login validates user credentials and issues a fresh token pair.

Description: Resolves the account by email or username, performs the bcrypt
comparison, and records the login time. Unknown identifier, wrong password,
and deactivated account all collapse into ONE generic Unauthorized so a caller
cannot probe which accounts exist.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: Token pair and profile
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {

	// Flexible login: resolve by email OR username in one query.
	user, err := service.userRepository.FindByIdentifier(context, input.Identifier)

	// Generic message for every failure mode to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	// bcrypt comparison is constant-time by construction.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	// Record the successful authentication. Best-effort: the login must not
	// fail because a bookkeeping column could not be written.
	now := service.clock.Now()
	if err := service.userRepository.UpdateLastLogin(context, user.ID, now); err != nil {
		service.logger.ErrorContext(context, "last_login_update_failed",
			slog.String("user_id", user.ID), slog.Any("error", err))
	}
	user.LastLoginAt = &now

	tokens, err := service.tokenIssuer.IssuePair(user.ID, user.Email, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))

	return &Session{Tokens: tokens, User: user.Public()}, nil
}

// # Session Management

/*
Refresh exchanges a valid refresh token for a brand-new token pair.

Description: Verifies the refresh token's signature and expiry, resolves its
subject, and re-checks that the account still exists and is active. The old
refresh token is NOT invalidated; it stays usable until its natural expiry.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *Session: New token pair and current profile
  - error: Unauthorized or internal failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Session, error) {

	claims, err := service.tokenIssuer.VerifyRefresh(refreshToken)
	if err != nil {
		// Expired and malformed are logged distinctly but presented identically.
		service.logger.WarnContext(context, "refresh_token_rejected", slog.Any("error", err))
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// The subject must still resolve to a live account.
	user, err := service.userRepository.FindByID(context, claims.UserID())
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	tokens, err := service.tokenIssuer.IssuePair(user.ID, user.Email, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_generation_failed: %w", err)
	}

	return &Session{Tokens: tokens, User: user.Public()}, nil
}

/*
Logout acknowledges the end of a client session.

Description: Sessions are stateless — possession of an unexpired access token
IS the session — so there is no server-side state to destroy. The operation
exists so clients have a uniform sign-out hook; early token invalidation is
the RevocationSet extension point on the token service.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Always nil
*/
func (service *Service) Logout(context context.Context, userID string) error {
	service.logger.InfoContext(context, "user_logged_out", slog.String("user_id", userID))
	return nil
}

// # Password Recovery

// ResetConfirmation is the generic acknowledgment for the forgot-password
// flow. It MUST be byte-identical whether or not the email is registered.
const ResetConfirmation = "If this email is registered, a reset link has been sent."

/*
RequestPasswordReset initiates the forgot-password flow.

Description: For a known email, installs a fresh single-use reset ticket
(overwriting any pending one) and enqueues the reset mail. For an unknown
email it does nothing. Both paths report identical success so the endpoint
cannot be used to enumerate accounts.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Persistence failures only (unknown email is NOT an error)
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {

	user, err := service.userRepository.FindByEmail(context, email)
	if apperr.IsNotFound(err) {
		// Unknown email: silently succeed.
		return nil
	}
	if err != nil {
		return fmt.Errorf("auth_service_reset_lookup_failed: %w", err)
	}

	now := service.clock.Now()
	token := uuid.Opaque()
	expiresAt := now.Add(ResetTokenTTL)

	if err := service.userRepository.SetResetTicket(context, user.ID, token, expiresAt, now); err != nil {
		return fmt.Errorf("auth_service_save_reset_ticket_failed: %w", err)
	}

	// Best-effort dispatch: the mailer being down must not surface here,
	// otherwise the error itself would reveal that the email exists.
	if err := service.mailer.SendPasswordReset(context, user.Email, token); err != nil {
		service.logger.ErrorContext(context, "reset_mail_enqueue_failed",
			slog.String("user_id", user.ID), slog.Any("error", err))
	}

	service.logger.InfoContext(context, "password_reset_requested", slog.String("user_id", user.ID))

	return nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Hashes the new password and redeems the ticket in one atomic
conditional update. A token that is unknown, already used, or past its expiry
fails identically; under concurrent redemption exactly one caller wins.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string
  - confirmPassword: string

Returns:
  - error: ValidationError or storage failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword, confirmPassword string) error {

	if newPassword != confirmPassword {
		return apperr.ValidationError("Passwords do not match",
			apperr.FieldError{Field: FieldConfirmPassword, Message: "must match the new password"})
	}

	hashedPassword, err := sec.HashPassword(newPassword, service.options.BcryptCost)
	if err != nil {
		return fmt.Errorf("auth_service_reset_hash_failed: %w", err)
	}

	consumed, err := service.userRepository.ConsumeResetTicket(context, token, hashedPassword, service.clock.Now())
	if err != nil {
		return fmt.Errorf("auth_service_consume_reset_ticket_failed: %w", err)
	}

	// One message for unknown, spent, and expired tokens alike.
	if !consumed {
		return apperr.ValidationError("Invalid or expired reset token")
	}

	service.logger.InfoContext(context, "password_reset_consumed")

	return nil
}

// # Email Verification

/*
VerifyEmail confirms a user's email address using the pending token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: ValidationError or storage failures
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {

	consumed, err := service.userRepository.ConsumeVerificationToken(context, token, service.clock.Now())
	if err != nil {
		return fmt.Errorf("auth_service_verify_email_failed: %w", err)
	}

	if !consumed {
		return apperr.ValidationError("Invalid verification token")
	}

	service.logger.InfoContext(context, "email_verified")

	return nil
}
