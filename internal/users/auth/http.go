// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vizitapp/vizit/internal/platform/middleware"
	requestutil "github.com/vizitapp/vizit/internal/platform/request"
	"github.com/vizitapp/vizit/internal/platform/respond"
	"github.com/vizitapp/vizit/internal/platform/sec"
	"github.com/vizitapp/vizit/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Login, Token Refresh, Password Recovery).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account and signs it in.
//   - POST /login    : Authenticates and returns a token pair.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/verify-email", handler.verifyEmail)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request & Response Payloads

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	PhoneNumber string `json:"phone_number"`
	AcceptTerms bool   `json:"accept_terms"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// sessionResponse flattens the token pair alongside the public profile.
type sessionResponse struct {
	*sec.TokenPair
	User *PublicUser `json:"user"`
}

func newSessionResponse(session *Session) sessionResponse {
	return sessionResponse{TokenPair: session.Tokens, User: session.User}
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, derives a unique username, persists the account,
and immediately signs the new member in.

Request:
  - Body: registerRequest (Email, Password, FirstName, LastName, AcceptTerms, ...)

Response:
  - 201: sessionResponse: Token pair and created profile
  - 400: ErrInvalidJSON: Bad input, validation failure, or terms not accepted
  - 409: ErrConflict: Email already exists (or username space exhausted)
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName).
		True(FieldAcceptTerms, input.AcceptTerms, "must be accepted")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Company:     input.Company,
		Position:    input.Position,
		PhoneNumber: input.PhoneNumber,
		AcceptTerms: input.AcceptTerms,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, newSessionResponse(session))
}

/*
Login authenticates a user and issues a token pair.

POST /api/v1/auth/login

Description: Verifies credentials against the stored bcrypt hash and returns
freshly signed access and refresh tokens.

Request:
  - Body: loginRequest (Identifier, Password)

Response:
  - 200: sessionResponse: Token pair and profile
  - 401: ErrUnauthorized: Invalid credentials (one message for every cause)
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldIdentifier, input.Identifier)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Identifier: input.Identifier,
		Password:   input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newSessionResponse(session))
}

/*
Refresh issues a new token pair using a valid refresh token.

POST /api/v1/auth/refresh

Description: Validates the refresh token from the JSON body and returns a
brand-new pair; the presented refresh token stays valid until its own expiry.

Request:
  - Body: refreshRequest (RefreshToken)

Response:
  - 200: sessionResponse: New token pair
  - 401: ErrUnauthorized: Missing, invalid, or expired refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError(FieldRefreshToken, "is required"))
		return
	}

	session, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newSessionResponse(session))
}

/*
Logout acknowledges the end of the current session.

POST /api/v1/auth/logout

Description: Stateless sign-out hook; the client discards its tokens.

Response:
  - 204: No Content: Session ended
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
VerifyEmail confirms a user's email ownership.

POST /api/v1/auth/verify-email

Description: Validates an email verification token and marks the account as verified.

Request:
  - Body: verifyEmailRequest (Token)

Response:
  - 200: Success: Email verified
  - 400: ErrInvalidJSON: Missing or invalid token
*/
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var input verifyEmailRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "is required"))
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Email verified successfully",
	})
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/auth/forgot-password

Description: Installs a reset ticket and enqueues the reset mail if the account
exists. The response body is byte-identical either way.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: Generic acknowledgment
  - 400: ErrInvalidJSON: Invalid email format
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: ResetConfirmation,
	})
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/auth/reset-password

Description: Redeems the single-use reset token and installs the new password.

Request:
  - Body: resetPasswordRequest (Token, Password, ConfirmPassword)

Response:
  - 200: Success: Password updated
  - 400: ErrInvalidJSON: Bad token, weak password, or confirmation mismatch
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldToken, input.Token).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		Matches(FieldConfirmPassword, input.ConfirmPassword, input.Password, "must match the new password")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password, input.ConfirmPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password updated successfully",
	})
}
