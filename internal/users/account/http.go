// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

/*
Package account provides the HTTP delivery layer for profile management.

It implements the RESTful interface for users to interact with their own
account data and for administrators to browse the directory.

# Security

All endpoints in this package require an active authentication session provided
by the RequireAuth middleware; the directory listing additionally requires the
admin role.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vizitapp/vizit/internal/platform/apperr"
	"github.com/vizitapp/vizit/internal/platform/middleware"
	requestutil "github.com/vizitapp/vizit/internal/platform/request"
	"github.com/vizitapp/vizit/internal/platform/respond"
	"github.com/vizitapp/vizit/internal/platform/sec"
	"github.com/vizitapp/vizit/internal/platform/validate"
	"github.com/vizitapp/vizit/internal/users/auth"
	"github.com/vizitapp/vizit/pkg/pagination"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	// Account Management
	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)
	router.Delete("/me", handler.deleteMe)
	router.Put("/me/password", handler.changePassword)

	// Directory Administration
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/users", handler.listUsers)
		r.Get("/users/{id}", handler.getUser)
	})

	return router
}

// # User Profile Endpoints

/*
GET /api/v1/me.

Description: Retrieves the sanitized profile of the authenticated user.

Response:
  - 200: PublicUser: Profile projection
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.Public())
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	Email       *string `json:"email"`
	Username    *string `json:"username"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Company     *string `json:"company"`
	Position    *string `json:"position"`
	PhoneNumber *string `json:"phone_number"`
}

/*
PATCH /api/v1/me.

Description: Applies partial, allow-listed updates to the authenticated user's
profile. Absent fields stay untouched.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: PublicUser: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 409: ErrConflict: Email or username already taken
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if input.Email != nil {
		v.Required(auth.FieldEmail, *input.Email).Email(auth.FieldEmail, *input.Email)
	}
	if input.Username != nil {
		v.MinLen(auth.FieldUsername, *input.Username, 3).MaxLen(auth.FieldUsername, *input.Username, 30)
	}
	if input.FirstName != nil {
		v.Required(auth.FieldFirstName, *input.FirstName).MaxLen(auth.FieldFirstName, *input.FirstName, 100)
	}
	if input.LastName != nil {
		v.Required(auth.FieldLastName, *input.LastName).MaxLen(auth.FieldLastName, *input.LastName, 100)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Email:       input.Email,
		Username:    input.Username,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Company:     input.Company,
		Position:    input.Position,
		PhoneNumber: input.PhoneNumber,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.Public())
}

/*
DELETE /api/v1/me.

Description: Retires the authenticated user's account by anonymizing it.

Response:
  - 204: No Content: Account retired successfully
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// changePasswordRequest defines the payload for password rotation.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

/*
PUT /api/v1/me/password.

Description: Rotates the authenticated user's password after verifying the
current one.

Request:
  - body: changePasswordRequest (CurrentPassword, NewPassword, ConfirmPassword)

Response:
  - 200: Success: Password changed
  - 400: Validation: Weak password, mismatch, or wrong current password
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(auth.FieldCurrentPassword, input.CurrentPassword).
		Required(auth.FieldNewPassword, input.NewPassword).
		MinLen(auth.FieldNewPassword, input.NewPassword, auth.PasswordMinLength).
		Matches(auth.FieldConfirmPassword, input.ConfirmPassword, input.NewPassword, "must match the new password")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.accountService.ChangePassword(
		request.Context(),
		userID,
		input.CurrentPassword,
		input.NewPassword,
		input.ConfirmPassword,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		auth.FieldMessage: "Password changed successfully",
	})
}

// # Directory Administration Endpoints

/*
GET /api/v1/users.

Description: Lists the account directory, paginated, newest first. Admin only.

Request:
  - query: page, limit

Response:
  - 200: []PublicUser + pagination meta
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Admin role required
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, meta, err := handler.accountService.ListUsers(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, meta)
}

/*
GET /api/v1/users/{id}.

Description: Retrieves a specific account's sanitized profile. Admin only.

Request:
  - id: string (UUID)

Response:
  - 200: PublicUser: Profile projection
  - 404: ErrNotFound: Unknown account
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "id")
	if userID == "" {
		respond.Error(writer, request, apperr.NotFound("User"))
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.Public())
}
