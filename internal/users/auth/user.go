// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

/*
Package auth implements the user identity layer of the Vizit platform.

It defines the core account entity and the logic for registration, credential
verification, token-based sessions, and password recovery.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/vizitapp/vizit/internal/platform/sec"
)

// # Domain Entities

// User represents a registered holder of a Vizit digital business card.
//
// Credential and recovery material carries `json:"-"` so that an accidental
// direct serialization can never leak it; API responses additionally go
// through the [User.Public] allow-list projection.
type User struct {
	ID            string       `json:"id"`
	Email         string       `json:"email"`
	Username      string       `json:"username"`
	PasswordHash  string       `json:"-"`
	FirstName     string       `json:"first_name"`
	LastName      string       `json:"last_name"`
	Company       string       `json:"company,omitempty"`
	Position      string       `json:"position,omitempty"`
	PhoneNumber   string       `json:"phone_number,omitempty"`
	Role          sec.UserRole `json:"role"`
	IsActive      bool         `json:"is_active"`
	EmailVerified bool         `json:"email_verified"`

	// Single-use recovery and verification material. Nil when no flow is pending.
	EmailVerificationToken *string    `json:"-"`
	PasswordResetToken     *string    `json:"-"`
	PasswordResetExpires   *time.Time `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PublicUser is the client-facing projection of a [User].
//
// It is built by explicit field copy so that newly added entity fields are
// private until deliberately exposed here.
type PublicUser struct {
	ID            string       `json:"id"`
	Email         string       `json:"email"`
	Username      string       `json:"username"`
	FirstName     string       `json:"first_name"`
	LastName      string       `json:"last_name"`
	Company       string       `json:"company,omitempty"`
	Position      string       `json:"position,omitempty"`
	PhoneNumber   string       `json:"phone_number,omitempty"`
	Role          sec.UserRole `json:"role"`
	IsActive      bool         `json:"is_active"`
	EmailVerified bool         `json:"email_verified"`
	LastLoginAt   *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Public returns the sanitized, transport-safe view of the user.
func (user *User) Public() *PublicUser {
	return &PublicUser{
		ID:            user.ID,
		Email:         user.Email,
		Username:      user.Username,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Company:       user.Company,
		Position:      user.Position,
		PhoneNumber:   user.PhoneNumber,
		Role:          user.Role,
		IsActive:      user.IsActive,
		EmailVerified: user.EmailVerified,
		LastLoginAt:   user.LastLoginAt,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail           = "email"
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldAcceptTerms     = "accept_terms"
	FieldIdentifier      = "identifier"
	FieldToken           = "token"
	FieldRefreshToken    = "refresh_token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldMessage         = "message"
	FieldUser            = "user"
)
