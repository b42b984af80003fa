// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Concurrency Contract
//
// Unique-constraint classification matters here: two concurrent
// registrations with the same email can both pass an application-level
// existence check before either commits. The SQLSTATE 23505 raised at insert
// time is therefore the AUTHORITATIVE Conflict signal, not a defensive
// fallback.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vizitapp/vizit/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Parameters
//   - err: The raw pgx error.
//   - resource: Human-readable resource name for NOT_FOUND messages.
//   - conflictMessage: Client-safe message for unique-constraint violations.
func Wrap(err error, resource, conflictMessage string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Unique-constraint violations surface as client-visible conflicts
	if IsUniqueViolation(err) {
		return apperr.Conflict(conflictMessage)
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err carries PostgreSQL SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	var pgError *pgconn.PgError
	if !errors.As(err, &pgError) {
		return false
	}
	return pgError.Code == pgerrcode.UniqueViolation
}
