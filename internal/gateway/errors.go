// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against *AuthError and *QueryError.
var (
	// ErrInvalidCredentials means the service rejected the credentials or
	// the token.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrServiceUnreachable means no HTTP response was received.
	ErrServiceUnreachable = errors.New("service unreachable")

	// ErrUnauthenticated means a query was attempted without a token.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrServiceError means the service answered with a non-2xx status.
	ErrServiceError = errors.New("service error")
)

// DefaultLoginError is shown when a failed login response carries no
// error message of its own.
const DefaultLoginError = "Login failed. Please check your credentials."

// =============================================================================
// AUTH ERRORS
// =============================================================================

// AuthErrorKind classifies authentication failures.
type AuthErrorKind int

const (
	InvalidCredentials AuthErrorKind = iota
	ServiceUnreachable
)

// String returns the kind name.
func (k AuthErrorKind) String() string {
	switch k {
	case InvalidCredentials:
		return "InvalidCredentials"
	case ServiceUnreachable:
		return "ServiceUnreachable"
	default:
		return "Unknown"
	}
}

// AuthError is returned by Login and Verify. Message is safe to show to
// the user as is.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	Status  int   // HTTP status, 0 when no response was received
	Err     error // underlying transport or decode error, if any
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *AuthError) Is(target error) bool {
	switch e.Kind {
	case InvalidCredentials:
		return target == ErrInvalidCredentials
	case ServiceUnreachable:
		return target == ErrServiceUnreachable
	}
	return false
}

// =============================================================================
// QUERY ERRORS
// =============================================================================

// QueryErrorKind classifies query and feedback failures.
type QueryErrorKind int

const (
	Unauthenticated QueryErrorKind = iota
	ServiceError
	QueryUnreachable
)

// String returns the kind name.
func (k QueryErrorKind) String() string {
	switch k {
	case Unauthenticated:
		return "Unauthenticated"
	case ServiceError:
		return "ServiceError"
	case QueryUnreachable:
		return "ServiceUnreachable"
	default:
		return "Unknown"
	}
}

// QueryError is returned by Ask and SubmitFeedback. It is logged, never
// shown to the user.
type QueryError struct {
	Kind    QueryErrorKind
	Status  int    // HTTP status for ServiceError
	Message string // service-provided error text, if any
	Err     error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	switch e.Kind {
	case Unauthenticated:
		return "query failed: not authenticated"
	case ServiceError:
		if e.Message != "" {
			return fmt.Sprintf("query failed: service error (HTTP %d): %s", e.Status, e.Message)
		}
		if e.Err != nil {
			return fmt.Sprintf("query failed: service error (HTTP %d): %v", e.Status, e.Err)
		}
		return fmt.Sprintf("query failed: service error (HTTP %d)", e.Status)
	default:
		return fmt.Sprintf("query failed: service unreachable: %v", e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *QueryError) Is(target error) bool {
	switch e.Kind {
	case Unauthenticated:
		return target == ErrUnauthenticated
	case ServiceError:
		return target == ErrServiceError
	case QueryUnreachable:
		return target == ErrServiceUnreachable
	}
	return false
}
