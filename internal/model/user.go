// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// USER ROLE
// =============================================================================

// UserRole is the service-assigned role of the signed-in user.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
	// RoleAgent is issued to service desk agents; it is displayed like
	// RoleUser.
	RoleAgent UserRole = "agent"
)

// String returns the role name.
func (r UserRole) String() string {
	return string(r)
}

// IsAdmin reports whether the role gets the admin badge.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// =============================================================================
// USER
// =============================================================================

// User is the profile returned by the authentication service. It is only
// kept for the lifetime of the chat view.
type User struct {
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email,omitempty"`
}

// DisplayName returns the name shown in the header, falling back to the
// username when the service sent no display name.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return "User"
}

// EffectiveRole returns the role, defaulting to RoleUser when empty.
func (u User) EffectiveRole() UserRole {
	if u.Role == "" {
		return RoleUser
	}
	return u.Role
}
