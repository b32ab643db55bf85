// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types the client renders and filters:
// users, blogs, comments, and the sector taxonomy. All content originates
// from the remote backend; these structs are the typed boundary for it.
package model

// User roles recognized by the client.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents the authenticated user as returned by the backend.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Valid reports whether the record is well-formed enough to start a
// session from. Partial records read back from storage fail this check.
func (u *User) Valid() bool {
	return u.ID != "" && u.Email != ""
}
