// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain records shared by the gateway, the
// services and the HTTP layer: operators and their roles, articles,
// quarterly reports, contact submissions and assistant conversations.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Role is an operator's permission level.
type Role string

// Operator roles, lowest to highest.
const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// Roles lists the assignable roles in ascending order.
var Roles = []Role{RoleViewer, RoleEditor, RoleAdmin}

// Rank returns the numeric level of the role. Unknown roles rank 0.
func (r Role) Rank() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleEditor:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// AtLeast reports whether r grants the required role.
// An unknown required role is never satisfied.
func (r Role) AtLeast(required Role) bool {
	need := required.Rank()
	return need > 0 && r.Rank() >= need
}

// ParseRole parses a role name, case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Operator is the authenticated admin identity carried by a session.
type Operator struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// AdminUser is a row of the admin_users table as listed by the user manager.
type AdminUser struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

// Operator returns the session identity for the user.
func (u AdminUser) Operator() Operator {
	return Operator{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role}
}
