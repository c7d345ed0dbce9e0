// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/olegiv/foundation-go/internal/auth"
	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/model"
)

// Operator-facing messages for user creation.
const (
	MsgAllFieldsRequired = "All fields are required"
	MsgPasswordTooShort  = "Password must be at least 8 characters"
	MsgCreateUserFailed  = "Failed to create user"
)

var userColumns = []string{"id", "email", "full_name", "role", "is_active", "last_login", "created_at"}

// NewUser is the user-creation form.
type NewUser struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	FullName string     `json:"fullName"`
	Role     model.Role `json:"role"`
}

// CreateUserError carries the message to show when creation is refused.
type CreateUserError struct {
	Message string
}

func (e *CreateUserError) Error() string {
	return "create user: " + e.Message
}

// UserService manages operator accounts.
type UserService struct {
	gw gateway.Gateway
}

// NewUserService creates a new UserService.
func NewUserService(gw gateway.Gateway) *UserService {
	return &UserService{gw: gw}
}

// List returns all operators, newest first, without password hashes.
func (s *UserService) List(ctx context.Context) ([]model.AdminUser, error) {
	rows, err := gateway.List[model.AdminUser](ctx, s.gw, model.TableAdminUsers, gateway.Query{
		Columns: userColumns,
		Order:   []gateway.Order{{Column: "created_at", Desc: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return rows, nil
}

// Create asks the admin-auth function to create an operator on behalf of actor.
func (s *UserService) Create(ctx context.Context, actor model.Operator, u NewUser) (model.Operator, error) {
	if blank(u.Email) || u.Password == "" || blank(u.FullName) {
		return model.Operator{}, &CreateUserError{Message: MsgAllFieldsRequired}
	}
	if len(u.Password) < auth.MinPasswordLength {
		return model.Operator{}, &CreateUserError{Message: MsgPasswordTooShort}
	}
	if u.Role == "" {
		u.Role = model.RoleViewer
	}
	if !u.Role.Valid() {
		return model.Operator{}, ErrInvalidRole
	}

	var resp model.AuthResponse
	err := s.gw.Invoke(ctx, model.FunctionAdminAuth, model.AuthRequest{
		Action:      model.AuthActionCreateUser,
		Email:       strings.TrimSpace(u.Email),
		Password:    u.Password,
		FullName:    strings.TrimSpace(u.FullName),
		Role:        u.Role,
		AdminUserID: actor.ID,
	}, &resp)
	if err != nil {
		slog.ErrorContext(ctx, "create_user failed", "actor_id", actor.ID, "error", err)
		return model.Operator{}, &CreateUserError{Message: MsgCreateUserFailed}
	}
	if resp.Error != "" {
		return model.Operator{}, &CreateUserError{Message: resp.Error}
	}
	if !resp.Success || resp.User == nil {
		return model.Operator{}, &CreateUserError{Message: MsgCreateUserFailed}
	}
	return *resp.User, nil
}

// ToggleActive flips an operator's is_active flag and returns the new value.
func (s *UserService) ToggleActive(ctx context.Context, id string) (bool, error) {
	u, err := gateway.First[model.AdminUser](ctx, s.gw, model.TableAdminUsers, []string{"id", "is_active"}, gateway.Eq("id", id))
	if err != nil {
		return false, err
	}
	active := !u.IsActive
	if err := s.gw.Update(ctx, model.TableAdminUsers, gateway.Record{"is_active": active}, gateway.Eq("id", id)); err != nil {
		return u.IsActive, fmt.Errorf("toggling user %s: %w", id, err)
	}
	return active, nil
}

// UpdateRole changes an operator's role.
func (s *UserService) UpdateRole(ctx context.Context, id string, role model.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if err := s.gw.Update(ctx, model.TableAdminUsers, gateway.Record{"role": role}, gateway.Eq("id", id)); err != nil {
		return fmt.Errorf("updating user %s role: %w", id, err)
	}
	return nil
}
