// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package functions implements the backend functions called through the
// gateway when the site runs against its own database: operator
// authentication and the visitor-facing assistant.
package functions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/foundation-go/internal/auth"
	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/model"
)

// Payload error messages.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgAccountDisabled    = "Account is disabled"
	msgUnauthorized       = "Unauthorized"
	msgAllFieldsRequired  = "All fields are required"
	msgPasswordTooShort   = "Password must be at least 8 characters"
	msgInvalidRole        = "Invalid role"
	msgDuplicateEmail     = "A user with this email already exists"
)

// credentialRow is an admin_users row including the password hash.
type credentialRow struct {
	model.AdminUser
	PasswordHash string `json:"password_hash"`
}

var credentialColumns = []string{"id", "email", "full_name", "role", "is_active", "last_login", "created_at", "password_hash"}

// AdminAuth is the admin-auth function.
type AdminAuth struct {
	tables gateway.Tables
	tokens *TokenSigner
	hasher *auth.Hasher
	now    func() time.Time
}

// NewAdminAuth returns the function bound to tables.
func NewAdminAuth(tables gateway.Tables, tokens *TokenSigner) *AdminAuth {
	return &AdminAuth{
		tables: tables,
		tokens: tokens,
		hasher: auth.NewHasher(auth.DefaultParams),
		now:    time.Now,
	}
}

// Handle dispatches on the request action.
func (a *AdminAuth) Handle(ctx context.Context, body json.RawMessage) (any, error) {
	var req model.AuthRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &gateway.FunctionError{Status: http.StatusBadRequest, Message: "invalid request body"}
	}

	switch req.Action {
	case model.AuthActionLogin:
		return a.login(ctx, req)
	case model.AuthActionValidate:
		return a.validate(ctx, req)
	case model.AuthActionCreateUser:
		return a.createUser(ctx, req)
	default:
		return nil, &gateway.FunctionError{Status: http.StatusBadRequest, Message: "unknown action"}
	}
}

func (a *AdminAuth) login(ctx context.Context, req model.AuthRequest) (any, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return model.AuthResponse{Error: msgInvalidCredentials}, nil
	}

	row, err := gateway.First[credentialRow](ctx, a.tables, model.TableAdminUsers, credentialColumns, gateway.Eq("email", email))
	if errors.Is(err, gateway.ErrNotFound) {
		// Burn comparable time so unknown emails are not distinguishable.
		_, _ = a.hasher.Hash(req.Password)
		return model.AuthResponse{Error: msgInvalidCredentials}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading operator: %w", err)
	}

	ok, err := a.hasher.Verify(req.Password, row.PasswordHash)
	if err != nil {
		slog.WarnContext(ctx, "stored password hash is unreadable", "user_id", row.ID, "error", err)
	}
	if !ok {
		return model.AuthResponse{Error: msgInvalidCredentials}, nil
	}
	if !row.IsActive {
		return model.AuthResponse{Error: msgAccountDisabled}, nil
	}

	now := a.now().UTC()
	patch := gateway.Record{"last_login": now}
	if a.hasher.NeedsRehash(row.PasswordHash) {
		if h, err := a.hasher.Hash(req.Password); err == nil {
			patch["password_hash"] = h
		}
	}
	if err := a.tables.Update(ctx, model.TableAdminUsers, patch, gateway.Eq("id", row.ID)); err != nil {
		slog.WarnContext(ctx, "stamping last login", "user_id", row.ID, "error", err)
	}

	token, exp, err := a.tokens.Issue(row.ID, now)
	if err != nil {
		return nil, err
	}
	op := row.Operator()
	return model.AuthResponse{
		Success:   true,
		User:      &op,
		Token:     token,
		ExpiresAt: exp.Format(time.RFC3339),
	}, nil
}

func (a *AdminAuth) validate(ctx context.Context, req model.AuthRequest) (any, error) {
	if req.Token == "" || req.UserID == "" {
		return model.AuthResponse{Valid: false}, nil
	}
	if err := a.tokens.Verify(req.Token, req.UserID, a.now()); err != nil {
		return model.AuthResponse{Valid: false}, nil
	}

	user, err := a.activeUser(ctx, req.UserID)
	if errors.Is(err, gateway.ErrNotFound) {
		return model.AuthResponse{Valid: false}, nil
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return model.AuthResponse{Valid: false}, nil
	}
	op := user.Operator()
	return model.AuthResponse{Valid: true, User: &op}, nil
}

func (a *AdminAuth) createUser(ctx context.Context, req model.AuthRequest) (any, error) {
	actor, err := a.activeUser(ctx, req.AdminUserID)
	if err != nil && !errors.Is(err, gateway.ErrNotFound) {
		return nil, err
	}
	if err != nil || !actor.IsActive || actor.Role != model.RoleAdmin {
		return model.AuthResponse{Error: msgUnauthorized}, nil
	}

	email := normalizeEmail(req.Email)
	fullName := strings.TrimSpace(req.FullName)
	if email == "" || req.Password == "" || fullName == "" {
		return model.AuthResponse{Error: msgAllFieldsRequired}, nil
	}
	if len(req.Password) < auth.MinPasswordLength {
		return model.AuthResponse{Error: msgPasswordTooShort}, nil
	}
	role := req.Role
	if role == "" {
		role = model.RoleViewer
	}
	if !role.Valid() {
		return model.AuthResponse{Error: msgInvalidRole}, nil
	}

	_, err = gateway.First[model.AdminUser](ctx, a.tables, model.TableAdminUsers, []string{"id"}, gateway.Eq("email", email))
	if err == nil {
		return model.AuthResponse{Error: msgDuplicateEmail}, nil
	}
	if !errors.Is(err, gateway.ErrNotFound) {
		return nil, err
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user, err := insertUser(ctx, a.tables, email, fullName, hash, role, a.now())
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "operator created", "user_id", user.ID, "role", role, "created_by", actor.ID)

	op := user.Operator()
	return model.AuthResponse{Success: true, User: &op}, nil
}

func (a *AdminAuth) activeUser(ctx context.Context, id string) (model.AdminUser, error) {
	if id == "" {
		return model.AdminUser{}, gateway.ErrNotFound
	}
	return gateway.First[model.AdminUser](ctx, a.tables, model.TableAdminUsers,
		[]string{"id", "email", "full_name", "role", "is_active"}, gateway.Eq("id", id))
}

func insertUser(ctx context.Context, t gateway.Tables, email, fullName, hash string, role model.Role, now time.Time) (model.AdminUser, error) {
	user := model.AdminUser{
		ID:        newID(),
		Email:     email,
		FullName:  fullName,
		Role:      role,
		IsActive:  true,
		CreatedAt: now.UTC(),
	}
	err := t.Insert(ctx, model.TableAdminUsers, gateway.Record{
		"id":            user.ID,
		"email":         user.Email,
		"full_name":     user.FullName,
		"password_hash": hash,
		"role":          user.Role,
		"is_active":     true,
		"created_at":    user.CreatedAt,
	})
	if err != nil {
		return model.AdminUser{}, fmt.Errorf("inserting operator: %w", err)
	}
	return user, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
