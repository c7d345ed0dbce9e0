// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package functions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/foundation-go/internal/auth"
	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/model"
)

func newID() string {
	return uuid.NewString()
}

// SeedAdmin creates an admin operator when admin_users is empty.
// It reports whether a user was created.
func SeedAdmin(ctx context.Context, t gateway.Tables, email, password, fullName string) (bool, error) {
	_, err := gateway.First[model.AdminUser](ctx, t, model.TableAdminUsers, []string{"id"})
	if err == nil {
		slog.Info("admin users exist, skipping seed")
		return false, nil
	}
	if !errors.Is(err, gateway.ErrNotFound) {
		return false, fmt.Errorf("checking admin users: %w", err)
	}

	if len(password) < auth.MinPasswordLength {
		return false, fmt.Errorf("seed password must be at least %d characters", auth.MinPasswordLength)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hashing password: %w", err)
	}

	user, err := insertUser(ctx, t, normalizeEmail(email), fullName, hash, model.RoleAdmin, time.Now())
	if err != nil {
		return false, err
	}
	slog.Info("created initial admin user", "id", user.ID, "email", user.Email)
	return true, nil
}
