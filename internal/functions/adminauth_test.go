// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package functions

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/model"
)

func TestLoginSuccess(t *testing.T) {
	gw, aa := newTestGateway(t)
	id := addUser(t, gw, aa, "ed@example.org", "correct-pw", model.RoleEditor, true)

	resp := invokeAuth(t, gw, model.AuthRequest{Action: "login", Email: " Ed@Example.org ", Password: "correct-pw"})
	require.True(t, resp.Success, "error: %s", resp.Error)
	require.NotNil(t, resp.User)
	assert.Equal(t, id, resp.User.ID)
	assert.Equal(t, model.RoleEditor, resp.User.Role)
	assert.NotEmpty(t, resp.Token)

	exp, err := time.Parse(time.RFC3339, resp.ExpiresAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	user, err := gateway.First[model.AdminUser](context.Background(), gw, model.TableAdminUsers, nil, gateway.Eq("id", id))
	require.NoError(t, err)
	assert.NotNil(t, user.LastLogin, "login must stamp last_login")
}

func TestLoginFailures(t *testing.T) {
	gw, aa := newTestGateway(t)
	addUser(t, gw, aa, "ed@example.org", "correct-pw", model.RoleEditor, true)
	addUser(t, gw, aa, "gone@example.org", "correct-pw", model.RoleViewer, false)

	tests := []struct {
		name     string
		email    string
		password string
		want     string
	}{
		{"wrong password", "ed@example.org", "nope-nope", msgInvalidCredentials},
		{"unknown email", "who@example.org", "correct-pw", msgInvalidCredentials},
		{"empty", "", "", msgInvalidCredentials},
		{"disabled", "gone@example.org", "correct-pw", msgAccountDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := invokeAuth(t, gw, model.AuthRequest{Action: "login", Email: tt.email, Password: tt.password})
			assert.False(t, resp.Success)
			assert.Equal(t, tt.want, resp.Error)
			assert.Empty(t, resp.Token)
		})
	}
}

func TestValidate(t *testing.T) {
	gw, aa := newTestGateway(t)
	id := addUser(t, gw, aa, "ed@example.org", "correct-pw", model.RoleEditor, true)
	login := invokeAuth(t, gw, model.AuthRequest{Action: "login", Email: "ed@example.org", Password: "correct-pw"})
	require.True(t, login.Success)

	ok := invokeAuth(t, gw, model.AuthRequest{Action: "validate", Token: login.Token, UserID: id})
	assert.True(t, ok.Valid)
	require.NotNil(t, ok.User)
	assert.Equal(t, "ed@example.org", ok.User.Email)

	wrongUser := invokeAuth(t, gw, model.AuthRequest{Action: "validate", Token: login.Token, UserID: "someone-else"})
	assert.False(t, wrongUser.Valid)

	forged := invokeAuth(t, gw, model.AuthRequest{Action: "validate", Token: login.Token + "x", UserID: id})
	assert.False(t, forged.Valid)

	require.NoError(t, gw.Update(context.Background(), model.TableAdminUsers,
		gateway.Record{"is_active": false}, gateway.Eq("id", id)))
	disabled := invokeAuth(t, gw, model.AuthRequest{Action: "validate", Token: login.Token, UserID: id})
	assert.False(t, disabled.Valid, "deactivated operators lose their sessions")
}

func TestValidateExpiredToken(t *testing.T) {
	gw, aa := newTestGateway(t)
	id := addUser(t, gw, aa, "ed@example.org", "correct-pw", model.RoleEditor, true)

	token, _, err := aa.tokens.Issue(id, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	resp := invokeAuth(t, gw, model.AuthRequest{Action: "validate", Token: token, UserID: id})
	assert.False(t, resp.Valid)
}

func TestCreateUser(t *testing.T) {
	gw, aa := newTestGateway(t)
	adminID := addUser(t, gw, aa, "admin@example.org", "admin-pass", model.RoleAdmin, true)
	editorID := addUser(t, gw, aa, "ed@example.org", "editor-pass", model.RoleEditor, true)

	tests := []struct {
		name    string
		req     model.AuthRequest
		wantErr string
	}{
		{
			name: "created",
			req:  model.AuthRequest{Email: "new@example.org", Password: "long-enough", FullName: "New Person", Role: model.RoleEditor, AdminUserID: adminID},
		},
		{
			name:    "duplicate",
			req:     model.AuthRequest{Email: "NEW@example.org", Password: "long-enough", FullName: "Again", AdminUserID: adminID},
			wantErr: msgDuplicateEmail,
		},
		{
			name:    "not admin",
			req:     model.AuthRequest{Email: "x@example.org", Password: "long-enough", FullName: "X", AdminUserID: editorID},
			wantErr: msgUnauthorized,
		},
		{
			name:    "no actor",
			req:     model.AuthRequest{Email: "x@example.org", Password: "long-enough", FullName: "X"},
			wantErr: msgUnauthorized,
		},
		{
			name:    "missing name",
			req:     model.AuthRequest{Email: "x@example.org", Password: "long-enough", AdminUserID: adminID},
			wantErr: msgAllFieldsRequired,
		},
		{
			name:    "short password",
			req:     model.AuthRequest{Email: "x@example.org", Password: "short", FullName: "X", AdminUserID: adminID},
			wantErr: msgPasswordTooShort,
		},
		{
			name:    "bad role",
			req:     model.AuthRequest{Email: "x@example.org", Password: "long-enough", FullName: "X", Role: "owner", AdminUserID: adminID},
			wantErr: msgInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Action = "create_user"
			resp := invokeAuth(t, gw, tt.req)
			assert.Equal(t, tt.wantErr, resp.Error)
			assert.Equal(t, tt.wantErr == "", resp.Success)
		})
	}

	login := invokeAuth(t, gw, model.AuthRequest{Action: "login", Email: "new@example.org", Password: "long-enough"})
	assert.True(t, login.Success, "created operator can sign in")
	assert.Equal(t, model.RoleEditor, login.User.Role)
}

func TestUnknownAction(t *testing.T) {
	gw, _ := newTestGateway(t)
	err := gw.Invoke(context.Background(), model.FunctionAdminAuth, model.AuthRequest{Action: "reset"}, nil)
	assert.True(t, isFunctionStatus(err, http.StatusBadRequest), "error = %v", err)
}

func TestSeedAdmin(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	created, err := SeedAdmin(ctx, gw, "Root@Example.org", "first-password", "Root")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = SeedAdmin(ctx, gw, "other@example.org", "second-password", "Other")
	require.NoError(t, err)
	assert.False(t, created, "seed runs only on an empty table")

	// Hash parameters are read from the stored hash, not the login hasher.
	resp := invokeAuth(t, gw, model.AuthRequest{Action: "login", Email: "root@example.org", Password: "first-password"})
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
}
