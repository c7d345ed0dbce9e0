// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/foundation-go/internal/middleware"
	"github.com/olegiv/foundation-go/internal/model"
)

func sectionKeys(sections []Section) []string {
	keys := make([]string, 0, len(sections))
	for _, s := range sections {
		keys = append(keys, s.Key)
	}
	return keys
}

func TestLoginAndMe(t *testing.T) {
	ta := newTestAPI(t, nil)

	rr := ta.do(t, "admin", http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ta.login(t, "admin", adminEmail, adminPassword)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	me := decode[envelope[MeResponse]](t, rr).Data
	require.NotNil(t, me.User)
	assert.Equal(t, model.RoleAdmin, me.User.Role)
	assert.Equal(t, []string{"overview", "news", "contacts", "conversations", "reports", "users"}, sectionKeys(me.Sections))
	assert.Equal(t, map[model.Role]int{model.RoleViewer: 1, model.RoleEditor: 2, model.RoleAdmin: 3}, me.Ranks)

	rr = ta.do(t, "admin", http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, adminEmail, decode[envelope[MeResponse]](t, rr).Data.User.Email)

	// Another browser holds no session.
	assert.Equal(t, http.StatusUnauthorized, ta.do(t, "other", http.MethodGet, "/me", nil).Code)
}

func TestLoginFailures(t *testing.T) {
	ta := newTestAPI(t, nil)

	rr := ta.login(t, "admin", adminEmail, "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	body := decode[envelope[any]](t, rr)
	require.NotNil(t, body.Error)
	assert.Equal(t, "Invalid email or password", body.Error.Message)

	rr = ta.login(t, "admin", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = ta.do(t, "admin", http.MethodPost, "/login", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginLockout(t *testing.T) {
	protection := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       1000,
		IPBurst:           1000,
		MaxFailedAttempts: 3,
		LockoutDuration:   10 * time.Minute,
	}, nil)
	ta := newTestAPI(t, protection)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusUnauthorized, ta.login(t, "admin", adminEmail, "wrong").Code)
	}
	rr := ta.login(t, "admin", adminEmail, "wrong")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "account_locked", decode[envelope[any]](t, rr).Error.Code)

	// Even the right password is refused while locked.
	rr = ta.login(t, "admin", adminEmail, adminPassword)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, decode[envelope[any]](t, rr).Error.Message, "10 minutes")
}

func TestLogout(t *testing.T) {
	ta := signedInAPI(t)

	rr := ta.do(t, "admin", http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, http.StatusUnauthorized, ta.do(t, "admin", http.MethodGet, "/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ta.do(t, "admin", http.MethodGet, "/dashboard", nil).Code)
}

func TestRoleGates(t *testing.T) {
	ta := signedInAPI(t)
	viewer := ta.addOperator(t, model.RoleViewer)
	editor := ta.addOperator(t, model.RoleEditor)

	tests := []struct {
		browser string
		method  string
		path    string
		want    int
	}{
		{viewer, http.MethodGet, "/dashboard", http.StatusOK},
		{viewer, http.MethodGet, "/contacts", http.StatusOK},
		{viewer, http.MethodGet, "/conversations", http.StatusOK},
		{viewer, http.MethodGet, "/articles", http.StatusForbidden},
		{viewer, http.MethodGet, "/reports", http.StatusForbidden},
		{viewer, http.MethodGet, "/users", http.StatusForbidden},
		{editor, http.MethodGet, "/articles", http.StatusOK},
		{editor, http.MethodGet, "/reports", http.StatusOK},
		{editor, http.MethodGet, "/users", http.StatusForbidden},
		{"admin", http.MethodGet, "/users", http.StatusOK},
		{"anonymous", http.MethodGet, "/dashboard", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.browser+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ta.do(t, tt.browser, tt.method, tt.path, nil).Code)
		})
	}

	me := decode[envelope[MeResponse]](t, ta.do(t, viewer, http.MethodGet, "/me", nil)).Data
	assert.Equal(t, []string{"overview", "contacts", "conversations"}, sectionKeys(me.Sections))
	me = decode[envelope[MeResponse]](t, ta.do(t, editor, http.MethodGet, "/me", nil)).Data
	assert.Equal(t, []string{"overview", "news", "contacts", "conversations", "reports"}, sectionKeys(me.Sections))
}
