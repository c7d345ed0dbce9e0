// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/foundation-go/internal/auth"
	"github.com/olegiv/foundation-go/internal/model"
	"github.com/olegiv/foundation-go/internal/obs"
)

// Section is one area of the admin dashboard.
type Section struct {
	Key     string     `json:"key"`
	Label   string     `json:"label"`
	MinRole model.Role `json:"minRole"`
}

// Sections lists the dashboard areas in display order.
var Sections = []Section{
	{Key: "overview", Label: "Overview", MinRole: model.RoleViewer},
	{Key: "news", Label: "News", MinRole: model.RoleEditor},
	{Key: "contacts", Label: "Contacts", MinRole: model.RoleViewer},
	{Key: "conversations", Label: "AI Conversations", MinRole: model.RoleViewer},
	{Key: "reports", Label: "Reports", MinRole: model.RoleEditor},
	{Key: "users", Label: "Users", MinRole: model.RoleAdmin},
}

// VisibleSections returns the sections ac may open.
func VisibleSections(ac *auth.Context) []Section {
	out := make([]Section, 0, len(Sections))
	for _, s := range Sections {
		if ac.HasPermission(s.MinRole) {
			out = append(out, s)
		}
	}
	return out
}

// MeResponse describes the signed-in operator. Ranks carries the role
// hierarchy so clients compare levels instead of role names.
type MeResponse struct {
	User     *model.Operator    `json:"user"`
	Sections []Section          `json:"sections"`
	Ranks    map[model.Role]int `json:"ranks"`
}

func newMeResponse(user *model.Operator, ac *auth.Context) MeResponse {
	ranks := make(map[model.Role]int, len(model.Roles))
	for _, role := range model.Roles {
		ranks[role] = role.Rank()
	}
	return MeResponse{User: user, Sections: VisibleSections(ac), Ranks: ranks}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) authContext(r *http.Request) *auth.Context {
	if ac := auth.FromContext(r.Context()); ac != nil {
		return ac
	}
	return h.auth.Bootstrap(r.Context(), h.store(r))
}

// Login handles POST /admin/api/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		WriteValidationError(w, "Email and password are required", nil)
		return
	}

	if locked, remaining := h.protection.IsAccountLocked(ctx, email); locked {
		obs.ObserveLogin(obs.OutcomeLocked)
		writeLocked(w, remaining)
		return
	}

	if h.sessions != nil {
		if err := h.sessions.RenewToken(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to renew session token", "error", err)
			WriteInternalError(w, "Failed to start session")
			return
		}
	}

	ac := h.authContext(r)
	res := ac.Login(ctx, email, req.Password)
	if !res.Success {
		if locked, d := h.protection.RecordFailedAttempt(ctx, email); locked {
			obs.ObserveLogin(obs.OutcomeLocked)
			writeLocked(w, d)
			return
		}
		obs.ObserveLogin(obs.OutcomeFailed)
		slog.InfoContext(ctx, "admin login failed", "email", email, "reason", res.Error)
		WriteError(w, http.StatusUnauthorized, "login_failed", res.Error, nil)
		return
	}

	h.protection.RecordSuccessfulLogin(ctx, email)
	obs.ObserveLogin(obs.OutcomeOK)
	user := ac.User()
	slog.InfoContext(ctx, "admin signed in", "user_id", user.ID, "role", user.Role)
	WriteSuccess(w, newMeResponse(user, ac), nil)
}

func writeLocked(w http.ResponseWriter, remaining time.Duration) {
	minutes := int(math.Ceil(remaining.Minutes()))
	WriteError(w, http.StatusTooManyRequests, "account_locked",
		fmt.Sprintf("Account temporarily locked. Try again in %d minutes.", minutes), nil)
}

// Logout handles POST /admin/api/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ac := h.authContext(r)
	if u := ac.User(); u != nil {
		slog.InfoContext(r.Context(), "admin signed out", "user_id", u.ID)
	}
	ac.Logout(r.Context())
	WriteSuccess(w, map[string]bool{"signedOut": true}, nil)
}

// Me handles GET /admin/api/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ac := h.authContext(r)
	WriteSuccess(w, newMeResponse(ac.User(), ac), nil)
}
