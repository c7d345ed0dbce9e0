// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/foundation-go/internal/middleware"
	"github.com/olegiv/foundation-go/internal/model"
	"github.com/olegiv/foundation-go/internal/service"
)

type roleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) writeUsers(w http.ResponseWriter, r *http.Request, status int) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load users")
		return
	}
	WriteJSON(w, status, Response{Data: users, Meta: &Meta{Total: len(users)}})
}

// ListUsers handles GET /admin/api/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.writeUsers(w, r, http.StatusOK)
}

// CreateUser handles POST /admin/api/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetOperator(r)
	if actor == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	var req service.NewUser
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.users.Create(r.Context(), *actor, req)
	if err != nil {
		writeServiceError(w, r, err, service.MsgCreateUserFailed)
		return
	}
	slog.InfoContext(r.Context(), "user created", "user_id", created.ID, "role", created.Role, "created_by", actor.ID)
	h.writeUsers(w, r, http.StatusCreated)
}

// ToggleUser handles POST /admin/api/users/{id}/toggle.
func (h *Handler) ToggleUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	active, err := h.users.ToggleActive(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update user")
		return
	}
	slog.InfoContext(r.Context(), "user active flag changed", "user_id", id, "active", active)
	h.writeUsers(w, r, http.StatusOK)
}

// SetUserRole handles PATCH /admin/api/users/{id}/role.
func (h *Handler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.users.UpdateRole(r.Context(), id, model.Role(req.Role)); err != nil {
		writeServiceError(w, r, err, "Failed to update user")
		return
	}
	slog.InfoContext(r.Context(), "user role changed", "user_id", id, "role", req.Role)
	h.writeUsers(w, r, http.StatusOK)
}
