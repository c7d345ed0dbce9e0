// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON API behind the admin dashboard.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/foundation-go/internal/auth"
	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/middleware"
	"github.com/olegiv/foundation-go/internal/service"
)

const maxBodyBytes = 1 << 20

// Handler holds shared dependencies for all admin API handlers.
type Handler struct {
	auth       *auth.Manager
	store      middleware.StoreFunc
	sessions   *scs.SessionManager
	protection *middleware.LoginProtection

	articles      *service.ArticleService
	reports       *service.ReportService
	contacts      *service.ContactService
	users         *service.UserService
	conversations *service.ConversationService
	dashboard     *service.DashboardService
}

// Config wires a Handler.
type Config struct {
	Auth  *auth.Manager
	Store middleware.StoreFunc
	// Sessions, when set, has its token renewed on login.
	Sessions   *scs.SessionManager
	Protection *middleware.LoginProtection
	Gateway    gateway.Gateway
}

// NewHandler creates a new API handler with services over cfg.Gateway.
func NewHandler(cfg Config) *Handler {
	protection := cfg.Protection
	if protection == nil {
		protection = middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig(), nil)
	}
	return &Handler{
		auth:          cfg.Auth,
		store:         cfg.Store,
		sessions:      cfg.Sessions,
		protection:    protection,
		articles:      service.NewArticleService(cfg.Gateway),
		reports:       service.NewReportService(cfg.Gateway),
		contacts:      service.NewContactService(cfg.Gateway),
		users:         service.NewUserService(cfg.Gateway),
		conversations: service.NewConversationService(cfg.Gateway),
		dashboard:     service.NewDashboardService(cfg.Gateway),
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains list totals.
type Meta struct {
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusCreated, Response{Data: data, Meta: meta})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response.
func WriteValidationError(w http.ResponseWriter, message string, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", message, fieldErrors)
}

// decodeJSON reads a JSON body into v. On failure a 400 has been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

var validationMessages = map[error]string{
	service.ErrMissingFields:   "Please fill in all required fields",
	service.ErrInvalidStatus:   "Invalid status",
	service.ErrInvalidQuarter:  "Quarter must be one of Q1, Q2, Q3 or Q4",
	service.ErrInvalidYear:     "Invalid year",
	service.ErrInvalidRole:     "Role must be viewer, editor or admin",
	service.ErrInvalidCategory: "Invalid category",
}

// writeServiceError maps a service failure to a response. Validation
// errors answer 422, missing rows 404, anything else is logged and
// answers 500 with failMsg.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, failMsg string) {
	for sentinel, msg := range validationMessages {
		if errors.Is(err, sentinel) {
			WriteValidationError(w, msg, nil)
			return
		}
	}

	var createErr *service.CreateUserError
	switch {
	case errors.As(err, &createErr):
		WriteValidationError(w, createErr.Message, nil)
	case errors.Is(err, gateway.ErrNotFound):
		WriteNotFound(w, "Not found")
	default:
		slog.ErrorContext(r.Context(), failMsg, "error", err)
		WriteInternalError(w, failMsg)
	}
}
