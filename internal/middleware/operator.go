// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/foundation-go/internal/auth"
	"github.com/olegiv/foundation-go/internal/logging"
	"github.com/olegiv/foundation-go/internal/model"
	"github.com/olegiv/foundation-go/internal/session"
)

// RequestPath stores the request path in the context for log records.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(logging.WithPath(r.Context(), r.URL.Path)))
	})
}

// StoreFunc returns the session store for a request.
type StoreFunc func(r *http.Request) session.Store

// LoadOperator bootstraps the authentication context for the request
// from its persisted admin session and puts it in the request context.
func LoadOperator(mgr *auth.Manager, store StoreFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac := mgr.Bootstrap(r.Context(), store(r))
			ctx := auth.WithContext(r.Context(), ac)
			if u := ac.User(); u != nil {
				ctx = logging.WithOperator(ctx, u.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOperator returns the signed-in operator, or nil.
func GetOperator(r *http.Request) *model.Operator {
	if ac := auth.FromContext(r.Context()); ac != nil {
		return ac.User()
	}
	return nil
}

// RequireOperator rejects requests without an authenticated operator.
func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac := auth.FromContext(r.Context())
		if ac == nil || !ac.IsAuthenticated() {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects operators below minRole. Roles are ordered
// viewer < editor < admin.
func RequireRole(minRole model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac := auth.FromContext(r.Context())
			if ac == nil || !ac.IsAuthenticated() {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
				return
			}
			if !ac.HasPermission(minRole) {
				u := ac.User()
				slog.WarnContext(r.Context(), "access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", u.ID,
					"user_role", u.Role,
					"required_role", minRole,
				)
				WriteAPIError(w, http.StatusForbidden, "forbidden", "Insufficient permissions", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
