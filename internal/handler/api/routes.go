// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/foundation-go/internal/middleware"
	"github.com/olegiv/foundation-go/internal/model"
)

// Routes returns the admin API router, meant to be mounted at /admin/api.
// Every request bootstraps the operator from its session; role gates
// follow the dashboard sections.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.LoadOperator(h.auth, h.store))

	r.With(h.protection.Middleware()).Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.With(middleware.RequireOperator).Get("/me", h.Me)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(model.RoleViewer))
		r.Get("/dashboard", h.Dashboard)
		r.Get("/contacts", h.ListContacts)
		r.Get("/contacts/{id}", h.OpenContact)
		r.Get("/conversations", h.ListConversations)
		r.Get("/conversations/{sessionID}", h.GetConversation)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(model.RoleEditor))
		r.Get("/articles", h.ListArticles)
		r.Post("/articles", h.CreateArticle)
		r.Get("/articles/{id}", h.GetArticle)
		r.Put("/articles/{id}", h.UpdateArticle)
		r.Patch("/articles/{id}/status", h.SetArticleStatus)
		r.Delete("/articles/{id}", h.DeleteArticle)

		r.Get("/reports", h.ListReports)
		r.Post("/reports", h.CreateReport)
		r.Put("/reports/{id}", h.UpdateReport)
		r.Post("/reports/{id}/publish", h.PublishReport)
		r.Delete("/reports/{id}", h.DeleteReport)

		r.Patch("/contacts/{id}/status", h.SetContactStatus)
		r.Put("/contacts/{id}/notes", h.SaveContactNotes)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(model.RoleAdmin))
		r.Get("/users", h.ListUsers)
		r.Post("/users", h.CreateUser)
		r.Post("/users/{id}/toggle", h.ToggleUser)
		r.Patch("/users/{id}/role", h.SetUserRole)
	})

	return r
}
