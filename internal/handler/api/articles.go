// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/foundation-go/internal/model"
	"github.com/olegiv/foundation-go/internal/service"
)

// ArticleList is the news manager view.
type ArticleList struct {
	Articles   []model.Article `json:"articles"`
	Categories []string        `json:"categories"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// ListArticles handles GET /admin/api/articles?status=.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	h.writeArticles(w, r, http.StatusOK)
}

// writeArticles fetches all articles and writes them filtered by the
// status query parameter.
func (h *Handler) writeArticles(w http.ResponseWriter, r *http.Request, status int) {
	all, err := h.articles.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load articles")
		return
	}
	list := service.FilterArticles(all, r.URL.Query().Get("status"))
	WriteJSON(w, status, Response{
		Data: ArticleList{Articles: list, Categories: model.ArticleCategories},
		Meta: &Meta{Total: len(all)},
	})
}

// GetArticle handles GET /admin/api/articles/{id}.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := h.articles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to load article")
		return
	}
	WriteSuccess(w, a, nil)
}

// CreateArticle handles POST /admin/api/articles.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var d service.ArticleDraft
	if !decodeJSON(w, r, &d) {
		return
	}
	d.ID = ""
	if err := h.articles.Save(r.Context(), d); err != nil {
		writeServiceError(w, r, err, "Failed to save article")
		return
	}
	h.writeArticles(w, r, http.StatusCreated)
}

// UpdateArticle handles PUT /admin/api/articles/{id}.
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var d service.ArticleDraft
	if !decodeJSON(w, r, &d) {
		return
	}
	d.ID = chi.URLParam(r, "id")
	if err := h.articles.Save(r.Context(), d); err != nil {
		writeServiceError(w, r, err, "Failed to save article")
		return
	}
	h.writeArticles(w, r, http.StatusOK)
}

// SetArticleStatus handles PATCH /admin/api/articles/{id}/status.
func (h *Handler) SetArticleStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.articles.SetStatus(r.Context(), chi.URLParam(r, "id"), model.ArticleStatus(req.Status)); err != nil {
		writeServiceError(w, r, err, "Failed to update article")
		return
	}
	h.writeArticles(w, r, http.StatusOK)
}

// DeleteArticle handles DELETE /admin/api/articles/{id}.
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.articles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, "Failed to delete article")
		return
	}
	h.writeArticles(w, r, http.StatusOK)
}
