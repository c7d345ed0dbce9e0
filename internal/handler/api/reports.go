// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/foundation-go/internal/service"
)

func (h *Handler) writeReports(w http.ResponseWriter, r *http.Request, status int) {
	reports, err := h.reports.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load reports")
		return
	}
	WriteJSON(w, status, Response{Data: reports, Meta: &Meta{Total: len(reports)}})
}

// ListReports handles GET /admin/api/reports.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	h.writeReports(w, r, http.StatusOK)
}

// CreateReport handles POST /admin/api/reports.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var d service.ReportDraft
	if !decodeJSON(w, r, &d) {
		return
	}
	d.ID = ""
	if err := h.reports.Save(r.Context(), d); err != nil {
		writeServiceError(w, r, err, "Failed to save report")
		return
	}
	h.writeReports(w, r, http.StatusCreated)
}

// UpdateReport handles PUT /admin/api/reports/{id}.
func (h *Handler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	var d service.ReportDraft
	if !decodeJSON(w, r, &d) {
		return
	}
	d.ID = chi.URLParam(r, "id")
	if err := h.reports.Save(r.Context(), d); err != nil {
		writeServiceError(w, r, err, "Failed to save report")
		return
	}
	h.writeReports(w, r, http.StatusOK)
}

// PublishReport handles POST /admin/api/reports/{id}/publish.
func (h *Handler) PublishReport(w http.ResponseWriter, r *http.Request) {
	if err := h.reports.Publish(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, "Failed to publish report")
		return
	}
	h.writeReports(w, r, http.StatusOK)
}

// DeleteReport handles DELETE /admin/api/reports/{id}.
func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := h.reports.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, "Failed to delete report")
		return
	}
	h.writeReports(w, r, http.StatusOK)
}
