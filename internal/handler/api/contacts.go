// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/foundation-go/internal/model"
	"github.com/olegiv/foundation-go/internal/service"
)

type notesRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) writeContacts(w http.ResponseWriter, r *http.Request) {
	all, err := h.contacts.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load contact submissions")
		return
	}
	WriteSuccess(w, service.FilterContacts(all, r.URL.Query().Get("status")), &Meta{
		Total:  len(all),
		Counts: service.StatusCounts(all),
	})
}

// ListContacts handles GET /admin/api/contacts?status=. Meta carries the
// per-status counts over every submission.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	h.writeContacts(w, r)
}

// OpenContact handles GET /admin/api/contacts/{id}. Opening a new
// submission marks it read.
func (h *Handler) OpenContact(w http.ResponseWriter, r *http.Request) {
	c, err := h.contacts.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to load contact submission")
		return
	}
	WriteSuccess(w, c, nil)
}

// SetContactStatus handles PATCH /admin/api/contacts/{id}/status.
func (h *Handler) SetContactStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.contacts.SetStatus(r.Context(), chi.URLParam(r, "id"), model.ContactStatus(req.Status)); err != nil {
		writeServiceError(w, r, err, "Failed to update contact submission")
		return
	}
	h.writeContacts(w, r)
}

// SaveContactNotes handles PUT /admin/api/contacts/{id}/notes.
func (h *Handler) SaveContactNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.contacts.SaveNotes(r.Context(), chi.URLParam(r, "id"), req.Notes); err != nil {
		writeServiceError(w, r, err, "Failed to save notes")
		return
	}
	h.writeContacts(w, r)
}
