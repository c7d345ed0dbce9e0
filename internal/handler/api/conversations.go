// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/foundation-go/internal/service"
)

// SessionSummary is one row of the conversation list.
type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"`
	FirstMessage time.Time `json:"first_message"`
	LastActivity time.Time `json:"last_activity"`
}

// ConversationList is the conversation log view.
type ConversationList struct {
	Sessions []SessionSummary          `json:"sessions"`
	Stats    service.ConversationStats `json:"stats"`
}

// ListConversations handles GET /admin/api/conversations?q=. Stats cover
// every fetched exchange regardless of the filter.
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.conversations.Recent(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load conversations")
		return
	}
	sessions := service.FilterSessions(service.GroupSessions(rows), r.URL.Query().Get("q"))

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, SessionSummary{
			SessionID:    s.SessionID,
			MessageCount: s.MessageCount(),
			Preview:      s.Preview(),
			FirstMessage: s.FirstMessage,
			LastActivity: s.LastActivity,
		})
	}
	WriteSuccess(w, ConversationList{Sessions: summaries, Stats: service.Stats(rows)}, &Meta{Total: len(summaries)})
}

// GetConversation handles GET /admin/api/conversations/{sessionID}.
func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	rows, err := h.conversations.Recent(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load conversations")
		return
	}
	sess, ok := service.FindSession(service.GroupSessions(rows), chi.URLParam(r, "sessionID"))
	if !ok {
		WriteNotFound(w, "Conversation not found")
		return
	}
	WriteSuccess(w, sess, nil)
}
