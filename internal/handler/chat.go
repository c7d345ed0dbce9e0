// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/foundation-go/internal/chat"
	"github.com/olegiv/foundation-go/internal/model"
	"github.com/olegiv/foundation-go/internal/obs"
)

const maxChatBody = 256 << 10

// ChatReply is the body of a successful chat turn.
type ChatReply struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// ChatHandler relays visitor chat turns to the assistant.
type ChatHandler struct {
	assistant chat.Assistant
	apology   string
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(assistant chat.Assistant, supportEmail string) *ChatHandler {
	return &ChatHandler{assistant: assistant, apology: chat.Apology(supportEmail)}
}

// Chat handles POST /api/chat. The body is an assistant request; a
// missing session id is assigned. Any assistant failure answers 502 with
// the apology as the error text.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req model.AssistantRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody)).Decode(&req); err != nil {
		obs.ObserveChat(obs.OutcomeIgnored)
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		obs.ObserveChat(obs.OutcomeIgnored)
		writeJSONError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = chat.NewSessionID()
	}

	reply, err := h.assistant.Reply(r.Context(), req)
	if err != nil {
		obs.ObserveChat(obs.OutcomeError)
		slog.WarnContext(r.Context(), "assistant reply failed", "session_id", req.SessionID, "error", err)
		writeJSONError(w, http.StatusBadGateway, h.apology)
		return
	}

	obs.ObserveChat(obs.OutcomeOK)
	writeJSON(w, http.StatusOK, ChatReply{Message: reply, SessionID: req.SessionID})
}
