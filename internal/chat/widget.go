// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/olegiv/foundation-go/internal/model"
)

// WelcomeMessage opens every transcript.
const WelcomeMessage = "Welcome to the Abbas Shaffi Foundation. I'm here to answer your questions about our mission, giving process, and eligibility. How can I help you today?"

const apologyFormat = "I apologize, but I'm experiencing technical difficulties. Please try again later or contact us directly at %s."

// SuggestedQuestions are offered before the visitor has typed anything.
var SuggestedQuestions = []string{
	"How are recipients selected?",
	"Who is eligible for grants?",
	"What are the grant amounts?",
}

// Apology returns the reply shown when the assistant cannot answer.
func Apology(supportEmail string) string {
	return fmt.Sprintf(apologyFormat, supportEmail)
}

// NewSessionID returns a fresh chat session identifier.
func NewSessionID() string {
	return "session_" + ulid.Make().String()
}

// Widget holds one visitor's chat transcript. It is safe for concurrent use.
type Widget struct {
	assistant Assistant
	apology   string
	sessionID string

	mu         sync.Mutex
	transcript []model.ChatMessage
	loading    bool
	open       bool
}

// NewWidget creates a widget seeded with the welcome turn.
func NewWidget(assistant Assistant, supportEmail string) *Widget {
	return &Widget{
		assistant:  assistant,
		apology:    Apology(supportEmail),
		sessionID:  NewSessionID(),
		transcript: []model.ChatMessage{{Role: model.ChatAssistant, Content: WelcomeMessage}},
	}
}

// SessionID returns the identifier sent with every turn.
func (w *Widget) SessionID() string {
	return w.sessionID
}

// Submit sends one visitor turn and appends the reply. Input is trimmed;
// blank input and submits while a reply is pending are ignored and
// report false. Failures never surface: the apology is appended instead.
func (w *Widget) Submit(ctx context.Context, input string) (model.ChatMessage, bool) {
	text := strings.TrimSpace(input)

	w.mu.Lock()
	if text == "" || w.loading {
		w.mu.Unlock()
		return model.ChatMessage{}, false
	}
	history := make([]model.ChatMessage, len(w.transcript))
	copy(history, w.transcript)
	w.transcript = append(w.transcript, model.ChatMessage{Role: model.ChatUser, Content: text})
	w.loading = true
	w.mu.Unlock()

	content, err := w.assistant.Reply(ctx, model.AssistantRequest{
		Message:             text,
		SessionID:           w.sessionID,
		ConversationHistory: history,
	})
	if err != nil {
		slog.WarnContext(ctx, "chat assistant failed", "session_id", w.sessionID, "error", err)
		content = w.apology
	}
	reply := model.ChatMessage{Role: model.ChatAssistant, Content: content}

	w.mu.Lock()
	w.transcript = append(w.transcript, reply)
	w.loading = false
	w.mu.Unlock()

	return reply, true
}

// Transcript returns a copy of the conversation so far.
func (w *Widget) Transcript() []model.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]model.ChatMessage, len(w.transcript))
	copy(out, w.transcript)
	return out
}

// Loading reports whether a reply is pending.
func (w *Widget) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// Open shows the widget.
func (w *Widget) Open() {
	w.mu.Lock()
	w.open = true
	w.mu.Unlock()
}

// Close hides the widget. A pending reply still lands in the transcript.
func (w *Widget) Close() {
	w.mu.Lock()
	w.open = false
	w.mu.Unlock()
}

// IsOpen reports whether the widget is shown.
func (w *Widget) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}
