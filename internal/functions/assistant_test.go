// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package functions

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/model"
)

type fakeCompleter struct {
	reply    string
	err      error
	messages []model.ChatMessage
	system   string
}

func (f *fakeCompleter) Complete(_ context.Context, messages []model.ChatMessage, system string) (string, error) {
	f.messages = messages
	f.system = system
	return f.reply, f.err
}

func TestAssistantAnswersAndLogs(t *testing.T) {
	gw, _ := newTestGateway(t)
	fc := &fakeCompleter{reply: "  We fund community programs.  "}
	gw.Register(model.FunctionAIAssistant, NewAssistant(gw, fc, "help@example.org").Handle)
	ctx := context.Background()

	history := []model.ChatMessage{
		{Role: model.ChatAssistant, Content: "Welcome"},
	}
	var resp model.AssistantResponse
	err := gw.Invoke(ctx, model.FunctionAIAssistant, model.AssistantRequest{
		Message:             " What do you fund? ",
		SessionID:           "session_1",
		ConversationHistory: history,
	}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "We fund community programs.", resp.Message)

	require.Len(t, fc.messages, 2)
	assert.Equal(t, model.ChatMessage{Role: model.ChatUser, Content: "What do you fund?"}, fc.messages[1])
	assert.True(t, strings.Contains(fc.system, "help@example.org"))

	rows, err := gateway.List[model.AIConversation](ctx, gw, model.TableConversations, gateway.Query{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "session_1", rows[0].SessionID)
	assert.Equal(t, "What do you fund?", rows[0].UserMessage)
	assert.Equal(t, "We fund community programs.", rows[0].AssistantResponse)
}

func TestAssistantTrimsHistory(t *testing.T) {
	gw, _ := newTestGateway(t)
	fc := &fakeCompleter{reply: "ok"}
	a := NewAssistant(gw, fc, "help@example.org")

	history := make([]model.ChatMessage, 50)
	for i := range history {
		history[i] = model.ChatMessage{Role: model.ChatUser, Content: "m"}
	}
	_, err := a.Handle(context.Background(), mustJSON(t, model.AssistantRequest{Message: "hi", ConversationHistory: history}))
	require.NoError(t, err)
	assert.Len(t, fc.messages, maxHistoryTurns+1)
}

func TestAssistantErrors(t *testing.T) {
	tests := []struct {
		name       string
		completer  Completer
		message    string
		wantStatus int
	}{
		{"empty message", &fakeCompleter{reply: "x"}, "   ", http.StatusBadRequest},
		{"too long", &fakeCompleter{reply: "x"}, strings.Repeat("a", maxMessageLength+1), http.StatusRequestEntityTooLarge},
		{"not configured", nil, "hi", http.StatusServiceUnavailable},
		{"upstream failure", &fakeCompleter{err: errors.New("rate limited")}, "hi", http.StatusBadGateway},
		{"empty answer", &fakeCompleter{reply: " "}, "hi", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, _ := newTestGateway(t)
			gw.Register(model.FunctionAIAssistant, NewAssistant(gw, tt.completer, "help@example.org").Handle)

			err := gw.Invoke(context.Background(), model.FunctionAIAssistant, model.AssistantRequest{Message: tt.message}, nil)
			assert.True(t, isFunctionStatus(err, tt.wantStatus), "error = %v", err)
		})
	}
}
