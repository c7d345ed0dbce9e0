// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package functions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/model"
)

const (
	maxHistoryTurns  = 20
	maxMessageLength = 2000
)

// SystemPrompt frames the assistant for visitors.
const SystemPrompt = `You are the assistant on the Abbas Shaffi Foundation website.
Answer questions about the foundation's mission, how giving works, grant eligibility and
transparency reporting. Be warm, concise and factual. If you do not know an answer,
say so and suggest contacting the foundation at %s. Never invent grant amounts,
deadlines or personal details.`

// Completer produces an assistant reply for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []model.ChatMessage, system string) (string, error)
}

// OpenAICompleter completes conversations with the OpenAI chat API.
type OpenAICompleter struct {
	client openai.Client
	model  string
}

// NewOpenAICompleter returns a completer for the given key and model.
func NewOpenAICompleter(apiKey, modelName string) *OpenAICompleter {
	return &OpenAICompleter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  modelName,
	}
}

// Complete implements Completer.
func (c *OpenAICompleter) Complete(ctx context.Context, messages []model.ChatMessage, system string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(system)},
	}
	for _, m := range messages {
		switch m.Role {
		case model.ChatAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Assistant is the foundation-ai-assistant function.
type Assistant struct {
	tables    gateway.Tables
	completer Completer
	system    string
	now       func() time.Time
}

// NewAssistant returns the assistant function. A nil completer makes
// every call fail with 503.
func NewAssistant(tables gateway.Tables, completer Completer, supportEmail string) *Assistant {
	return &Assistant{
		tables:    tables,
		completer: completer,
		system:    fmt.Sprintf(SystemPrompt, supportEmail),
		now:       time.Now,
	}
}

// Handle answers one visitor message and logs the exchange.
func (a *Assistant) Handle(ctx context.Context, body json.RawMessage) (any, error) {
	var req model.AssistantRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &gateway.FunctionError{Status: http.StatusBadRequest, Message: "invalid request body"}
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, &gateway.FunctionError{Status: http.StatusBadRequest, Message: "message is required"}
	}
	if len(msg) > maxMessageLength {
		return nil, &gateway.FunctionError{Status: http.StatusRequestEntityTooLarge, Message: "message is too long"}
	}
	if a.completer == nil {
		return nil, &gateway.FunctionError{Status: http.StatusServiceUnavailable, Message: "assistant is not configured"}
	}

	history := req.ConversationHistory
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	messages := make([]model.ChatMessage, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, model.ChatMessage{Role: model.ChatUser, Content: msg})

	reply, err := a.completer.Complete(ctx, messages, a.system)
	if err != nil {
		slog.ErrorContext(ctx, "assistant completion failed", "session_id", req.SessionID, "error", err)
		return nil, &gateway.FunctionError{Status: http.StatusBadGateway, Message: "assistant unavailable"}
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, &gateway.FunctionError{Status: http.StatusBadGateway, Message: "assistant returned no answer"}
	}

	// A failed log write must not cost the visitor their answer.
	if err := a.tables.Insert(ctx, model.TableConversations, gateway.Record{
		"session_id":         req.SessionID,
		"user_message":       msg,
		"assistant_response": reply,
		"created_at":         a.now().UTC(),
	}); err != nil {
		slog.WarnContext(ctx, "logging assistant exchange", "session_id", req.SessionID, "error", err)
	}

	return model.AssistantResponse{Message: reply}, nil
}
