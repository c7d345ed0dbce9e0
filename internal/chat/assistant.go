// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package chat implements the visitor chat widget and the clients it uses
// to reach the foundation assistant.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/model"
)

// ErrEmptyReply is returned when the assistant answers without a message.
var ErrEmptyReply = errors.New("assistant returned an empty reply")

// Assistant produces a reply to one visitor turn.
type Assistant interface {
	Reply(ctx context.Context, req model.AssistantRequest) (string, error)
}

// FunctionAssistant calls the assistant function through a gateway.
type FunctionAssistant struct {
	fn gateway.Functions
}

// NewFunctionAssistant creates an Assistant backed by the assistant function.
func NewFunctionAssistant(fn gateway.Functions) *FunctionAssistant {
	return &FunctionAssistant{fn: fn}
}

// Reply implements Assistant.
func (a *FunctionAssistant) Reply(ctx context.Context, req model.AssistantRequest) (string, error) {
	var resp model.AssistantResponse
	if err := a.fn.Invoke(ctx, model.FunctionAIAssistant, req, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Message) == "" {
		return "", ErrEmptyReply
	}
	return resp.Message, nil
}

// HTTPAssistant posts visitor turns to a running site's /api/chat endpoint.
type HTTPAssistant struct {
	endpoint string
	client   *http.Client
}

// NewHTTPAssistant creates an Assistant for the site at baseURL.
func NewHTTPAssistant(baseURL string, timeout time.Duration) *HTTPAssistant {
	return &HTTPAssistant{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/chat",
		client:   &http.Client{Timeout: timeout},
	}
}

// Reply implements Assistant.
func (a *HTTPAssistant) Reply(ctx context.Context, req model.AssistantRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending chat request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading chat response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat endpoint returned status %d", resp.StatusCode)
	}

	var out model.AssistantResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if strings.TrimSpace(out.Message) == "" {
		return "", ErrEmptyReply
	}
	return out.Message, nil
}
