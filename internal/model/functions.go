// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Auth function actions.
const (
	AuthActionLogin      = "login"
	AuthActionValidate   = "validate"
	AuthActionCreateUser = "create_user"
)

// AuthRequest is the request body of the admin-auth function.
type AuthRequest struct {
	Action      string `json:"action"`
	Email       string `json:"email,omitempty"`
	Password    string `json:"password,omitempty"`
	Token       string `json:"token,omitempty"`
	UserID      string `json:"userId,omitempty"`
	FullName    string `json:"fullName,omitempty"`
	Role        Role   `json:"role,omitempty"`
	AdminUserID string `json:"adminUserId,omitempty"`
}

// AuthResponse is the union of all admin-auth responses. ExpiresAt is
// kept as the raw ISO-8601 string so callers can tell a missing value
// from a malformed one.
type AuthResponse struct {
	Success   bool      `json:"success,omitempty"`
	Valid     bool      `json:"valid,omitempty"`
	User      *Operator `json:"user,omitempty"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt string    `json:"expiresAt,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// ChatRole identifies the author of a chat message.
type ChatRole string

// Chat roles.
const (
	ChatUser      ChatRole = "user"
	ChatAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a visitor conversation.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// AssistantRequest is the request body of the assistant function.
type AssistantRequest struct {
	Message             string        `json:"message"`
	SessionID           string        `json:"sessionId"`
	ConversationHistory []ChatMessage `json:"conversationHistory"`
}

// AssistantResponse is the assistant function's reply.
type AssistantResponse struct {
	Message string `json:"message"`
}
