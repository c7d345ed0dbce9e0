// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/model"
)

// ConversationSession is the exchanges of one chat session.
type ConversationSession struct {
	SessionID    string                 `json:"session_id"`
	Messages     []model.AIConversation `json:"messages"`
	FirstMessage time.Time              `json:"first_message"`
	LastActivity time.Time              `json:"last_activity"`
}

// MessageCount returns the number of logged exchanges.
func (s ConversationSession) MessageCount() int {
	return len(s.Messages)
}

// Preview returns the first visitor message of the session.
func (s ConversationSession) Preview() string {
	if len(s.Messages) == 0 {
		return ""
	}
	return s.Messages[0].UserMessage
}

// ConversationStats summarises a conversation log.
type ConversationStats struct {
	TotalMessages      int     `json:"total_messages"`
	UniqueSessions     int     `json:"unique_sessions"`
	AverageMessages    float64 `json:"average_messages"`
	AverageMessagesFmt string  `json:"average_messages_label"`
}

// ConversationService reads the assistant conversation log.
type ConversationService struct {
	tables gateway.Tables
}

// NewConversationService creates a new ConversationService.
func NewConversationService(tables gateway.Tables) *ConversationService {
	return &ConversationService{tables: tables}
}

// Recent returns the most recent logged exchanges, newest first.
func (s *ConversationService) Recent(ctx context.Context) ([]model.AIConversation, error) {
	rows, err := gateway.List[model.AIConversation](ctx, s.tables, model.TableConversations, gateway.Query{
		Order: []gateway.Order{{Column: "created_at", Desc: true}},
		Limit: model.ConversationLogLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	return rows, nil
}

// GroupSessions groups exchanges by session id. Messages within a
// session are oldest first; sessions are ordered by latest activity,
// most recent first.
func GroupSessions(rows []model.AIConversation) []ConversationSession {
	bySession := make(map[string]*ConversationSession)
	var order []string
	for _, r := range rows {
		sess, ok := bySession[r.SessionID]
		if !ok {
			sess = &ConversationSession{SessionID: r.SessionID}
			bySession[r.SessionID] = sess
			order = append(order, r.SessionID)
		}
		sess.Messages = append(sess.Messages, r)
	}

	sessions := make([]ConversationSession, 0, len(order))
	for _, id := range order {
		sess := bySession[id]
		slices.SortStableFunc(sess.Messages, func(a, b model.AIConversation) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
		sess.FirstMessage = sess.Messages[0].CreatedAt
		sess.LastActivity = sess.Messages[len(sess.Messages)-1].CreatedAt
		sessions = append(sessions, *sess)
	}
	slices.SortStableFunc(sessions, func(a, b ConversationSession) int {
		return cmp.Compare(b.LastActivity.UnixNano(), a.LastActivity.UnixNano())
	})
	return sessions
}

// FilterSessions keeps sessions with any exchange containing query on
// either side, case-insensitively. A blank query keeps everything.
func FilterSessions(sessions []ConversationSession, query string) []ConversationSession {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return sessions
	}
	out := make([]ConversationSession, 0, len(sessions))
	for _, s := range sessions {
		for _, m := range s.Messages {
			if strings.Contains(strings.ToLower(m.UserMessage), q) ||
				strings.Contains(strings.ToLower(m.AssistantResponse), q) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// FindSession returns the session with id.
func FindSession(sessions []ConversationSession, id string) (ConversationSession, bool) {
	for _, s := range sessions {
		if s.SessionID == id {
			return s, true
		}
	}
	return ConversationSession{}, false
}

// Stats computes totals over the fetched rows.
func Stats(rows []model.AIConversation) ConversationStats {
	unique := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		unique[r.SessionID] = struct{}{}
	}
	st := ConversationStats{TotalMessages: len(rows), UniqueSessions: len(unique)}
	if st.UniqueSessions > 0 {
		st.AverageMessages = math.Round(float64(st.TotalMessages)/float64(st.UniqueSessions)*10) / 10
	}
	st.AverageMessagesFmt = fmt.Sprintf("%.1f", st.AverageMessages)
	return st
}
