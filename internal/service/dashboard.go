// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"

	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/model"
)

const recentItems = 5

// Overview holds the dashboard figures.
type Overview struct {
	TotalArticles     int                       `json:"total_articles"`
	PublishedArticles int                       `json:"published_articles"`
	NewContacts       int                       `json:"new_contacts"`
	TotalContacts     int                       `json:"total_contacts"`
	Conversations     int                       `json:"ai_conversations"`
	RecentContacts    []model.ContactSubmission `json:"recent_contacts"`
	RecentArticles    []model.Article           `json:"recent_articles"`
}

// DashboardService computes the admin overview.
type DashboardService struct {
	tables gateway.Tables
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(tables gateway.Tables) *DashboardService {
	return &DashboardService{tables: tables}
}

type statusRow struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Overview counts over full tables and lists the five newest contacts
// and articles.
func (s *DashboardService) Overview(ctx context.Context) (Overview, error) {
	var ov Overview
	newest := []gateway.Order{{Column: "created_at", Desc: true}}

	articles, err := gateway.List[statusRow](ctx, s.tables, model.TableArticles, gateway.Query{Columns: []string{"id", "status"}})
	if err != nil {
		return ov, fmt.Errorf("counting articles: %w", err)
	}
	ov.TotalArticles = len(articles)
	for _, a := range articles {
		if a.Status == string(model.ArticlePublished) {
			ov.PublishedArticles++
		}
	}

	contacts, err := gateway.List[statusRow](ctx, s.tables, model.TableContacts, gateway.Query{Columns: []string{"id", "status"}})
	if err != nil {
		return ov, fmt.Errorf("counting contacts: %w", err)
	}
	ov.TotalContacts = len(contacts)
	for _, c := range contacts {
		if c.Status == string(model.ContactNew) {
			ov.NewContacts++
		}
	}

	convs, err := gateway.List[statusRow](ctx, s.tables, model.TableConversations, gateway.Query{Columns: []string{"id"}})
	if err != nil {
		return ov, fmt.Errorf("counting conversations: %w", err)
	}
	ov.Conversations = len(convs)

	ov.RecentContacts, err = gateway.List[model.ContactSubmission](ctx, s.tables, model.TableContacts, gateway.Query{Order: newest, Limit: recentItems})
	if err != nil {
		return ov, fmt.Errorf("listing recent contacts: %w", err)
	}
	ov.RecentArticles, err = gateway.List[model.Article](ctx, s.tables, model.TableArticles, gateway.Query{Order: newest, Limit: recentItems})
	if err != nil {
		return ov, fmt.Errorf("listing recent articles: %w", err)
	}
	return ov, nil
}
