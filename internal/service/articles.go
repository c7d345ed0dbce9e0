// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/olegiv/foundation-go/internal/gateway"
	"github.com/olegiv/foundation-go/internal/model"
)

// ArticleDraft is the editable part of an article. An empty ID creates.
type ArticleDraft struct {
	ID       string              `json:"id,omitempty"`
	Title    string              `json:"title"`
	Excerpt  string              `json:"excerpt"`
	Content  string              `json:"content"`
	Category string              `json:"category"`
	Status   model.ArticleStatus `json:"status"`
}

// ArticleService manages news articles.
type ArticleService struct {
	tables gateway.Tables
	now    clock
}

// NewArticleService creates a new ArticleService.
func NewArticleService(tables gateway.Tables) *ArticleService {
	return &ArticleService{tables: tables, now: time.Now}
}

// List returns all articles, newest first.
func (s *ArticleService) List(ctx context.Context) ([]model.Article, error) {
	rows, err := gateway.List[model.Article](ctx, s.tables, model.TableArticles, gateway.Query{
		Order: []gateway.Order{{Column: "created_at", Desc: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	return rows, nil
}

// Published returns published articles, newest first, optionally limited
// to one category.
func (s *ArticleService) Published(ctx context.Context, category string) ([]model.Article, error) {
	filters := []gateway.Filter{gateway.Eq("status", model.ArticlePublished)}
	if category != "" {
		filters = append(filters, gateway.Eq("category", category))
	}
	rows, err := gateway.List[model.Article](ctx, s.tables, model.TableArticles, gateway.Query{
		Filters: filters,
		Order:   []gateway.Order{{Column: "published_at", Desc: true}, {Column: "created_at", Desc: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("listing published articles: %w", err)
	}
	return rows, nil
}

// Get returns one article.
func (s *ArticleService) Get(ctx context.Context, id string) (model.Article, error) {
	return gateway.First[model.Article](ctx, s.tables, model.TableArticles, nil, gateway.Eq("id", id))
}

// Save creates or updates an article. Title and excerpt are required;
// nothing is written when either is blank.
func (s *ArticleService) Save(ctx context.Context, d ArticleDraft) error {
	if blank(d.Title) || blank(d.Excerpt) {
		return ErrMissingFields
	}
	if d.Category == "" {
		d.Category = model.DefaultArticleCat
	}
	if !slices.Contains(model.ArticleCategories, d.Category) {
		return ErrInvalidCategory
	}
	if d.Status == "" {
		d.Status = model.ArticleDraft
	}
	if !d.Status.Valid() {
		return ErrInvalidStatus
	}

	now := s.now().UTC()
	rec := gateway.Record{
		"title":      strings.TrimSpace(d.Title),
		"excerpt":    strings.TrimSpace(d.Excerpt),
		"content":    d.Content,
		"category":   d.Category,
		"status":     d.Status,
		"updated_at": now,
	}
	publication(rec, d.Status == model.ArticlePublished, now)

	if d.ID == "" {
		if err := s.tables.Insert(ctx, model.TableArticles, rec); err != nil {
			return fmt.Errorf("creating article: %w", err)
		}
		return nil
	}
	if err := s.tables.Update(ctx, model.TableArticles, rec, gateway.Eq("id", d.ID)); err != nil {
		return fmt.Errorf("updating article %s: %w", d.ID, err)
	}
	return nil
}

// SetStatus moves an article to status, stamping or clearing published_at.
func (s *ArticleService) SetStatus(ctx context.Context, id string, status model.ArticleStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	now := s.now().UTC()
	rec := gateway.Record{"status": status, "updated_at": now}
	publication(rec, status == model.ArticlePublished, now)

	if err := s.tables.Update(ctx, model.TableArticles, rec, gateway.Eq("id", id)); err != nil {
		return fmt.Errorf("setting article %s status: %w", id, err)
	}
	return nil
}

// Delete removes an article.
func (s *ArticleService) Delete(ctx context.Context, id string) error {
	if err := s.tables.Delete(ctx, model.TableArticles, gateway.Eq("id", id)); err != nil {
		return fmt.Errorf("deleting article %s: %w", id, err)
	}
	return nil
}

// FilterArticles keeps articles with the given status; "all" or "" keeps all.
func FilterArticles(articles []model.Article, status string) []model.Article {
	if status == "" || status == FilterAll {
		return articles
	}
	out := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if string(a.Status) == status {
			out = append(out, a)
		}
	}
	return out
}

// publication sets published_at iff published.
func publication(rec gateway.Record, published bool, now time.Time) {
	if published {
		rec["published_at"] = now
	} else {
		rec["published_at"] = nil
	}
}
