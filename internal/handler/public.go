// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the public site: the
// page views, the contact form, the chat endpoint and health checks.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/foundation-go/internal/model"
	"github.com/olegiv/foundation-go/internal/render"
	"github.com/olegiv/foundation-go/internal/service"
	"github.com/olegiv/foundation-go/internal/site"
)

// Contact form messages.
const (
	MsgContactSent         = "Thank you for your message. We will get back to you soon."
	MsgContactMissing      = "Please fill in your name, email and message."
	MsgContactInvalidEmail = "Please enter a valid email address."
	MsgContactFailed       = "Failed to send message. Please try again."
)

// PublicHandler renders the pages of the public site.
type PublicHandler struct {
	renderer *render.Renderer
	articles *service.ArticleService
	reports  *service.ReportService
	contacts *service.ContactService
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(renderer *render.Renderer, articles *service.ArticleService, reports *service.ReportService, contacts *service.ContactService) *PublicHandler {
	return &PublicHandler{
		renderer: renderer,
		articles: articles,
		reports:  reports,
		contacts: contacts,
	}
}

// SiteContent is the fixed copy shown on the informational pages.
type SiteContent struct {
	Stats      []site.Stat
	Values     []site.Value
	Steps      []site.Step
	Tiers      []site.GrantTier
	Principles []site.Principle
	FAQs       []site.FAQ
}

var siteContent = SiteContent{
	Stats:      site.Stats,
	Values:     site.Values,
	Steps:      site.ProcessSteps,
	Tiers:      site.GrantTiers,
	Principles: site.TransparencyPrinciples,
	FAQs:       site.FAQs,
}

// NewsData is the data of the news page.
type NewsData struct {
	Articles   []model.Article
	Categories []string
	Category   string
}

// TransparencyData is the data of the transparency page.
type TransparencyData struct {
	SiteContent
	Reports []model.QuarterlyReport
}

// SubjectOption is one entry of the contact subject select.
type SubjectOption struct {
	Value string
	Label string
}

// ContactData is the data of the contact page.
type ContactData struct {
	Subjects []SubjectOption
	FAQs     []site.FAQ
}

// Page handles GET / and GET /{page}. Unknown page keys render the home page.
func (h *PublicHandler) Page(w http.ResponseWriter, r *http.Request) {
	page := site.Resolve(chi.URLParam(r, "page"))

	var data any
	switch page.Key {
	case site.KeyNews:
		data = h.newsData(r)
	case site.KeyTransparency:
		data = h.transparencyData(r)
	case site.KeyContact:
		data = contactData()
	case site.KeyAdmin:
	default:
		data = siteContent
	}

	if err := h.renderer.Render(w, r, page.Template, render.TemplateData{Page: page, Data: data}); err != nil {
		logAndInternalError(w, r, "render error", "error", err, "page", page.Key)
	}
}

// newsData lists published articles. A failed fetch renders an empty list.
func (h *PublicHandler) newsData(r *http.Request) NewsData {
	category := r.URL.Query().Get("category")
	if !slices.Contains(model.ArticleCategories, category) {
		category = ""
	}

	articles, err := h.articles.Published(r.Context(), category)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to load news", "error", err)
		articles = nil
	}
	return NewsData{
		Articles:   articles,
		Categories: model.ArticleCategories,
		Category:   category,
	}
}

// transparencyData lists published reports. A failed fetch renders an empty list.
func (h *PublicHandler) transparencyData(r *http.Request) TransparencyData {
	reports, err := h.reports.Published(r.Context())
	if err != nil {
		slog.WarnContext(r.Context(), "failed to load reports", "error", err)
		reports = nil
	}
	return TransparencyData{SiteContent: siteContent, Reports: reports}
}

func contactData() ContactData {
	subjects := make([]SubjectOption, 0, len(model.ContactSubjects))
	for _, s := range model.ContactSubjects {
		subjects = append(subjects, SubjectOption{Value: s, Label: model.SubjectLabel(s)})
	}
	return ContactData{Subjects: subjects, FAQs: site.FAQs}
}

// SubmitContact handles POST /contact.
func (h *PublicHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	redirectURL := site.Path(site.KeyContact)
	if !parseFormOrRedirect(w, r, h.renderer, redirectURL) {
		return
	}

	err := h.contacts.Submit(r.Context(), service.ContactForm{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Subject: r.FormValue("subject"),
		Message: r.FormValue("message"),
	})
	switch {
	case err == nil:
		slog.InfoContext(r.Context(), "contact submission received", "subject", r.FormValue("subject"))
		flashSuccess(w, r, h.renderer, redirectURL, MsgContactSent)
	case errors.Is(err, service.ErrMissingFields):
		flashError(w, r, h.renderer, redirectURL, MsgContactMissing)
	case errors.Is(err, service.ErrInvalidEmail):
		flashError(w, r, h.renderer, redirectURL, MsgContactInvalidEmail)
	default:
		slog.ErrorContext(r.Context(), "failed to save contact submission", "error", err)
		flashError(w, r, h.renderer, redirectURL, MsgContactFailed)
	}
}
