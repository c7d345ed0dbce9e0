// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strconv"
	"time"
)

// Table names in the hosted data store.
const (
	TableAdminUsers      = "admin_users"
	TableArticles        = "news_articles"
	TableReports         = "quarterly_reports"
	TableContacts        = "contact_submissions"
	TableConversations   = "ai_conversations"
	FunctionAdminAuth    = "admin-auth"
	FunctionAIAssistant  = "foundation-ai-assistant"
	DefaultArticleCat    = "Announcement"
	DefaultContactSubj   = "general"
	ConversationLogLimit = 500
)

// ArticleStatus is the publication state of a news article.
type ArticleStatus string

// Article states.
const (
	ArticleDraft     ArticleStatus = "draft"
	ArticlePublished ArticleStatus = "published"
	ArticleArchived  ArticleStatus = "archived"
)

// Valid reports whether s is a known article state.
func (s ArticleStatus) Valid() bool {
	switch s {
	case ArticleDraft, ArticlePublished, ArticleArchived:
		return true
	}
	return false
}

// ArticleCategories is the fixed set of article categories.
var ArticleCategories = []string{
	"Announcement",
	"Program Update",
	"Transparency",
	"Foundation News",
	"Impact Story",
}

// Article is a news item.
type Article struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt"`
	Content     string        `json:"content"`
	Category    string        `json:"category"`
	Status      ArticleStatus `json:"status"`
	PublishedAt *time.Time    `json:"published_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
}

// ReportStatus is the publication state of a quarterly report.
type ReportStatus string

// Report states.
const (
	ReportDraft     ReportStatus = "draft"
	ReportPublished ReportStatus = "published"
)

// Valid reports whether s is a known report state.
func (s ReportStatus) Valid() bool {
	return s == ReportDraft || s == ReportPublished
}

// Quarters lists the valid report quarters.
var Quarters = []string{"Q1", "Q2", "Q3", "Q4"}

// ValidQuarter reports whether q is one of Q1..Q4.
func ValidQuarter(q string) bool {
	for _, v := range Quarters {
		if v == q {
			return true
		}
	}
	return false
}

// QuarterlyReport is a transparency report for one quarter.
type QuarterlyReport struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Quarter     string       `json:"quarter"`
	Year        int          `json:"year"`
	Summary     string       `json:"summary"`
	Content     string       `json:"content"`
	Status      ReportStatus `json:"status"`
	PublishedAt *time.Time   `json:"published_at"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Period returns the human label for the report, e.g. "Q2 2025".
func (r QuarterlyReport) Period() string {
	return r.Quarter + " " + strconv.Itoa(r.Year)
}

// ContactStatus is the triage state of a contact submission.
type ContactStatus string

// Contact states.
const (
	ContactNew       ContactStatus = "new"
	ContactRead      ContactStatus = "read"
	ContactResponded ContactStatus = "responded"
	ContactArchived  ContactStatus = "archived"
)

// ContactStatuses lists all contact states in triage order.
var ContactStatuses = []ContactStatus{ContactNew, ContactRead, ContactResponded, ContactArchived}

// Valid reports whether s is a known contact state.
func (s ContactStatus) Valid() bool {
	for _, v := range ContactStatuses {
		if v == s {
			return true
		}
	}
	return false
}

var subjectLabels = map[string]string{
	"general":     "General Inquiry",
	"media":       "Media Inquiry",
	"partnership": "Partnership",
	"feedback":    "Feedback",
	"other":       "Other",
}

// ContactSubjects lists the subject codes offered by the contact form.
var ContactSubjects = []string{"general", "media", "partnership", "feedback", "other"}

// SubjectLabel maps a subject code to its display label. Unknown codes
// are returned unchanged.
func SubjectLabel(subject string) string {
	if l, ok := subjectLabels[subject]; ok {
		return l
	}
	return subject
}

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	Notes     *string       `json:"notes"`
	CreatedAt time.Time     `json:"created_at"`
}

// SubjectLabel returns the display label of the submission subject.
func (c ContactSubmission) SubjectLabel() string {
	return SubjectLabel(c.Subject)
}

// AIConversation is one logged assistant exchange.
type AIConversation struct {
	ID                string    `json:"id"`
	SessionID         string    `json:"session_id"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
	CreatedAt         time.Time `json:"created_at"`
}
