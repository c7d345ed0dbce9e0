// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html/template"
	"net/url"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/olegiv/foundation-go/internal/model"
	"github.com/olegiv/foundation-go/internal/site"
	"github.com/olegiv/foundation-go/internal/util"
)

// Label turns a stored value such as "how-it-works" or "responded" into
// a display label.
func Label(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c == '-' || c == '_' {
			b[i] = ' '
		}
	}
	// Casers are stateful and cannot be shared between goroutines.
	return cases.Title(language.English).String(string(b))
}

// TemplateFuncs returns custom template functions.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDatePtr": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"truncate": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) <= length {
				return s
			}
			return string(runes[:length]) + "..."
		},
		"markdown": Markdown,
		"label":    Label,
		"anchor":   util.Anchor,
		"pagePath": site.Path,
		"newsURL": func(category string) string {
			if category == "" {
				return site.Path(site.KeyNews)
			}
			return site.Path(site.KeyNews) + "?category=" + url.QueryEscape(category)
		},
		"subjectLabel": model.SubjectLabel,
		"add": func(a, b int) int {
			return a + b
		},
	}
}
