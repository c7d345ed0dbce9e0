// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package site maps page keys to the views of the public site.
package site

// Page keys.
const (
	KeyHome         = "home"
	KeyAbout        = "about"
	KeyFounder      = "founder"
	KeyHowItWorks   = "how-it-works"
	KeyGrants       = "grants"
	KeyTransparency = "transparency"
	KeyNews         = "news"
	KeyContact      = "contact"
	KeyAdmin        = "admin"
)

// Page describes one routable view.
type Page struct {
	Key      string
	Title    string
	Template string
	// InNav pages are listed in the site navigation.
	InNav bool
}

// Path returns the URL path the page lives at.
func (p Page) Path() string {
	return Path(p.Key)
}

var pages = []Page{
	{Key: KeyHome, Title: "Home", Template: "home", InNav: true},
	{Key: KeyAbout, Title: "About", Template: "about", InNav: true},
	{Key: KeyFounder, Title: "Founder", Template: "founder", InNav: true},
	{Key: KeyHowItWorks, Title: "How It Works", Template: "how-it-works", InNav: true},
	{Key: KeyGrants, Title: "Grants", Template: "grants", InNav: true},
	{Key: KeyTransparency, Title: "Transparency", Template: "transparency", InNav: true},
	{Key: KeyNews, Title: "News", Template: "news", InNav: true},
	{Key: KeyContact, Title: "Contact", Template: "contact", InNav: true},
	{Key: KeyAdmin, Title: "Admin", Template: "admin"},
}

var byKey = func() map[string]Page {
	m := make(map[string]Page, len(pages))
	for _, p := range pages {
		m[p.Key] = p
	}
	return m
}()

// Resolve returns the page for key. Unknown keys resolve to the home page.
func Resolve(key string) Page {
	if p, ok := byKey[key]; ok {
		return p
	}
	return byKey[KeyHome]
}

// Path returns the URL path for key. Home lives at the root.
func Path(key string) string {
	p := Resolve(key)
	if p.Key == KeyHome {
		return "/"
	}
	return "/" + p.Key
}

// Nav returns the pages listed in the site navigation, in display order.
func Nav() []Page {
	out := make([]Page, 0, len(pages))
	for _, p := range pages {
		if p.InNav {
			out = append(out, p)
		}
	}
	return out
}
