// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides URL slug generation for article anchors and
// admin filters.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 80

var (
	// slugRegex matches runs of anything but lowercase letters and digits
	slugRegex = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify converts a string to a URL-friendly slug. Accents are
// stripped and non-Latin scripts are transliterated to ASCII.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	result = unidecode.Unidecode(result)

	result = strings.ToLower(result)
	result = slugRegex.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > maxSlugLength {
		result = strings.TrimRight(result[:maxSlugLength], "-")
	}
	return result
}

// Anchor returns a stable fragment id for a titled row. The id suffix
// keeps anchors unique when titles collide.
func Anchor(title, id string) string {
	slug := Slugify(title)
	suffix := id
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	switch {
	case slug == "":
		return "item-" + suffix
	case suffix == "":
		return slug
	default:
		return slug + "-" + suffix
	}
}

