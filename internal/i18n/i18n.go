// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package i18n resolves multi-language fields for subscriber-facing views.
// Admin views never pass through here; they see the stored maps unmodified.
package i18n

import (
	"strings"

	"nikshay/internal/models"
)

// Normalize maps an empty language code to the default language.
func Normalize(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return models.DefaultLang
	}
	return lang
}

// Resolve narrows a localized field to a single entry: the requested
// language when it is defined, English otherwise. There is no further
// fallback. If English is also missing the result is empty.
func Resolve(text models.Text, lang string) models.Text {
	lang = Normalize(lang)
	if v, ok := text.Lookup(lang); ok {
		return models.Text{lang: v}
	}
	if v, ok := text.Lookup(models.DefaultLang); ok {
		return models.Text{models.DefaultLang: v}
	}
	return models.Text{}
}

// Translate returns a shallow copy of n with title and description resolved
// for lang. All other fields pass through unchanged.
func Translate(n models.TreeNode, lang string) models.TreeNode {
	n.Title = Resolve(n.Title, lang)
	n.Description = Resolve(n.Description, lang)
	return n
}

// TranslateAll applies Translate to every node in order.
func TranslateAll(nodes []models.TreeNode, lang string) []models.TreeNode {
	out := make([]models.TreeNode, len(nodes))
	for i, n := range nodes {
		out[i] = Translate(n, lang)
	}
	return out
}
