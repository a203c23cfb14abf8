package schema

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeSlug folds a file name or URL segment into a slug.
// Accents are stripped, letters lower-cased, and the result must match
// [a-z0-9-]+ with no leading or trailing dash.
func NormalizeSlug(raw string) (Slug, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimSuffix(trimmed, path.Ext(trimmed))
	if trimmed == "" {
		return "", ErrInvalidSlug
	}
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), trimmed)
	if err != nil {
		return "", ErrInvalidSlug
	}
	folded = strings.ToLower(folded)
	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '_' || r == ' ':
			b.WriteRune('-')
		default:
			return "", ErrInvalidSlug
		}
	}
	out := b.String()
	if out == "" || strings.HasPrefix(out, "-") || strings.HasSuffix(out, "-") || strings.Contains(out, "--") {
		return "", ErrInvalidSlug
	}
	return Slug(out), nil
}

// NormalizePostCategory validates a post category. Empty input yields the
// default category.
func NormalizePostCategory(raw string) (PostCategory, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	switch trimmed {
	case "":
		return DefaultPostCategory, nil
	case string(PostCategoryTech), string(PostCategoryProject), string(PostCategoryThoughts):
		return PostCategory(trimmed), nil
	default:
		return "", ErrInvalidCategory
	}
}

// ProjectCategories lists the filter categories in display order.
func ProjectCategories() []ProjectCategory {
	return []ProjectCategory{
		ProjectCategoryAll,
		ProjectCategoryAI,
		ProjectCategoryWeb,
		ProjectCategoryInteractive,
		ProjectCategoryResearch,
	}
}

// NormalizeProjectCategory matches a category case-insensitively. Empty
// input yields ProjectCategoryAll.
func NormalizeProjectCategory(raw string) (ProjectCategory, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ProjectCategoryAll, nil
	}
	for _, cat := range ProjectCategories() {
		if strings.EqualFold(trimmed, string(cat)) {
			return cat, nil
		}
	}
	return "", ErrInvalidCategory
}

var titleCaser = cases.Title(language.English)

// CategoryLabel returns the display label for a post category.
func CategoryLabel(cat PostCategory) string {
	if cat == "" {
		cat = DefaultPostCategory
	}
	return titleCaser.String(string(cat))
}
