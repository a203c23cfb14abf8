package content

import (
	"strings"

	"pkt.systems/folio/schema"
)

var tagCategories = map[string]schema.ProjectCategory{
	"AI":              schema.ProjectCategoryAI,
	"AI Agent":        schema.ProjectCategoryAI,
	"OpenAI API":      schema.ProjectCategoryAI,
	"NLP":             schema.ProjectCategoryAI,
	"LangGraph":       schema.ProjectCategoryAI,
	"CDP":             schema.ProjectCategoryAI,
	"Healthcare":      schema.ProjectCategoryAI,
	"React":           schema.ProjectCategoryWeb,
	"TypeScript":      schema.ProjectCategoryWeb,
	"JavaScript":      schema.ProjectCategoryWeb,
	"Node.js":         schema.ProjectCategoryWeb,
	"CSS":             schema.ProjectCategoryWeb,
	"Chrome API":      schema.ProjectCategoryWeb,
	"Web Scraping":    schema.ProjectCategoryWeb,
	"WebRTC":          schema.ProjectCategoryWeb,
	"Unity":           schema.ProjectCategoryInteractive,
	"C#":              schema.ProjectCategoryInteractive,
	"VR SDK":          schema.ProjectCategoryInteractive,
	"3D Modeling":     schema.ProjectCategoryInteractive,
	"Arduino":         schema.ProjectCategoryInteractive,
	"Sensor Tech":     schema.ProjectCategoryInteractive,
	"Voice Tech":      schema.ProjectCategoryInteractive,
	"Game Design":     schema.ProjectCategoryInteractive,
	"Data Processing": schema.ProjectCategoryResearch,
	"SQL":             schema.ProjectCategoryResearch,
	"Education":       schema.ProjectCategoryResearch,
	"EdTech":          schema.ProjectCategoryResearch,
}

// ProjectCategories returns the filter categories a project's tags map to,
// in display order.
func ProjectCategories(p schema.Project) []schema.ProjectCategory {
	seen := make(map[schema.ProjectCategory]bool)
	for _, tag := range p.Tags {
		if cat, ok := tagCategories[strings.TrimSpace(tag)]; ok {
			seen[cat] = true
		}
	}
	var out []schema.ProjectCategory
	for _, cat := range schema.ProjectCategories() {
		if seen[cat] {
			out = append(out, cat)
		}
	}
	return out
}

// InCategory reports whether p belongs to cat. Every project is in All.
func InCategory(p schema.Project, cat schema.ProjectCategory) bool {
	if cat == "" || cat == schema.ProjectCategoryAll {
		return true
	}
	for _, c := range ProjectCategories(p) {
		if c == cat {
			return true
		}
	}
	return false
}

// ProjectHref prefers the live URL, then the repository, then the local page.
func ProjectHref(p schema.Project) string {
	if p.URL != "" {
		return p.URL
	}
	if p.GitHub != "" {
		return p.GitHub
	}
	return "/projects/" + string(p.Slug)
}

// IsExternal reports whether ProjectHref leaves the site.
func IsExternal(p schema.Project) bool {
	return p.URL != "" || p.GitHub != ""
}
