package schema

import "testing"

func TestNormalizeSlug(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		want  Slug
		valid bool
	}{
		{"simple", "open-browser", "open-browser", true},
		{"mdx-extension", "remeda.mdx", "remeda", true},
		{"md-extension", "hello-world.md", "hello-world", true},
		{"uppercase", "YouWo", "youwo", true},
		{"underscore", "campus_forum", "campus-forum", true},
		{"accent", "café-notes", "cafe-notes", true},
		{"spaces", "  canvas  ", "canvas", true},
		{"empty", "", "", false},
		{"dot-only", ".md", "", false},
		{"slash", "a/b", "", false},
		{"leading-dash", "-oops", "", false},
		{"double-dash", "a--b", "", false},
		{"symbol", "ai@home", "", false},
	}

	for _, tc := range cases {
		got, err := NormalizeSlug(tc.raw)
		if tc.valid && err != nil {
			t.Fatalf("case %q expected valid, got error: %v", tc.name, err)
		}
		if !tc.valid {
			if err == nil {
				t.Fatalf("case %q expected error, got %q", tc.name, got)
			}
			continue
		}
		if got != tc.want {
			t.Fatalf("case %q expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestNormalizePostCategory(t *testing.T) {
	cases := []struct {
		raw   string
		want  PostCategory
		valid bool
	}{
		{"", PostCategoryThoughts, true},
		{"tech", PostCategoryTech, true},
		{" Project ", PostCategoryProject, true},
		{"THOUGHTS", PostCategoryThoughts, true},
		{"news", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizePostCategory(tc.raw)
		if tc.valid && (err != nil || got != tc.want) {
			t.Fatalf("NormalizePostCategory(%q) = %q, %v; want %q", tc.raw, got, err, tc.want)
		}
		if !tc.valid && err == nil {
			t.Fatalf("NormalizePostCategory(%q) expected error", tc.raw)
		}
	}
}

func TestNormalizeProjectCategory(t *testing.T) {
	got, err := NormalizeProjectCategory("")
	if err != nil || got != ProjectCategoryAll {
		t.Fatalf("empty category = %q, %v", got, err)
	}
	got, err = NormalizeProjectCategory("interactive")
	if err != nil || got != ProjectCategoryInteractive {
		t.Fatalf("interactive = %q, %v", got, err)
	}
	if _, err := NormalizeProjectCategory("games"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := CategoryLabel(PostCategoryTech); got != "Tech" {
		t.Fatalf("expected Tech, got %q", got)
	}
	if got := CategoryLabel(""); got != "Thoughts" {
		t.Fatalf("expected Thoughts for empty category, got %q", got)
	}
}

func TestNormalizeThemeName(t *testing.T) {
	if got, ok := NormalizeThemeName("Tokyo_Midnight"); !ok || got != "tokyo-midnight" {
		t.Fatalf("unexpected theme %q ok=%v", got, ok)
	}
	if _, ok := NormalizeThemeName("solarized"); ok {
		t.Fatalf("expected unsupported theme")
	}
	if NextTheme("tokyo-midnight") != "outrun" {
		t.Fatalf("expected theme cycle to wrap")
	}
}

func TestNormalizeServiceConfigDefaults(t *testing.T) {
	cfg, err := NormalizeServiceConfig(ServiceConfig{})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.VisibilityThreshold != DefaultVisibilityThreshold {
		t.Fatalf("expected default threshold, got %v", cfg.VisibilityThreshold)
	}
	if cfg.MaxSessions != DefaultMaxSessions || cfg.BlogPreviewLimit != DefaultBlogPreviewLimit {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
	if cfg.DefaultTheme != DefaultTheme {
		t.Fatalf("expected default theme, got %q", cfg.DefaultTheme)
	}
	if _, err := NormalizeServiceConfig(ServiceConfig{VisibilityThreshold: 1.5}); err == nil {
		t.Fatalf("expected threshold error")
	}
}
