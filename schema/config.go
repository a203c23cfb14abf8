package schema

import (
	"errors"
	"fmt"
)

// ServiceConfig defines defaults and limits for the core service.
type ServiceConfig struct {
	// ContentDir overrides the embedded content when set.
	ContentDir string
	// VisibilityThreshold is the visible fraction that counts as in view.
	VisibilityThreshold float64
	// AutoLoop forces every demo to loop when set.
	AutoLoop bool
	// MaxSessions caps concurrently mounted demo sessions.
	MaxSessions int
	// BlogPreviewLimit is the number of posts on the home page.
	BlogPreviewLimit int
	DefaultTheme     ThemeName
}

// DefaultVisibilityThreshold is the in-view fraction used by demo gates.
const DefaultVisibilityThreshold = 0.6

// DefaultMaxSessions is the default limit on mounted demo sessions.
const DefaultMaxSessions = 256

// DefaultBlogPreviewLimit is the default number of posts in the blog preview.
const DefaultBlogPreviewLimit = 2

// NormalizeServiceConfig applies defaults and validates the config.
func NormalizeServiceConfig(cfg ServiceConfig) (ServiceConfig, error) {
	if cfg.VisibilityThreshold == 0 {
		cfg.VisibilityThreshold = DefaultVisibilityThreshold
	}
	if cfg.VisibilityThreshold < 0 || cfg.VisibilityThreshold > 1 {
		return ServiceConfig{}, fmt.Errorf("visibility threshold %v out of range (0, 1]", cfg.VisibilityThreshold)
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.BlogPreviewLimit <= 0 {
		cfg.BlogPreviewLimit = DefaultBlogPreviewLimit
	}
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = DefaultTheme
	}
	theme, ok := NormalizeThemeName(string(cfg.DefaultTheme))
	if !ok {
		return ServiceConfig{}, errors.Join(ErrInvalidTheme, fmt.Errorf("theme %q", cfg.DefaultTheme))
	}
	cfg.DefaultTheme = theme
	return cfg, nil
}
