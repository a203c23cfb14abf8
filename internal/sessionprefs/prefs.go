package sessionprefs

import (
	"context"
	"sync"

	"pkt.systems/folio/schema"
)

// Prefs captures per-visitor preferences.
type Prefs struct {
	mu    sync.Mutex
	theme schema.ThemeName
}

type prefsKey struct{}

// New returns a new Prefs instance with defaults applied.
func New(theme schema.ThemeName) *Prefs {
	if theme == "" {
		theme = schema.DefaultTheme
	}
	return &Prefs{theme: theme}
}

// Theme returns the selected theme.
func (p *Prefs) Theme() schema.ThemeName {
	if p == nil {
		return schema.DefaultTheme
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.theme
}

// SetTheme stores theme.
func (p *Prefs) SetTheme(theme schema.ThemeName) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.theme = theme
	p.mu.Unlock()
}

// CycleTheme advances to the next theme and returns it.
func (p *Prefs) CycleTheme() schema.ThemeName {
	if p == nil {
		return schema.DefaultTheme
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.theme = schema.NextTheme(p.theme)
	return p.theme
}

// WithContext stores prefs in the context.
func WithContext(ctx context.Context, prefs *Prefs) context.Context {
	if ctx == nil || prefs == nil {
		return ctx
	}
	return context.WithValue(ctx, prefsKey{}, prefs)
}

// FromContext returns the prefs stored in the context, if any.
func FromContext(ctx context.Context) *Prefs {
	if ctx == nil {
		return nil
	}
	if value := ctx.Value(prefsKey{}); value != nil {
		if prefs, ok := value.(*Prefs); ok {
			return prefs
		}
	}
	return nil
}
