package logx

import (
	"context"

	"pkt.systems/folio/schema"
	"pkt.systems/pslog"
)

type contextKey int

const (
	demoKey contextKey = iota
	sessionKey
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithDemo annotates the logger with the demo id if present.
func WithDemo(ctx context.Context, demoID schema.DemoID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if demoID != "" {
		if current, ok := ctx.Value(demoKey).(schema.DemoID); ok && current == demoID {
			return log
		}
		log = log.With("demo", demoID)
	}
	return log
}

// WithDemoSession annotates the logger with demo and session identifiers.
func WithDemoSession(ctx context.Context, demoID schema.DemoID, sessionID schema.SessionID) pslog.Logger {
	log := WithDemo(ctx, demoID)
	if sessionID != "" {
		if current, ok := ctx.Value(sessionKey).(schema.SessionID); ok && current == sessionID {
			return log
		}
		log = log.With("session", sessionID)
	}
	return log
}

// WithSession annotates the logger with a session id when available.
func WithSession(log pslog.Logger, sessionID schema.SessionID) pslog.Logger {
	if sessionID != "" {
		log = log.With("session", sessionID)
	}
	return log
}

// WithSlug annotates the logger with a content slug when available.
func WithSlug(log pslog.Logger, slug schema.Slug) pslog.Logger {
	if slug != "" {
		log = log.With("slug", slug)
	}
	return log
}

// ContextWithDemo stores the demo marker on the context for log de-duplication.
func ContextWithDemo(ctx context.Context, demoID schema.DemoID) context.Context {
	if ctx == nil || demoID == "" {
		return ctx
	}
	return context.WithValue(ctx, demoKey, demoID)
}

// ContextWithSession stores the session marker on the context for log de-duplication.
func ContextWithSession(ctx context.Context, sessionID schema.SessionID) context.Context {
	if ctx == nil || sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey, sessionID)
}

// ContextWithSessionLogger attaches the logger and demo/session markers to the context.
func ContextWithSessionLogger(ctx context.Context, log pslog.Logger, demoID schema.DemoID, sessionID schema.SessionID) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithSession(ContextWithDemo(ctx, demoID), sessionID)
}

// CopyContextFields copies demo/session markers from src to dst.
func CopyContextFields(dst context.Context, src context.Context) context.Context {
	if src == nil {
		return dst
	}
	if demo, ok := src.Value(demoKey).(schema.DemoID); ok && demo != "" {
		dst = ContextWithDemo(dst, demo)
	}
	if session, ok := src.Value(sessionKey).(schema.SessionID); ok && session != "" {
		dst = ContextWithSession(dst, session)
	}
	return dst
}
