package httpapi

import "time"

// Config defines HTTP site settings.
type Config struct {
	Addr     string
	BaseURL  string
	BasePath string
	// DisableAccessLog silences the per-request log line.
	DisableAccessLog bool
	// VisitorCookie names the cookie carrying visitor preferences.
	VisitorCookie string
	// VisitorTTL bounds how long an idle visitor keeps its preferences.
	VisitorTTL time.Duration
	// StreamKeepalive is the interval of SSE comment pings.
	StreamKeepalive time.Duration
	// DemoWidth is the column width of rendered demo lines.
	DemoWidth int
	// HubHistory is the per-session event history kept for Last-Event-ID.
	HubHistory int
	// DefaultTheme applies to visitors without a preference.
	DefaultTheme string
	// BlogPreviewLimit caps the posts on the home page.
	BlogPreviewLimit int
}

const (
	defaultVisitorCookie   = "folio_visitor"
	defaultVisitorTTL      = 30 * 24 * time.Hour
	defaultStreamKeepalive = 15 * time.Second
	defaultDemoWidth       = 64
	shutdownTimeout        = 5 * time.Second
	readHeaderTimeout      = 10 * time.Second
)
