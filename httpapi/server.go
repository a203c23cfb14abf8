package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pkt.systems/folio/core"
	"pkt.systems/folio/internal/logx"
	"pkt.systems/folio/schema"
)

// Server serves the portfolio pages, the JSON API and demo streams.
type Server struct {
	cfg          Config
	service      core.Service
	hub          *Hub
	visitors     *visitorStore
	basePath     string
	baseHref     string
	width        int
	previewLimit int
	keepalive    time.Duration
}

// NewServer constructs an HTTP server. The hub must be registered as the
// service's event sink for demo streams to receive frames.
func NewServer(cfg Config, service core.Service, hub *Hub) *Server {
	theme, ok := schema.NormalizeThemeName(cfg.DefaultTheme)
	if !ok {
		theme = schema.DefaultTheme
	}
	if cfg.VisitorCookie == "" {
		cfg.VisitorCookie = defaultVisitorCookie
	}
	keepalive := cfg.StreamKeepalive
	if keepalive <= 0 {
		keepalive = defaultStreamKeepalive
	}
	width := cfg.DemoWidth
	if width <= 0 {
		width = defaultDemoWidth
	}
	previewLimit := cfg.BlogPreviewLimit
	if previewLimit <= 0 {
		previewLimit = schema.DefaultBlogPreviewLimit
	}
	if hub == nil {
		hub = NewHub(cfg.HubHistory, width)
	}
	baseHref := buildBaseHref(cfg.BaseURL, cfg.BasePath)
	if baseHref == "" {
		baseHref = "/"
	}
	return &Server{
		cfg:          cfg,
		service:      service,
		hub:          hub,
		visitors:     newVisitorStore(cfg.VisitorTTL, theme),
		basePath:     normalizeBasePath(cfg.BasePath),
		baseHref:     baseHref,
		width:        width,
		previewLimit: previewLimit,
		keepalive:    keepalive,
	}
}

// Handler returns an http.Handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /projects", s.handleProjects)
	mux.HandleFunc("GET /projects/{slug}", s.handleProject)
	mux.HandleFunc("GET /blog", s.handleBlog)
	mux.HandleFunc("GET /blog/{slug}", s.handleBlogPost)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("/", s.handleNotFound)

	mux.HandleFunc("GET /api/profile", s.handleProfile)
	mux.HandleFunc("GET /api/posts", s.handlePosts)
	mux.HandleFunc("GET /api/posts/years", s.handlePostsByYear)
	mux.HandleFunc("GET /api/posts/{slug}", s.handlePost)
	mux.HandleFunc("GET /api/projects", s.handleProjectList)
	mux.HandleFunc("GET /api/projects/featured", s.handleFeatured)
	mux.HandleFunc("GET /api/projects/{slug}", s.handleProjectDetail)
	mux.HandleFunc("GET /api/demos", s.handleDemos)
	mux.HandleFunc("GET /api/demos/{id}", s.handleDemo)
	mux.HandleFunc("GET /api/demos/{id}/stream", s.handleStream)
	mux.HandleFunc("GET /api/sessions/{sid}", s.handleSnapshot)
	mux.HandleFunc("DELETE /api/sessions/{sid}", s.handleUnmount)
	mux.HandleFunc("POST /api/sessions/{sid}/visibility", s.handleVisibility)
	mux.HandleFunc("POST /api/sessions/{sid}/replay", s.handleReplay)
	mux.HandleFunc("POST /api/sessions/{sid}/hover", s.handleHover)
	mux.HandleFunc("POST /api/theme", s.handleTheme)

	var handler http.Handler = mux
	if !s.cfg.DisableAccessLog {
		handler = withRequestLogging(mux, s.lookupVisitor)
	}
	return mountBasePath(s.basePath, handler)
}

// SweepVisitors drops expired visitors every interval until ctx is done.
func (s *Server) SweepVisitors(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Hour
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.visitors.sweep(); removed > 0 {
				logx.Ctx(ctx).Debug("visitors swept", "removed", removed)
			}
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.hub.Sessions()})
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Theme string `json:"theme"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	v := s.visitor(w, r)
	var theme schema.ThemeName
	if strings.TrimSpace(payload.Theme) == "" {
		theme = v.prefs.CycleTheme()
	} else {
		normalized, ok := schema.NormalizeThemeName(payload.Theme)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %q", schema.ErrInvalidTheme, payload.Theme))
			return
		}
		v.prefs.SetTheme(normalized)
		theme = normalized
	}
	logx.Ctx(r.Context()).With("visitor", v.id).Debug("http theme set", "theme", theme)
	writeJSON(w, http.StatusOK, map[string]any{"theme": theme})
}

// visitor returns the caller's visitor, issuing a cookie for new ones.
func (s *Server) visitor(w http.ResponseWriter, r *http.Request) visitor {
	if v, ok := s.visitors.get(s.visitorToken(r)); ok {
		return v
	}
	token, v := s.visitors.create()
	path := s.mountPath()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.VisitorCookie,
		Value:    token,
		Path:     path,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  v.expiresAt,
	})
	return v
}

func (s *Server) theme(r *http.Request) schema.ThemeName {
	if v, ok := s.visitors.get(s.visitorToken(r)); ok {
		return v.prefs.Theme()
	}
	return s.visitors.theme
}

func (s *Server) visitorToken(r *http.Request) string {
	cookie, err := r.Cookie(s.cfg.VisitorCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Server) lookupVisitor(r *http.Request) string {
	if s == nil || r == nil {
		return ""
	}
	v, ok := s.visitors.get(s.visitorToken(r))
	if !ok {
		return ""
	}
	return v.id
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case schema.IsNotFound(err), errors.Is(err, schema.ErrInvalidSlug):
		return http.StatusNotFound
	case errors.Is(err, schema.ErrTooManySessions):
		return http.StatusTooManyRequests
	case schema.IsInvalid(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(body io.Reader, target any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	log := logx.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		log.Warn("http api failed", "path", r.URL.Path, "err", err)
	} else {
		log.Debug("http api rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	writeError(w, status, err)
}

func writeSSEvent(w io.Writer, event StreamEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if event.Seq > 0 {
		if _, err := fmt.Fprintf(w, "id: %d\n", event.Seq); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", strings.TrimSpace(string(data)))
	return err
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
