package httpapi

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"pkt.systems/folio/internal/logx"
	"pkt.systems/folio/schema"
)

type postSummary struct {
	Slug        schema.Slug         `json:"slug"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Date        string              `json:"date"`
	Category    schema.PostCategory `json:"category"`
	Project     schema.Slug         `json:"project,omitempty"`
}

func summarizePosts(posts []schema.Post) []postSummary {
	out := make([]postSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, postSummary{
			Slug:        p.Slug,
			Title:       p.Title,
			Description: p.Description,
			Date:        p.Date,
			Category:    p.Category,
			Project:     p.Project,
		})
	}
	return out
}

// stripProjectBodies drops rendered bodies from listings.
func stripProjectBodies(projects []schema.Project) []schema.Project {
	out := make([]schema.Project, len(projects))
	for i, p := range projects {
		p.HTML = ""
		out[i] = p
	}
	return out
}

type yearPayload struct {
	Year  int           `json:"year"`
	Posts []postSummary `json:"posts"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.GetProfile(r.Context(), schema.GetProfileRequest{})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Profile)
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := s.service.ListPosts(r.Context(), schema.ListPostsRequest{
		Category: schema.PostCategory(q.Get("category")),
		Limit:    parseInt(q.Get("limit"), 0),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": summarizePosts(resp.Posts)})
}

func (s *Server) handlePostsByYear(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.ListPostsByYear(r.Context(), schema.ListPostsByYearRequest{
		Category: schema.PostCategory(r.URL.Query().Get("category")),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	years := make([]yearPayload, 0, len(resp.Years))
	for _, y := range resp.Years {
		years = append(years, yearPayload{Year: y.Year, Posts: summarizePosts(y.Posts)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": years})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.GetPost(r.Context(), schema.GetPostRequest{Slug: schema.Slug(r.PathValue("slug"))})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": resp.Post, "project": resp.Project})
}

func (s *Server) handleProjectList(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.ListProjects(r.Context(), schema.ListProjectsRequest{
		Category: schema.ProjectCategory(r.URL.Query().Get("category")),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"projects":   stripProjectBodies(resp.Projects),
		"categories": resp.Categories,
	})
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.ListFeatured(r.Context(), schema.ListFeaturedRequest{})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"featured": stripProjectBodies(resp.Featured),
		"others":   stripProjectBodies(resp.Others),
		"demos":    resp.Demos,
	})
}

func (s *Server) handleProjectDetail(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.GetProject(r.Context(), schema.GetProjectRequest{Slug: schema.Slug(r.PathValue("slug"))})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"project": resp.Project,
		"demo":    resp.Demo,
		"posts":   summarizePosts(resp.Posts),
	})
}

func (s *Server) handleDemos(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.ListDemos(r.Context(), schema.ListDemosRequest{})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"demos": resp.Demos})
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.ListDemos(r.Context(), schema.ListDemosRequest{})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	id := schema.DemoID(r.PathValue("id"))
	for _, d := range resp.Demos {
		if d.ID == id {
			writeJSON(w, http.StatusOK, d)
			return
		}
	}
	writeServiceError(w, r, fmt.Errorf("%w: %q", schema.ErrDemoNotFound, id))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.DemoSnapshot(r.Context(), schema.DemoSnapshotRequest{SessionID: schema.SessionID(r.PathValue("sid"))})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"demo_id": resp.DemoID,
		"frame":   resp.Frame,
		"lines":   renderDemoLines(resp.DemoID, resp.Frame, s.width),
	})
}

func (s *Server) handleUnmount(w http.ResponseWriter, r *http.Request) {
	sid := schema.SessionID(r.PathValue("sid"))
	resp, err := s.service.UnmountDemo(r.Context(), schema.UnmountDemoRequest{SessionID: sid})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"frame": resp.Frame})
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	sid := schema.SessionID(r.PathValue("sid"))
	var payload struct {
		Ratio *float64 `json:"ratio"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if payload.Ratio == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: ratio is required", schema.ErrInvalidRequest))
		return
	}
	ratio := *payload.Ratio
	if math.IsNaN(ratio) {
		ratio = 0
	}
	resp, err := s.service.UpdateVisibility(r.Context(), schema.UpdateVisibilityRequest{SessionID: sid, Ratio: ratio})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if resp.Triggered {
		logx.WithSession(logx.Ctx(r.Context()), sid).Debug("http demo started", "ratio", ratio)
	}
	writeJSON(w, http.StatusOK, map[string]any{"in_view": resp.InView, "triggered": resp.Triggered})
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	sid := schema.SessionID(r.PathValue("sid"))
	var payload struct {
		Token *uint64 `json:"token"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if payload.Token == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: token is required", schema.ErrInvalidRequest))
		return
	}
	resp, err := s.service.SetReplayToken(r.Context(), schema.SetReplayTokenRequest{SessionID: sid, Token: *payload.Token})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"triggered": resp.Triggered})
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	sid := schema.SessionID(r.PathValue("sid"))
	var payload struct{}
	if err := decodeJSON(r.Body, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	resp, err := s.service.HoverDemo(r.Context(), schema.HoverDemoRequest{SessionID: sid})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": resp.Token, "triggered": resp.Triggered})
}
