package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"pkt.systems/folio/demos"
	"pkt.systems/folio/internal/content"
	"pkt.systems/folio/internal/logx"
	"pkt.systems/folio/schema"
)

var pageNames = []string{"index", "projects", "project", "blog", "post", "error"}

var pageFuncs = template.FuncMap{
	// trusted marks author-controlled HTML rendered from local markdown.
	"trusted": func(s string) template.HTML { return template.HTML(s) },
	"label":   schema.CategoryLabel,
}

var pages = mustParsePages()

func mustParsePages() map[string]*template.Template {
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl := template.Must(template.New(name).Funcs(pageFuncs).ParseFS(embeddedTemplates, "templates/layout.html", "templates/"+name+".html"))
		out[name] = tpl
	}
	return out
}

type pageData struct {
	Title    string
	BaseHref string
	Theme    schema.ThemeName
	Active   string
	Year     int
	Profile  schema.Profile
	Body     any
}

type demoCard struct {
	ID    schema.DemoID
	Title string
	Lines []DemoLine
}

type projectCard struct {
	Project  schema.Project
	Href     string
	External bool
	Demo     *demoCard
}

type indexBody struct {
	Featured []projectCard
	Others   []projectCard
	Posts    []schema.Post
}

type projectsBody struct {
	Category   schema.ProjectCategory
	Categories []schema.ProjectCategory
	Projects   []projectCard
	// Preview is the project shown in the side pane.
	Preview *projectCard
}

type projectBody struct {
	Project schema.Project
	Demo    *demoCard
	Posts   []schema.Post
}

type blogBody struct {
	Category   schema.PostCategory
	Categories []schema.PostCategory
	Years      []schema.YearGroup
}

type postBody struct {
	Post    schema.Post
	Project *schema.Project
}

type errorBody struct {
	Path    string
	Message string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	featured, err := s.service.ListFeatured(ctx, schema.ListFeaturedRequest{})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	posts, err := s.service.ListPosts(ctx, schema.ListPostsRequest{Limit: s.previewLimit})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	body := indexBody{Posts: posts.Posts}
	for _, p := range featured.Featured {
		card := s.projectCard(p)
		if info, ok := featured.Demos[p.Slug]; ok {
			card.Demo = s.demoCard(info)
		}
		body.Featured = append(body.Featured, card)
	}
	for _, p := range featured.Others {
		body.Others = append(body.Others, s.projectCard(p))
	}
	s.renderPage(w, r, http.StatusOK, "index", "", "", body)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("category")
	resp, err := s.service.ListProjects(r.Context(), schema.ListProjectsRequest{Category: schema.ProjectCategory(raw)})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	cat, _ := schema.NormalizeProjectCategory(raw)
	body := projectsBody{Category: cat, Categories: resp.Categories}
	for _, p := range resp.Projects {
		card := s.projectCard(p)
		if d, ok := demos.ForProject(p.Slug); ok {
			card.Demo = s.demoCard(d.Info())
		}
		body.Projects = append(body.Projects, card)
	}
	body.Preview = previewCard(body.Projects, schema.Slug(r.URL.Query().Get("preview")))
	s.renderPage(w, r, http.StatusOK, "projects", "Projects", "projects", body)
}

// previewCard picks the card named by slug, or the newest one.
func previewCard(cards []projectCard, slug schema.Slug) *projectCard {
	if len(cards) == 0 {
		return nil
	}
	if normalized, err := schema.NormalizeSlug(string(slug)); err == nil {
		for i := range cards {
			if cards[i].Project.Slug == normalized {
				return &cards[i]
			}
		}
	}
	return &cards[0]
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.GetProject(r.Context(), schema.GetProjectRequest{Slug: schema.Slug(r.PathValue("slug"))})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	body := projectBody{Project: resp.Project, Posts: resp.Posts}
	if resp.Demo != nil {
		body.Demo = s.demoCard(*resp.Demo)
	}
	s.renderPage(w, r, http.StatusOK, "project", resp.Project.Title, "projects", body)
}

func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("category")
	resp, err := s.service.ListPostsByYear(r.Context(), schema.ListPostsByYearRequest{Category: schema.PostCategory(raw)})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	body := blogBody{
		Categories: []schema.PostCategory{schema.PostCategoryTech, schema.PostCategoryProject, schema.PostCategoryThoughts},
		Years:      resp.Years,
	}
	if raw != "" {
		body.Category, _ = schema.NormalizePostCategory(raw)
	}
	s.renderPage(w, r, http.StatusOK, "blog", "Blog", "blog", body)
}

func (s *Server) handleBlogPost(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.GetPost(r.Context(), schema.GetPostRequest{Slug: schema.Slug(r.PathValue("slug"))})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderPage(w, r, http.StatusOK, "post", resp.Post.Title, "blog", postBody{Post: resp.Post, Project: resp.Project})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusNotFound, "error", "Not found", "", errorBody{
		Path:    r.URL.Path,
		Message: "No such file or directory.",
	})
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logx.Ctx(r.Context()).Warn("http page failed", "path", r.URL.Path, "err", err)
	}
	s.renderPage(w, r, status, "error", http.StatusText(status), "", errorBody{
		Path:    r.URL.Path,
		Message: err.Error(),
	})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name, title, active string, body any) {
	tpl, ok := pages[name]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown page %q", name), http.StatusInternalServerError)
		return
	}
	data := pageData{
		Title:    title,
		BaseHref: s.baseHref,
		Theme:    s.theme(r),
		Active:   active,
		Year:     time.Now().Year(),
		Profile:  s.profile(r.Context()),
		Body:     body,
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		logx.Ctx(r.Context()).Error("http render failed", "page", name, "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) profile(ctx context.Context) schema.Profile {
	resp, err := s.service.GetProfile(ctx, schema.GetProfileRequest{})
	if err != nil {
		return schema.Profile{}
	}
	return resp.Profile
}

func (s *Server) projectCard(p schema.Project) projectCard {
	card := projectCard{Project: p, External: content.IsExternal(p)}
	if card.External {
		card.Href = content.ProjectHref(p)
	} else {
		card.Href = "projects/" + string(p.Slug)
	}
	return card
}

// demoCard renders the idle frame so the pane is not empty before the
// stream connects.
func (s *Server) demoCard(info schema.DemoInfo) *demoCard {
	card := &demoCard{ID: info.ID, Title: info.Title}
	d, err := demos.Get(info.ID)
	if err != nil {
		return card
	}
	card.Lines = toDemoLines(demos.Render(d, d.IdleFrame(), s.width))
	return card
}
