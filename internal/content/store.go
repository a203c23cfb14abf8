// Package content loads blog posts and projects from markdown files with
// YAML frontmatter and serves them as immutable, pre-sorted snapshots.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"pkt.systems/folio/schema"
)

const (
	blogDir     = "blog"
	projectsDir = "projects"
)

// Snapshot is one immutable load of the content tree.
type Snapshot struct {
	posts    []schema.Post
	projects []schema.Project
	post     map[schema.Slug]int
	project  map[schema.Slug]int
}

// Load reads blog/ and projects/ from fsys. Missing directories yield empty
// lists. Files that fail to parse are reported together as LoadErrors.
func Load(fsys fs.FS) (*Snapshot, error) {
	var errs []error
	posts, err := loadDir(fsys, blogDir, parsePost)
	errs = append(errs, err)
	projects, err := loadDir(fsys, projectsDir, parseProject)
	errs = append(errs, err)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return newSnapshot(posts, projects), nil
}

func newSnapshot(posts []schema.Post, projects []schema.Project) *Snapshot {
	sort.SliceStable(posts, func(i, j int) bool {
		return newer(posts[i].Published, posts[j].Published, posts[i].Slug, posts[j].Slug)
	})
	sort.SliceStable(projects, func(i, j int) bool {
		return newer(projects[i].Published, projects[j].Published, projects[i].Slug, projects[j].Slug)
	})
	snap := &Snapshot{
		posts:    posts,
		projects: projects,
		post:     make(map[schema.Slug]int, len(posts)),
		project:  make(map[schema.Slug]int, len(projects)),
	}
	for i, p := range posts {
		snap.post[p.Slug] = i
	}
	for i, p := range projects {
		snap.project[p.Slug] = i
	}
	return snap
}

// newer orders by date descending with undated entries last, then by slug.
func newer(a, b time.Time, sa, sb schema.Slug) bool {
	switch {
	case a.IsZero() != b.IsZero():
		return b.IsZero()
	case !a.Equal(b):
		return a.After(b)
	default:
		return sa < sb
	}
}

func loadDir[T any](fsys fs.FS, dir string, parse func(slug schema.Slug, raw []byte) (T, error)) ([]T, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var (
		out  []T
		errs []error
		seen = make(map[schema.Slug]string)
	)
	for _, entry := range entries {
		name := entry.Name()
		ext := path.Ext(name)
		if entry.IsDir() || (ext != ".md" && ext != ".mdx") || strings.HasPrefix(name, ".") {
			continue
		}
		filePath := path.Join(dir, name)
		slug, err := schema.NormalizeSlug(name)
		if err != nil {
			errs = append(errs, &LoadError{Path: filePath, Err: err})
			continue
		}
		if prev, dup := seen[slug]; dup {
			errs = append(errs, &LoadError{Path: filePath, Err: fmt.Errorf("slug %q already used by %s", slug, prev)})
			continue
		}
		seen[slug] = filePath
		raw, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			errs = append(errs, &LoadError{Path: filePath, Err: err})
			continue
		}
		item, err := parse(slug, raw)
		if err != nil {
			errs = append(errs, &LoadError{Path: filePath, Err: err})
			continue
		}
		out = append(out, item)
	}
	return out, errors.Join(errs...)
}

func parsePost(slug schema.Slug, raw []byte) (schema.Post, error) {
	header, body, err := splitFrontmatter(raw)
	if err != nil {
		return schema.Post{}, err
	}
	var meta postMeta
	if err := decodeMeta(header, &meta); err != nil {
		return schema.Post{}, err
	}
	category, err := schema.NormalizePostCategory(meta.Category)
	if err != nil {
		return schema.Post{}, fmt.Errorf("category %q: %w", meta.Category, err)
	}
	var project schema.Slug
	if strings.TrimSpace(meta.Project) != "" {
		project, err = schema.NormalizeSlug(meta.Project)
		if err != nil {
			return schema.Post{}, fmt.Errorf("project %q: %w", meta.Project, err)
		}
	}
	html, err := RenderHTML(string(body))
	if err != nil {
		return schema.Post{}, fmt.Errorf("render: %w", err)
	}
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = string(slug)
	}
	return schema.Post{
		Slug:        slug,
		Title:       title,
		Description: strings.TrimSpace(meta.Description),
		Date:        string(meta.Date),
		Published:   parseDate(string(meta.Date)),
		Category:    category,
		Project:     project,
		Body:        string(body),
		HTML:        html,
	}, nil
}

func parseProject(slug schema.Slug, raw []byte) (schema.Project, error) {
	header, body, err := splitFrontmatter(raw)
	if err != nil {
		return schema.Project{}, err
	}
	var meta projectMeta
	if err := decodeMeta(header, &meta); err != nil {
		return schema.Project{}, err
	}
	html, err := RenderHTML(string(body))
	if err != nil {
		return schema.Project{}, fmt.Errorf("render: %w", err)
	}
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = string(slug)
	}
	tags := make([]string, 0, len(meta.Tags))
	for _, tag := range meta.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return schema.Project{
		Slug:        slug,
		Title:       title,
		Description: strings.TrimSpace(meta.Description),
		Date:        string(meta.Date),
		Published:   parseDate(string(meta.Date)),
		Tags:        tags,
		Image:       meta.Image,
		URL:         meta.URL,
		GitHub:      meta.GitHub,
		Featured:    meta.Featured,
		CodeSnippet: meta.CodeSnippet,
		Body:        string(body),
		HTML:        html,
	}, nil
}

// AllPosts returns every post, newest first.
func (s *Snapshot) AllPosts() []schema.Post {
	return append([]schema.Post(nil), s.posts...)
}

// Post returns the post with the given slug.
func (s *Snapshot) Post(slug schema.Slug) (schema.Post, error) {
	i, ok := s.post[slug]
	if !ok {
		return schema.Post{}, fmt.Errorf("%w: %q", schema.ErrPostNotFound, slug)
	}
	return s.posts[i], nil
}

// PostsByCategory returns the posts in cat, newest first.
func (s *Snapshot) PostsByCategory(cat schema.PostCategory) []schema.Post {
	var out []schema.Post
	for _, p := range s.posts {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// PostsForProject returns the posts linked to a project.
func (s *Snapshot) PostsForProject(slug schema.Slug) []schema.Post {
	var out []schema.Post
	for _, p := range s.posts {
		if p.Project == slug {
			out = append(out, p)
		}
	}
	return out
}

// PostsByYear groups posts by publication year, newest year first. Posts
// without a readable date are grouped under year 0 at the end.
func PostsByYear(posts []schema.Post) []schema.YearGroup {
	var groups []schema.YearGroup
	index := make(map[int]int)
	for _, p := range posts {
		year := 0
		if !p.Published.IsZero() {
			year = p.Published.Year()
		}
		i, ok := index[year]
		if !ok {
			i = len(groups)
			index[year] = i
			groups = append(groups, schema.YearGroup{Year: year})
		}
		groups[i].Posts = append(groups[i].Posts, p)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Year, groups[j].Year
		if a == 0 || b == 0 {
			return b == 0 && a != 0
		}
		return a > b
	})
	return groups
}

// PostsByYear groups all posts by year.
func (s *Snapshot) PostsByYear() []schema.YearGroup {
	return PostsByYear(s.posts)
}

// AllProjects returns every project, newest first.
func (s *Snapshot) AllProjects() []schema.Project {
	return append([]schema.Project(nil), s.projects...)
}

// Project returns the project with the given slug.
func (s *Snapshot) Project(slug schema.Slug) (schema.Project, error) {
	i, ok := s.project[slug]
	if !ok {
		return schema.Project{}, fmt.Errorf("%w: %q", schema.ErrProjectNotFound, slug)
	}
	return s.projects[i], nil
}

// FeaturedProjects returns the featured projects, newest first.
func (s *Snapshot) FeaturedProjects() []schema.Project {
	var out []schema.Project
	for _, p := range s.projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// OtherProjects returns the projects that are not featured.
func (s *Snapshot) OtherProjects() []schema.Project {
	var out []schema.Project
	for _, p := range s.projects {
		if !p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// ProjectsByCategory returns the projects in cat. All matches everything.
func (s *Snapshot) ProjectsByCategory(cat schema.ProjectCategory) []schema.Project {
	var out []schema.Project
	for _, p := range s.projects {
		if InCategory(p, cat) {
			out = append(out, p)
		}
	}
	return out
}

// Store holds the current snapshot and swaps it atomically on reload.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore returns a store serving snap. A nil snap serves empty content.
func NewStore(snap *Snapshot) *Store {
	s := &Store{}
	s.Swap(snap)
	return s
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Swap replaces the current snapshot.
func (s *Store) Swap(snap *Snapshot) {
	if snap == nil {
		snap = newSnapshot(nil, nil)
	}
	s.current.Store(snap)
}
