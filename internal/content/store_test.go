package content

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"pkt.systems/folio/schema"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"blog/newest.md":  {Data: []byte("---\ntitle: Newest\ndate: 2025-03-01\ncategory: tech\n---\n# Hello\n")},
		"blog/older.mdx":  {Data: []byte("---\ntitle: Older\ndate: 2024-06-01\ncategory: project\nproject: alpha\n---\nbody\n")},
		"blog/undated.md": {Data: []byte("---\ntitle: Undated\n---\nbody\n")},
		"blog/notes.txt":  {Data: []byte("ignored")},

		"projects/alpha.md": {Data: []byte("---\ntitle: Alpha\ndate: 2024-01-01\ntags: [AI, React]\nfeatured: true\n---\nAlpha body\n")},
		"projects/beta.md":  {Data: []byte("---\ntitle: Beta\ndate: 2025-01-01\ntags: [Unity]\ngithub: https://github.com/x/beta\n---\n")},
		"projects/gamma.md": {Data: []byte("---\ndate: 2023-01-01\n---\n")},
	}
}

func postSlugs(posts []schema.Post) []schema.Slug {
	out := make([]schema.Slug, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Slug)
	}
	return out
}

func projectSlugs(projects []schema.Project) []schema.Slug {
	out := make([]schema.Slug, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Slug)
	}
	return out
}

func TestLoadSortsNewestFirst(t *testing.T) {
	snap, err := Load(testFS())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]schema.Slug{"newest", "older", "undated"}, postSlugs(snap.AllPosts())); diff != "" {
		t.Fatalf("post order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]schema.Slug{"beta", "alpha", "gamma"}, projectSlugs(snap.AllProjects())); diff != "" {
		t.Fatalf("project order (-want +got):\n%s", diff)
	}
}

func TestLoadDefaults(t *testing.T) {
	snap, err := Load(testFS())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	post, err := snap.Post("undated")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if post.Category != schema.PostCategoryThoughts {
		t.Fatalf("expected default category, got %q", post.Category)
	}
	project, err := snap.Project("gamma")
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if project.Title != "gamma" {
		t.Fatalf("expected title to default to slug, got %q", project.Title)
	}
	newest, _ := snap.Post("newest")
	if newest.HTML != "<h1 id=\"hello\">Hello</h1>\n" {
		t.Fatalf("unexpected html %q", newest.HTML)
	}
	older, _ := snap.Post("older")
	if older.Project != "alpha" {
		t.Fatalf("expected linked project, got %q", older.Project)
	}
}

func TestLoadMissingDirs(t *testing.T) {
	snap, err := Load(fstest.MapFS{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.AllPosts()) != 0 || len(snap.AllProjects()) != 0 {
		t.Fatal("expected empty snapshot")
	}
}

func TestLoadReportsBadFile(t *testing.T) {
	fsys := testFS()
	fsys["blog/broken.md"] = &fstest.MapFile{Data: []byte("---\ntitle: [unclosed\n---\n")}
	fsys["blog/weird.md"] = &fstest.MapFile{Data: []byte("---\ncategory: gossip\n---\n")}
	_, err := Load(fsys)
	if err == nil {
		t.Fatal("expected load error")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if !errors.Is(err, schema.ErrInvalidCategory) {
		t.Fatalf("expected invalid category to be reported, got %v", err)
	}
}

func TestQueries(t *testing.T) {
	snap, err := Load(testFS())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]schema.Slug{"older"}, postSlugs(snap.PostsByCategory(schema.PostCategoryProject))); diff != "" {
		t.Fatalf("by category (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]schema.Slug{"older"}, postSlugs(snap.PostsForProject("alpha"))); diff != "" {
		t.Fatalf("for project (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]schema.Slug{"alpha"}, projectSlugs(snap.FeaturedProjects())); diff != "" {
		t.Fatalf("featured (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]schema.Slug{"beta", "gamma"}, projectSlugs(snap.OtherProjects())); diff != "" {
		t.Fatalf("others (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]schema.Slug{"beta"}, projectSlugs(snap.ProjectsByCategory(schema.ProjectCategoryInteractive))); diff != "" {
		t.Fatalf("interactive (-want +got):\n%s", diff)
	}
	if got := len(snap.ProjectsByCategory(schema.ProjectCategoryAll)); got != 3 {
		t.Fatalf("expected All to match every project, got %d", got)
	}
	if _, err := snap.Post("missing"); !errors.Is(err, schema.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if _, err := snap.Project("missing"); !errors.Is(err, schema.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestPostsByYear(t *testing.T) {
	snap, err := Load(testFS())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	groups := snap.PostsByYear()
	var years []int
	for _, g := range groups {
		years = append(years, g.Year)
	}
	if diff := cmp.Diff([]int{2025, 2024, 0}, years); diff != "" {
		t.Fatalf("years (-want +got):\n%s", diff)
	}
}

func TestStoreSwap(t *testing.T) {
	store := NewStore(nil)
	if len(store.Snapshot().AllPosts()) != 0 {
		t.Fatal("expected empty store")
	}
	snap, err := Load(testFS())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	store.Swap(snap)
	if store.Snapshot() != snap {
		t.Fatal("expected swapped snapshot")
	}
}

func TestStarterContentLoads(t *testing.T) {
	snap, err := Load(Starter())
	if err != nil {
		t.Fatalf("load starter: %v", err)
	}
	if len(snap.FeaturedProjects()) == 0 || len(snap.AllPosts()) == 0 {
		t.Fatal("expected starter posts and featured projects")
	}
	for _, p := range snap.AllPosts() {
		if p.Project == "" {
			continue
		}
		if _, err := snap.Project(p.Project); err != nil {
			t.Fatalf("post %s links unknown project %s", p.Slug, p.Project)
		}
	}
}
