package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"pkt.systems/folio/demos"
	"pkt.systems/folio/internal/content"
	"pkt.systems/folio/internal/logx"
	"pkt.systems/folio/playback"
	"pkt.systems/folio/schema"
	"pkt.systems/pslog"
)

// service implements the core service behavior.
type service struct {
	cfg     schema.ServiceConfig
	source  fs.FS
	profile schema.Profile
	clock   playback.Clock
	sink    EventSink
	logger  pslog.Logger
	store   *content.Store

	mu       sync.Mutex
	sessions map[schema.SessionID]*demoSession
	closed   bool
}

var errMissingContext = errors.New("missing context")

// NewService constructs the core service implementation and loads content.
func NewService(cfg schema.ServiceConfig, deps ServiceDeps) (Service, error) {
	normalized, err := schema.NormalizeServiceConfig(cfg)
	if err != nil {
		return nil, err
	}
	cfg = normalized
	if err := demos.Validate(); err != nil {
		return nil, err
	}
	source := deps.Content
	if source == nil {
		if cfg.ContentDir != "" {
			info, err := os.Stat(cfg.ContentDir)
			if err != nil {
				return nil, fmt.Errorf("content dir: %w", err)
			}
			if !info.IsDir() {
				return nil, fmt.Errorf("content dir %s is not a directory", cfg.ContentDir)
			}
			source = os.DirFS(cfg.ContentDir)
		} else {
			source = content.Starter()
		}
	}
	snap, err := content.Load(source)
	if err != nil {
		return nil, err
	}
	if deps.Clock == nil {
		deps.Clock = playback.SystemClock{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &service{
		cfg:      cfg,
		source:   source,
		profile:  deps.Profile,
		clock:    deps.Clock,
		sink:     deps.EventSink,
		logger:   logger,
		store:    content.NewStore(snap),
		sessions: make(map[schema.SessionID]*demoSession),
	}, nil
}

func (s *service) GetProfile(ctx context.Context, _ schema.GetProfileRequest) (schema.GetProfileResponse, error) {
	if ctx == nil {
		return schema.GetProfileResponse{}, errMissingContext
	}
	return schema.GetProfileResponse{Profile: s.profile}, nil
}

func (s *service) ListPosts(ctx context.Context, req schema.ListPostsRequest) (schema.ListPostsResponse, error) {
	if ctx == nil {
		return schema.ListPostsResponse{}, errMissingContext
	}
	if req.Limit < 0 {
		return schema.ListPostsResponse{}, fmt.Errorf("%w: negative limit", schema.ErrInvalidRequest)
	}
	posts, err := s.postsInCategory(req.Category)
	if err != nil {
		return schema.ListPostsResponse{}, err
	}
	if req.Limit > 0 && len(posts) > req.Limit {
		posts = posts[:req.Limit]
	}
	return schema.ListPostsResponse{Posts: posts}, nil
}

func (s *service) postsInCategory(raw schema.PostCategory) ([]schema.Post, error) {
	snap := s.store.Snapshot()
	if strings.TrimSpace(string(raw)) == "" {
		return snap.AllPosts(), nil
	}
	cat, err := schema.NormalizePostCategory(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, raw)
	}
	return snap.PostsByCategory(cat), nil
}

func (s *service) GetPost(ctx context.Context, req schema.GetPostRequest) (schema.GetPostResponse, error) {
	if ctx == nil {
		return schema.GetPostResponse{}, errMissingContext
	}
	slug, err := schema.NormalizeSlug(string(req.Slug))
	if err != nil {
		return schema.GetPostResponse{}, err
	}
	snap := s.store.Snapshot()
	post, err := snap.Post(slug)
	if err != nil {
		logx.WithSlug(pslog.Ctx(ctx), slug).Debug("service post miss")
		return schema.GetPostResponse{}, err
	}
	resp := schema.GetPostResponse{Post: post}
	if post.Project != "" {
		if project, err := snap.Project(post.Project); err == nil {
			resp.Project = &project
		}
	}
	return resp, nil
}

func (s *service) ListPostsByYear(ctx context.Context, req schema.ListPostsByYearRequest) (schema.ListPostsByYearResponse, error) {
	if ctx == nil {
		return schema.ListPostsByYearResponse{}, errMissingContext
	}
	posts, err := s.postsInCategory(req.Category)
	if err != nil {
		return schema.ListPostsByYearResponse{}, err
	}
	return schema.ListPostsByYearResponse{Years: content.PostsByYear(posts)}, nil
}

func (s *service) ListProjects(ctx context.Context, req schema.ListProjectsRequest) (schema.ListProjectsResponse, error) {
	if ctx == nil {
		return schema.ListProjectsResponse{}, errMissingContext
	}
	cat, err := schema.NormalizeProjectCategory(string(req.Category))
	if err != nil {
		return schema.ListProjectsResponse{}, fmt.Errorf("%w: %q", err, req.Category)
	}
	return schema.ListProjectsResponse{
		Projects:   s.store.Snapshot().ProjectsByCategory(cat),
		Categories: schema.ProjectCategories(),
	}, nil
}

func (s *service) GetProject(ctx context.Context, req schema.GetProjectRequest) (schema.GetProjectResponse, error) {
	if ctx == nil {
		return schema.GetProjectResponse{}, errMissingContext
	}
	slug, err := schema.NormalizeSlug(string(req.Slug))
	if err != nil {
		return schema.GetProjectResponse{}, err
	}
	snap := s.store.Snapshot()
	project, err := snap.Project(slug)
	if err != nil {
		logx.WithSlug(pslog.Ctx(ctx), slug).Debug("service project miss")
		return schema.GetProjectResponse{}, err
	}
	resp := schema.GetProjectResponse{Project: project, Posts: snap.PostsForProject(slug)}
	if demo, ok := demos.ForProject(slug); ok {
		info := demo.Info()
		resp.Demo = &info
	}
	return resp, nil
}

func (s *service) ListFeatured(ctx context.Context, _ schema.ListFeaturedRequest) (schema.ListFeaturedResponse, error) {
	if ctx == nil {
		return schema.ListFeaturedResponse{}, errMissingContext
	}
	snap := s.store.Snapshot()
	resp := schema.ListFeaturedResponse{
		Featured: snap.FeaturedProjects(),
		Others:   snap.OtherProjects(),
		Demos:    make(map[schema.Slug]schema.DemoInfo),
	}
	for _, p := range resp.Featured {
		if demo, ok := demos.ForProject(p.Slug); ok {
			resp.Demos[p.Slug] = demo.Info()
		}
	}
	return resp, nil
}

func (s *service) ListDemos(ctx context.Context, _ schema.ListDemosRequest) (schema.ListDemosResponse, error) {
	if ctx == nil {
		return schema.ListDemosResponse{}, errMissingContext
	}
	all := demos.All()
	out := make([]schema.DemoInfo, 0, len(all))
	for _, d := range all {
		out = append(out, d.Info())
	}
	return schema.ListDemosResponse{Demos: out}, nil
}

func (s *service) ReloadContent(ctx context.Context, _ schema.ReloadContentRequest) (schema.ReloadContentResponse, error) {
	if ctx == nil {
		return schema.ReloadContentResponse{}, errMissingContext
	}
	snap, err := content.Load(s.source)
	s.contentReloaded(snap, err)
	if err != nil {
		return schema.ReloadContentResponse{}, err
	}
	return schema.ReloadContentResponse{Posts: len(snap.AllPosts()), Projects: len(snap.AllProjects())}, nil
}

func (s *service) WatchContent(ctx context.Context) error {
	if ctx == nil {
		return errMissingContext
	}
	if s.cfg.ContentDir == "" {
		return nil
	}
	w, err := content.NewWatcher(s.cfg.ContentDir, content.DefaultDebounce, s.contentReloaded)
	if err != nil {
		return err
	}
	pslog.Ctx(ctx).Info("content watch start", "content_dir", s.cfg.ContentDir)
	return w.Run(ctx)
}

// contentReloaded swaps in a good snapshot and reports every attempt. A
// failed reload keeps serving the previous snapshot.
func (s *service) contentReloaded(snap *content.Snapshot, err error) {
	event := schema.ContentEvent{At: time.Now().UTC()}
	if err != nil {
		s.logger.Warn("content reload failed", "err", err)
		event.Err = err.Error()
	} else {
		s.store.Swap(snap)
		event.Posts = len(snap.AllPosts())
		event.Projects = len(snap.AllProjects())
		s.logger.Info("content reload", "posts", event.Posts, "projects", event.Projects)
	}
	if s.sink != nil {
		s.sink.OnContentEvent(event)
	}
}
