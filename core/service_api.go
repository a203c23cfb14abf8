package core

import (
	"context"

	"pkt.systems/folio/schema"
)

// Service is the transport-agnostic API for portfolio content and demo sessions.
type Service interface {
	GetProfile(ctx context.Context, req schema.GetProfileRequest) (schema.GetProfileResponse, error)
	ListPosts(ctx context.Context, req schema.ListPostsRequest) (schema.ListPostsResponse, error)
	GetPost(ctx context.Context, req schema.GetPostRequest) (schema.GetPostResponse, error)
	ListPostsByYear(ctx context.Context, req schema.ListPostsByYearRequest) (schema.ListPostsByYearResponse, error)
	ListProjects(ctx context.Context, req schema.ListProjectsRequest) (schema.ListProjectsResponse, error)
	GetProject(ctx context.Context, req schema.GetProjectRequest) (schema.GetProjectResponse, error)
	ListFeatured(ctx context.Context, req schema.ListFeaturedRequest) (schema.ListFeaturedResponse, error)
	ListDemos(ctx context.Context, req schema.ListDemosRequest) (schema.ListDemosResponse, error)
	MountDemo(ctx context.Context, req schema.MountDemoRequest) (schema.MountDemoResponse, error)
	UnmountDemo(ctx context.Context, req schema.UnmountDemoRequest) (schema.UnmountDemoResponse, error)
	DemoSnapshot(ctx context.Context, req schema.DemoSnapshotRequest) (schema.DemoSnapshotResponse, error)
	UpdateVisibility(ctx context.Context, req schema.UpdateVisibilityRequest) (schema.UpdateVisibilityResponse, error)
	SetReplayToken(ctx context.Context, req schema.SetReplayTokenRequest) (schema.SetReplayTokenResponse, error)
	HoverDemo(ctx context.Context, req schema.HoverDemoRequest) (schema.HoverDemoResponse, error)
	ReloadContent(ctx context.Context, req schema.ReloadContentRequest) (schema.ReloadContentResponse, error)
	// WatchContent reloads content on file changes until ctx is done. It
	// returns immediately when the service serves embedded content.
	WatchContent(ctx context.Context) error
	// Close unmounts every demo session.
	Close() error
}
