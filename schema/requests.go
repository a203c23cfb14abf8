package schema

// Profile.

// GetProfileRequest describes a request for the site profile.
type GetProfileRequest struct{}

// GetProfileResponse reports the site profile.
type GetProfileResponse struct {
	Profile Profile
}

// Posts.

// ListPostsRequest lists posts, newest first.
type ListPostsRequest struct {
	// Category filters posts when set.
	Category PostCategory
	// Limit caps the number of posts when positive.
	Limit int
}

// ListPostsResponse reports posts.
type ListPostsResponse struct {
	Posts []Post
}

// GetPostRequest describes a request for a single post.
type GetPostRequest struct {
	Slug Slug
}

// GetPostResponse reports a post and its linked project.
type GetPostResponse struct {
	Post    Post
	Project *Project
}

// ListPostsByYearRequest groups posts by publication year.
type ListPostsByYearRequest struct {
	Category PostCategory
}

// ListPostsByYearResponse reports year groups, newest year first.
type ListPostsByYearResponse struct {
	Years []YearGroup
}

// Projects.

// ListProjectsRequest lists projects, newest first.
type ListProjectsRequest struct {
	Category ProjectCategory
}

// ListProjectsResponse reports projects and the available categories.
type ListProjectsResponse struct {
	Projects   []Project
	Categories []ProjectCategory
}

// GetProjectRequest describes a request for a single project.
type GetProjectRequest struct {
	Slug Slug
}

// GetProjectResponse reports a project and its demo, if any.
type GetProjectResponse struct {
	Project Project
	Demo    *DemoInfo
	Posts   []Post
}

// ListFeaturedRequest lists featured projects and the rest.
type ListFeaturedRequest struct{}

// ListFeaturedResponse splits the catalog into featured and other projects.
type ListFeaturedResponse struct {
	Featured []Project
	Others   []Project
	Demos    map[Slug]DemoInfo
}

// Demos.

// ListDemosRequest lists the demo catalog.
type ListDemosRequest struct{}

// ListDemosResponse reports the demo catalog.
type ListDemosResponse struct {
	Demos []DemoInfo
}

// MountDemoRequest mounts a new demo instance.
type MountDemoRequest struct {
	DemoID DemoID
	// ReplayToken seeds the last consumed replay token.
	ReplayToken uint64
	// Loop overrides the demo's loop setting when set.
	Loop *bool
}

// MountDemoResponse reports the mounted session.
type MountDemoResponse struct {
	SessionID SessionID
	Demo      DemoInfo
	Frame     DemoFrame
}

// UnmountDemoRequest tears down a demo instance.
type UnmountDemoRequest struct {
	SessionID SessionID
}

// UnmountDemoResponse reports the final frame of the session.
type UnmountDemoResponse struct {
	Frame DemoFrame
}

// DemoSnapshotRequest reads the current frame of a session.
type DemoSnapshotRequest struct {
	SessionID SessionID
}

// DemoSnapshotResponse reports the current frame.
type DemoSnapshotResponse struct {
	DemoID DemoID
	Frame  DemoFrame
}

// UpdateVisibilityRequest reports how much of the demo is visible.
type UpdateVisibilityRequest struct {
	SessionID SessionID
	// Ratio is the visible fraction in [0, 1].
	Ratio float64
}

// UpdateVisibilityResponse reports whether the update started playback.
type UpdateVisibilityResponse struct {
	InView    bool
	Triggered bool
}

// SetReplayTokenRequest forwards an externally incremented replay token.
type SetReplayTokenRequest struct {
	SessionID SessionID
	Token     uint64
}

// SetReplayTokenResponse reports whether the token caused a replay.
type SetReplayTokenResponse struct {
	Triggered bool
}

// HoverDemoRequest reports a hover over a featured demo card.
type HoverDemoRequest struct {
	SessionID SessionID
}

// HoverDemoResponse reports the token after the hover.
type HoverDemoResponse struct {
	Token     uint64
	Triggered bool
}

// Content.

// ReloadContentRequest asks the service to re-read its content source.
type ReloadContentRequest struct{}

// ReloadContentResponse reports the reloaded content counts.
type ReloadContentResponse struct {
	Posts    int
	Projects int
}
