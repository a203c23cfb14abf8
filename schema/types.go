package schema

import "time"

// Slug identifies a post or project by its file name.
type Slug string

// PostCategory classifies a blog post.
type PostCategory string

// ProjectCategory groups projects by their tags.
type ProjectCategory string

// DemoID identifies a scripted demo.
type DemoID string

// SessionID identifies a mounted demo instance.
type SessionID string

// ThemeName identifies a UI theme.
type ThemeName string

// Phase names a stage of a demo script.
type Phase string

const (
	// PostCategoryTech is technical writing.
	PostCategoryTech PostCategory = "tech"
	// PostCategoryProject is a write-up about a project.
	PostCategoryProject PostCategory = "project"
	// PostCategoryThoughts is everything else.
	PostCategoryThoughts PostCategory = "thoughts"
)

// DefaultPostCategory is used when a post omits its category.
const DefaultPostCategory = PostCategoryThoughts

const (
	ProjectCategoryAll         ProjectCategory = "All"
	ProjectCategoryAI          ProjectCategory = "AI"
	ProjectCategoryWeb         ProjectCategory = "Web"
	ProjectCategoryInteractive ProjectCategory = "Interactive"
	ProjectCategoryResearch    ProjectCategory = "Research"
)

// Post is a parsed blog post.
type Post struct {
	Slug        Slug         `json:"slug"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Date        string       `json:"date"`
	Published   time.Time    `json:"-"`
	Category    PostCategory `json:"category"`
	Project     Slug         `json:"project,omitempty"`
	Body        string       `json:"-"`
	HTML        string       `json:"html,omitempty"`
}

// Project is a parsed project record.
type Project struct {
	Slug        Slug      `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Published   time.Time `json:"-"`
	Tags        []string  `json:"tags"`
	Image       string    `json:"image,omitempty"`
	URL         string    `json:"url,omitempty"`
	GitHub      string    `json:"github,omitempty"`
	Featured    bool      `json:"featured"`
	CodeSnippet string    `json:"code_snippet,omitempty"`
	Body        string    `json:"-"`
	HTML        string    `json:"html,omitempty"`
}

// YearGroup collects posts published in the same year.
type YearGroup struct {
	Year  int    `json:"year"`
	Posts []Post `json:"posts"`
}

// Profile is the biography shown on the home page.
type Profile struct {
	Name       string       `json:"name"`
	Role       string       `json:"role"`
	Tagline    string       `json:"tagline"`
	Location   string       `json:"location,omitempty"`
	About      []string     `json:"about"`
	Experience []Experience `json:"experience"`
	Education  Education    `json:"education"`
	Links      []Link       `json:"links"`
}

// Experience is one entry of the work history.
type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Type        string `json:"type"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// Education describes the degree shown next to the work history.
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Major  string `json:"major"`
	Period string `json:"period"`
	GPA    string `json:"gpa,omitempty"`
}

// Link is a contact link.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// DemoInfo summarizes a demo for listings.
type DemoInfo struct {
	ID      DemoID  `json:"id"`
	Title   string  `json:"title"`
	Project Slug    `json:"project,omitempty"`
	Phases  []Phase `json:"phases"`
	Loop    bool    `json:"loop"`
}

// DemoFrame is the observable state of a demo session at one instant.
type DemoFrame struct {
	Run      uint64            `json:"run"`
	Seq      uint64            `json:"seq"`
	Phase    Phase             `json:"phase"`
	Counters map[string]int    `json:"counters,omitempty"`
	Texts    map[string]string `json:"texts,omitempty"`
	Flags    map[string]bool   `json:"flags,omitempty"`
	Complete bool              `json:"complete"`
}
