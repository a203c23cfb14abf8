package appconfig

import (
	"os"
	"path/filepath"

	"pkt.systems/folio/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int           `mapstructure:"config_version" yaml:"config_version"`
	ContentDir    string        `mapstructure:"content_dir" yaml:"content_dir"`
	Site          SiteConfig    `mapstructure:"site" yaml:"site"`
	Service       ServiceConfig `mapstructure:"service" yaml:"service"`
	HTTP          HTTPConfig    `mapstructure:"http" yaml:"http"`
	SSH           SSHConfig     `mapstructure:"ssh" yaml:"ssh"`
	Logging       LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// SiteConfig is the biography shown on the home page, the SSH about tab
// and the contact section.
type SiteConfig struct {
	Name       string             `mapstructure:"name" yaml:"name"`
	Role       string             `mapstructure:"role" yaml:"role"`
	Tagline    string             `mapstructure:"tagline" yaml:"tagline"`
	Location   string             `mapstructure:"location" yaml:"location"`
	About      []string           `mapstructure:"about" yaml:"about"`
	Experience []ExperienceConfig `mapstructure:"experience" yaml:"experience"`
	Education  EducationConfig    `mapstructure:"education" yaml:"education"`
	Links      []LinkConfig       `mapstructure:"links" yaml:"links"`
}

// ExperienceConfig is one work history entry.
type ExperienceConfig struct {
	Company     string `mapstructure:"company" yaml:"company"`
	Role        string `mapstructure:"role" yaml:"role"`
	Type        string `mapstructure:"type" yaml:"type"`
	Period      string `mapstructure:"period" yaml:"period"`
	Description string `mapstructure:"description" yaml:"description"`
}

// EducationConfig describes the degree.
type EducationConfig struct {
	School string `mapstructure:"school" yaml:"school"`
	Degree string `mapstructure:"degree" yaml:"degree"`
	Major  string `mapstructure:"major" yaml:"major"`
	Period string `mapstructure:"period" yaml:"period"`
	GPA    string `mapstructure:"gpa" yaml:"gpa"`
}

// LinkConfig is a contact link.
type LinkConfig struct {
	Label string `mapstructure:"label" yaml:"label"`
	Href  string `mapstructure:"href" yaml:"href"`
}

// ServiceConfig controls core service behavior.
type ServiceConfig struct {
	VisibilityThreshold float64 `mapstructure:"visibility_threshold" yaml:"visibility_threshold"`
	AutoLoop            bool    `mapstructure:"auto_loop" yaml:"auto_loop"`
	MaxSessions         int     `mapstructure:"max_sessions" yaml:"max_sessions"`
	BlogPreviewLimit    int     `mapstructure:"blog_preview_limit" yaml:"blog_preview_limit"`
	DefaultTheme        string  `mapstructure:"default_theme" yaml:"default_theme"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	BasePath string `mapstructure:"base_path" yaml:"base_path"`
}

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Addr               string `mapstructure:"addr" yaml:"addr"`
	HostKeyPath        string `mapstructure:"host_key_path" yaml:"host_key_path"`
	IdleTimeoutMinutes int    `mapstructure:"idle_timeout_minutes" yaml:"idle_timeout_minutes"`
}

// LoggingConfig controls request logging.
type LoggingConfig struct {
	DisableAccessLog bool `mapstructure:"disable_access_log" yaml:"disable_access_log"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		ContentDir:    "",
		Site:          DefaultSite(),
		Service: ServiceConfig{
			VisibilityThreshold: schema.DefaultVisibilityThreshold,
			AutoLoop:            false,
			MaxSessions:         schema.DefaultMaxSessions,
			BlogPreviewLimit:    schema.DefaultBlogPreviewLimit,
			DefaultTheme:        string(schema.DefaultTheme),
		},
		HTTP: HTTPConfig{
			Addr:     ":27480",
			BaseURL:  "",
			BasePath: "",
		},
		SSH: SSHConfig{
			Addr:               ":27422",
			HostKeyPath:        filepath.Join(home, ".folio", "ssh_host_key"),
			IdleTimeoutMinutes: 30,
		},
		Logging: LoggingConfig{
			DisableAccessLog: false,
		},
	}, nil
}

// DefaultSite returns the stock profile.
func DefaultSite() SiteConfig {
	return SiteConfig{
		Name:     "August Zheng",
		Role:     "AI Infrastructure Engineer",
		Tagline:  "Engineering the infrastructure for reliable intelligence. Focusing on performance, scalability, and system integrity.",
		Location: "Based in Toronto",
		About: []string{
			"I specialize in building reliable AI infrastructure and high-performance systems.",
			"My work bridges the gap between complex research and production-grade reliability, ensuring that intelligence scales without compromise.",
		},
		Experience: []ExperienceConfig{
			{
				Company:     "YouWoAI",
				Role:        "AI Infrastructure Engineer",
				Type:        "Founding Engineer",
				Period:      "Jul 2025 - Present",
				Description: "Designed large-scale LLM system architecture where retrieval, orchestration, and evaluation are co-designed to improve accuracy and reliability in real-world usage.",
			},
			{
				Company:     "University of Toronto",
				Role:        "Researcher · Backend Engineer · TA",
				Type:        "Part-time",
				Period:      "May 2025 - Present",
				Description: "Researched AI-powered learning systems and ML-assisted GPU scheduling. Built auditable backend systems for healthcare AI (Remeda.ai). TA for Software Engineering.",
			},
			{
				Company:     "Siemens Healthineers",
				Role:        "Database Engineer",
				Type:        "Internship",
				Period:      "Jul - Sep 2023",
				Description: "Worked on database management systems and optimized data workflows at a global healthcare technology company.",
			},
		},
		Education: EducationConfig{
			School: "University of Toronto",
			Degree: "Honours Bachelor of Science",
			Major:  "Computer Science Specialist",
			Period: "2023 - 2027",
			GPA:    "4.0",
		},
		Links: []LinkConfig{
			{Label: "GitHub", Href: "https://github.com/zzz403"},
			{Label: "LinkedIn", Href: "https://www.linkedin.com/in/augustzheng/"},
			{Label: "Email", Href: "mailto:zhongze.zheng@mail.utoronto.ca"},
		},
	}
}

// Profile converts the site config to the service profile.
func (s SiteConfig) Profile() schema.Profile {
	p := schema.Profile{
		Name:     s.Name,
		Role:     s.Role,
		Tagline:  s.Tagline,
		Location: s.Location,
		About:    append([]string(nil), s.About...),
		Education: schema.Education{
			School: s.Education.School,
			Degree: s.Education.Degree,
			Major:  s.Education.Major,
			Period: s.Education.Period,
			GPA:    s.Education.GPA,
		},
	}
	for _, e := range s.Experience {
		p.Experience = append(p.Experience, schema.Experience{
			Company:     e.Company,
			Role:        e.Role,
			Type:        e.Type,
			Period:      e.Period,
			Description: e.Description,
		})
	}
	for _, l := range s.Links {
		p.Links = append(p.Links, schema.Link{Label: l.Label, Href: l.Href})
	}
	return p
}

// ServiceConfig converts the config to the core service config.
func (c Config) ServiceConfig() schema.ServiceConfig {
	return schema.ServiceConfig{
		ContentDir:          c.ContentDir,
		VisibilityThreshold: c.Service.VisibilityThreshold,
		AutoLoop:            c.Service.AutoLoop,
		MaxSessions:         c.Service.MaxSessions,
		BlogPreviewLimit:    c.Service.BlogPreviewLimit,
		DefaultTheme:        schema.ThemeName(c.Service.DefaultTheme),
	}
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".folio", "config.yaml"), nil
}
