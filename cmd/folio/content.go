package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"pkt.systems/folio/core"
	"pkt.systems/folio/demos"
	"pkt.systems/folio/internal/appconfig"
	"pkt.systems/folio/internal/content"
	"pkt.systems/folio/schema"
	"pkt.systems/pslog"
)

func newContentCmd() *cobra.Command {
	var cfgPath string
	var dir string
	cmd := &cobra.Command{
		Use:   "content",
		Short: "List, check and read portfolio content",
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "content directory (overrides content_dir)")
	source := func() (string, fs.FS, error) {
		if dir == "" {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return "", nil, err
			}
			dir = cfg.ContentDir
		}
		if dir == "" {
			return "starter", content.Starter(), nil
		}
		info, err := os.Stat(dir)
		if err != nil {
			return "", nil, fmt.Errorf("content dir: %w", err)
		}
		if !info.IsDir() {
			return "", nil, fmt.Errorf("content dir %s is not a directory", dir)
		}
		return dir, os.DirFS(dir), nil
	}
	cmd.AddCommand(newContentListCmd(source))
	cmd.AddCommand(newContentCheckCmd(source))
	cmd.AddCommand(newContentShowCmd(source))
	return cmd
}

type contentSource func() (string, fs.FS, error)

func newContentListCmd(source contentSource) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List posts and projects, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, fsys, err := source()
			if err != nil {
				return err
			}
			snap, err := content.Load(fsys)
			if err != nil {
				return err
			}
			return writeContentList(cmd.OutOrStdout(), snap)
		},
	}
}

func writeContentList(out io.Writer, snap *content.Snapshot) error {
	var rows [][]string
	for _, p := range snap.AllPosts() {
		rows = append(rows, []string{"post", string(p.Slug), p.Date, string(p.Category), p.Title})
	}
	for _, p := range snap.AllProjects() {
		cats := content.ProjectCategories(p)
		labels := make([]string, 0, len(cats))
		for _, c := range cats {
			labels = append(labels, string(c))
		}
		title := p.Title
		if p.Featured {
			title += " *"
		}
		rows = append(rows, []string{"project", string(p.Slug), p.Date, strings.Join(labels, ","), title})
	}
	return writeTable(out, []string{"KIND", "SLUG", "DATE", "CATEGORY", "TITLE"}, rows)
}

func newContentCheckCmd(source contentSource) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate content frontmatter and the demo catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, fsys, err := source()
			if err != nil {
				return err
			}
			logger := pslog.Ctx(cmd.Context()).With("content", name)
			problems := 0
			snap, err := content.Load(fsys)
			for _, loadErr := range flattenErrors(err) {
				problems++
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", loadErr)
			}
			if err := demos.Validate(); err != nil {
				problems++
				fmt.Fprintf(cmd.OutOrStdout(), "demos: %v\n", err)
			}
			if problems > 0 {
				logger.Warn("content check failed", "problems", problems)
				return fmt.Errorf("%d content problem(s)", problems)
			}
			logger.Info("content check ok", "posts", len(snap.AllPosts()), "projects", len(snap.AllProjects()), "demos", len(demos.All()))
			return nil
		},
	}
}

// flattenErrors expands joined errors into their leaves.
func flattenErrors(err error) []error {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flattenErrors(e)...)
		}
		return out
	}
	return []error{err}
}

func newContentShowCmd(source contentSource) *cobra.Command {
	var style string
	var width int
	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Render a post or project in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, fsys, err := source()
			if err != nil {
				return err
			}
			service, err := core.NewService(schema.ServiceConfig{}, core.ServiceDeps{
				Content: fsys,
				Logger:  pslog.Ctx(cmd.Context()),
			})
			if err != nil {
				return err
			}
			defer func() { _ = service.Close() }()

			slug := schema.Slug(args[0])
			var title, meta, body string
			post, err := service.GetPost(cmd.Context(), schema.GetPostRequest{Slug: slug})
			switch {
			case err == nil:
				title, meta, body = post.Post.Title, post.Post.Date+" · "+string(post.Post.Category), post.Post.Body
			case errors.Is(err, schema.ErrPostNotFound):
				project, perr := service.GetProject(cmd.Context(), schema.GetProjectRequest{Slug: slug})
				if perr != nil {
					return perr
				}
				title, meta, body = project.Project.Title, project.Project.Date+" · "+strings.Join(project.Project.Tags, ", "), project.Project.Body
			default:
				return err
			}
			rendered, err := renderTerminalMarkdown("# "+title+"\n\n*"+meta+"*\n\n"+body, style, width)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), rendered)
			return err
		},
	}
	cmd.Flags().StringVar(&style, "style", "dark", "glamour style (dark, light, dracula, tokyo-night, notty)")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width")
	return cmd
}

func renderTerminalMarkdown(source, style string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	return renderer.Render(source)
}
