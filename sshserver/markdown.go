package sshserver

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// readerView shows one post or project body. The rendered rows are cached
// per width and style.
type readerView struct {
	title    string
	meta     string
	markdown string

	width int
	style string
	rows  []string
}

func (r *readerView) render(width int, theme tuiTheme) []string {
	if r.rows != nil && r.width == width && r.style == theme.Markdown {
		return r.rows
	}
	head := layoutLines([]pageLine{
		{text: r.title, style: styleHeading},
		{text: r.meta, style: styleMuted},
		{},
	}, width, theme)
	body, err := renderMarkdown(r.markdown, width, theme.Markdown)
	if err != nil {
		body = layoutLines([]pageLine{{text: err.Error(), style: styleError}, {text: r.markdown}}, width, theme)
	}
	r.rows = append(head, body...)
	r.width = width
	r.style = theme.Markdown
	return r.rows
}

// renderMarkdown renders markdown to ANSI rows with a glamour standard style.
func renderMarkdown(source string, width int, style string) ([]string, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := renderer.Render(source)
	if err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	rows := strings.Split(strings.Trim(out, "\n"), "\n")
	for i, row := range rows {
		rows[i] = trimANSIToWidth(row, width)
	}
	return rows, nil
}
