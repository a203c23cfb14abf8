package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var errNoFrontmatter = errors.New("missing frontmatter")

// LoadError reports a content file that could not be parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("content %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// rawString keeps a scalar's literal text so unquoted dates stay as written.
type rawString string

func (r *rawString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", node.Line)
	}
	*r = rawString(strings.TrimSpace(node.Value))
	return nil
}

type postMeta struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Date        rawString `yaml:"date"`
	Category    string    `yaml:"category"`
	Project     string    `yaml:"project"`
}

type projectMeta struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Date        rawString `yaml:"date"`
	Tags        []string  `yaml:"tags"`
	Image       string    `yaml:"image"`
	URL         string    `yaml:"url"`
	GitHub      string    `yaml:"github"`
	Featured    bool      `yaml:"featured"`
	CodeSnippet string    `yaml:"codeSnippet"`
}

// splitFrontmatter separates a leading "---" YAML block from the body.
// A file without the block has an empty header.
func splitFrontmatter(raw []byte) (header, body []byte, err error) {
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(raw, []byte("---\n")) {
		return nil, raw, nil
	}
	rest := raw[len("---\n"):]
	if bytes.HasPrefix(rest, []byte("---\n")) {
		return nil, rest[len("---\n"):], nil
	}
	end := bytes.Index(rest, []byte("\n---\n"))
	if end < 0 {
		if bytes.HasSuffix(rest, []byte("\n---")) {
			return rest[:len(rest)-len("\n---")], nil, nil
		}
		return nil, nil, errNoFrontmatter
	}
	return rest[:end+1], rest[end+len("\n---\n"):], nil
}

func decodeMeta(header []byte, out any) error {
	if len(bytes.TrimSpace(header)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(header))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("frontmatter: %w", err)
	}
	return nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"2006-01",
}

// parseDate returns the zero time for dates it cannot read; those sort last.
func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
