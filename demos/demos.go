// Package demos holds the scripted product demos shown next to projects.
// Each demo is immutable data: a playback script plus the views that turn
// a frame into something a person can look at.
package demos

import (
	"fmt"
	"strings"

	"pkt.systems/folio/playback"
	"pkt.systems/folio/schema"
)

// ViewKind selects how a View renders.
type ViewKind string

const (
	// ViewText shows a text value.
	ViewText ViewKind = "text"
	// ViewList shows the first N literal items, N taken from a counter.
	ViewList ViewKind = "list"
	// ViewProgress shows a counter against Max as a bar.
	ViewProgress ViewKind = "progress"
	// ViewBadge shows a fixed label.
	ViewBadge ViewKind = "badge"
	// ViewStatus shows a label for the current phase.
	ViewStatus ViewKind = "status"
	// ViewFrames shows item N-1, N taken from a counter.
	ViewFrames ViewKind = "frames"
	// ViewWords shows the word count of a text.
	ViewWords ViewKind = "words"
)

// Alignment of text views.
const (
	AlignLeft  = "left"
	AlignRight = "right"
)

// View is a declarative presentation hint over a frame.
type View struct {
	Kind  ViewKind `json:"kind"`
	Label string   `json:"label,omitempty"`
	// Key names the counter or text the view reads.
	Key   string   `json:"key,omitempty"`
	Items []string `json:"items,omitempty"`
	// Alt replaces the first AltKey-counter items of a list.
	Alt    []string `json:"alt,omitempty"`
	AltKey string   `json:"alt_key,omitempty"`
	Max    int      `json:"max,omitempty"`
	// When names the flag that shows the view. A leading "!" negates it.
	// Empty means always shown.
	When string `json:"when,omitempty"`
	// Cursor names the flag that appends a cursor to a text view.
	Cursor string                    `json:"cursor,omitempty"`
	Align  string                    `json:"align,omitempty"`
	Phases map[playback.Phase]string `json:"phases,omitempty"`
	Color  string                    `json:"color,omitempty"`
}

// Visible reports whether the view shows in frame f.
func (v View) Visible(f playback.Frame) bool {
	if v.When == "" {
		return true
	}
	if name, ok := strings.CutPrefix(v.When, "!"); ok {
		return !f.Flag(name)
	}
	return f.Flag(v.When)
}

// Demo is one scripted product demo.
type Demo struct {
	ID      schema.DemoID
	Title   string
	Project schema.Slug
	Script  playback.Script
	Views   []View
	Loop    bool
}

// Info summarizes the demo for listings.
func (d Demo) Info() schema.DemoInfo {
	phases := d.Script.Phases()
	out := make([]schema.Phase, 0, len(phases))
	for _, p := range phases {
		out = append(out, schema.Phase(p))
	}
	return schema.DemoInfo{
		ID:      d.ID,
		Title:   d.Title,
		Project: d.Project,
		Phases:  out,
		Loop:    d.Loop,
	}
}

// IdleFrame is the frame a freshly mounted session shows before it starts.
func (d Demo) IdleFrame() playback.Frame {
	e, err := playback.New(d.Script)
	if err != nil {
		return playback.Frame{Phase: playback.Idle}
	}
	return e.Snapshot()
}

// PlaybackFrame converts a service frame to the engine shape views read.
func PlaybackFrame(f schema.DemoFrame) playback.Frame {
	return playback.Frame{
		Run:      f.Run,
		Seq:      f.Seq,
		Phase:    playback.Phase(f.Phase),
		Counters: f.Counters,
		Texts:    f.Texts,
		Flags:    f.Flags,
		Complete: f.Complete,
	}
}

var catalog = []Demo{
	chatDemo(),
	editorDemo(),
	canvasDemo(),
	remedaDemo(),
	timetableDemo(),
	openBrowserDemo(),
	youwoDemo(),
	kokoDemo(),
	campusForumDemo(),
	chatGPTBoosterDemo(),
}

// All returns every demo in display order.
func All() []Demo {
	out := make([]Demo, len(catalog))
	copy(out, catalog)
	return out
}

// Get returns the demo with the given id.
func Get(id schema.DemoID) (Demo, error) {
	want := schema.DemoID(strings.ToLower(strings.TrimSpace(string(id))))
	for _, d := range catalog {
		if d.ID == want {
			return d, nil
		}
	}
	return Demo{}, fmt.Errorf("%w: %q", schema.ErrDemoNotFound, id)
}

// ForProject returns the demo attached to a project, if any.
func ForProject(slug schema.Slug) (Demo, bool) {
	if slug == "" {
		return Demo{}, false
	}
	for _, d := range catalog {
		if d.Project == slug {
			return d, true
		}
	}
	return Demo{}, false
}

// Validate checks every script and view in the catalog.
func Validate() error {
	seen := make(map[schema.DemoID]struct{}, len(catalog))
	for _, d := range catalog {
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("demo %q declared twice", d.ID)
		}
		seen[d.ID] = struct{}{}
		if err := d.Script.Validate(); err != nil {
			return fmt.Errorf("demo %q: %w", d.ID, err)
		}
		flags := make(map[string]struct{}, len(d.Script.Flags))
		for _, f := range d.Script.Flags {
			flags[f.Name] = struct{}{}
		}
		for i, v := range d.Views {
			for _, name := range []string{strings.TrimPrefix(v.When, "!"), v.Cursor} {
				if name == "" {
					continue
				}
				if _, ok := flags[name]; !ok {
					return fmt.Errorf("demo %q view %d: unknown flag %q", d.ID, i, name)
				}
			}
		}
	}
	return nil
}
