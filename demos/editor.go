package demos

import (
	"strings"
	"time"

	"pkt.systems/folio/playback"
)

var editorLines = []string{
	"# The Art of Simplicity",
	"",
	"Good tools disappear. They don't ask",
	"for attention, they give it back.",
	"",
	"When everything is stripped away,",
	"only the words remain.",
}

const editorCharDelay = 35 * time.Millisecond

// editorWriting types the document line by line. Blank lines land in one
// tick and pause a little longer.
func editorWriting() []playback.Action {
	var actions []playback.Action
	for i, line := range editorLines {
		doc := strings.Join(editorLines[:i+1], "\n")
		if line == "" {
			actions = append(actions, playback.Reveal("doc", doc, playback.UnitLine, 0), playback.Wait(300*time.Millisecond))
			continue
		}
		actions = append(actions, playback.Reveal("doc", doc, playback.UnitRune, editorCharDelay), playback.Wait(200*time.Millisecond))
	}
	return actions
}

func editorDemo() Demo {
	return Demo{
		ID:      "editor",
		Title:   "zen-editor",
		Project: "zen-editor",
		Script: playback.Script{
			Steps: []playback.Step{
				{Phase: "focus", Hold: 800 * time.Millisecond},
				{Phase: "writing", Actions: editorWriting(), Hold: 600 * time.Millisecond},
				{Phase: "saving", Hold: time.Second},
				{Phase: "saved", Hold: 3 * time.Second},
				{Phase: "done", Hold: 2 * time.Second},
			},
			Flags: []playback.Flag{
				{Name: "focused", From: "focus"},
				{Name: "writing", From: "writing", Until: "saving"},
			},
		},
		Views: []View{
			{Kind: ViewStatus, Phases: map[playback.Phase]string{
				"focus":   "focus mode",
				"writing": "writing",
				"saving":  "saving...",
				"saved":   "saved ✓",
				"done":    "saved ✓",
			}, Color: "muted"},
			{Kind: ViewText, Key: "doc", When: "focused", Cursor: "writing"},
			{Kind: ViewWords, Label: "words", Key: "doc", When: "focused", Color: "muted"},
		},
	}
}
