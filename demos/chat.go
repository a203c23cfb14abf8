package demos

import (
	"time"

	"pkt.systems/folio/playback"
)

const (
	chatQuestion = "How does real-time collaboration work?"
	chatResponse = "Each user connects via WebSocket. Edits are broadcast as operational transforms, " +
		"merged conflict-free on the server, then pushed to all peers in <12ms."

	chatCharDelay   = 30 * time.Millisecond
	chatStreamDelay = 18 * time.Millisecond
)

func chatDemo() Demo {
	return Demo{
		ID:    "chat",
		Title: "community-chat",
		Script: playback.Script{
			Steps: []playback.Step{
				{
					Phase:   "typing",
					Actions: []playback.Action{playback.Reveal("input", chatQuestion, playback.UnitRune, chatCharDelay)},
					Hold:    800 * time.Millisecond,
				},
				{
					Phase:   "sent",
					Actions: []playback.Action{playback.Show("question", chatQuestion)},
					Hold:    400 * time.Millisecond,
				},
				{Phase: "thinking", Hold: 1200 * time.Millisecond},
				{
					Phase:   "streaming",
					Actions: []playback.Action{playback.Reveal("response", chatResponse, playback.UnitRune, chatStreamDelay)},
				},
				{Phase: "done", Hold: 4 * time.Second},
			},
			Flags: []playback.Flag{
				{Name: "composing", From: "typing", Until: "sent"},
				{Name: "asked", From: "sent"},
				{Name: "thinking", From: "thinking", Until: "streaming"},
				{Name: "answered", From: "streaming"},
				{Name: "streaming", From: "streaming", Until: "done"},
			},
		},
		Views: []View{
			{Kind: ViewText, Key: "question", When: "asked", Align: AlignRight, Color: "accent"},
			{Kind: ViewBadge, Label: "● ● ●", When: "thinking", Color: "muted"},
			{Kind: ViewText, Key: "response", When: "answered", Cursor: "streaming"},
			{Kind: ViewText, Label: "› ", Key: "input", When: "!asked", Cursor: "composing"},
			{Kind: ViewBadge, Label: "› Ask anything...", When: "asked", Color: "muted"},
		},
	}
}
