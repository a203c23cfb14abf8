package demos

import (
	"time"

	"pkt.systems/folio/playback"
)

const (
	openBrowserQuery = "wireless headphones"
	openBrowserThink = `Click [1] search bar → type "wireless headphones"`
)

var (
	openBrowserBoxes = []string{
		"[1] search bar",
		"[2] category menu",
		"[3] product grid",
		"[4] cart",
	}
	openBrowserExtracted = []string{
		"title   Sony WH-1000XM5",
		"price   $279.99",
		"rating  ★★★★★ 4.8",
	}
)

func openBrowserDemo() Demo {
	return Demo{
		ID:      "openbrowser",
		Title:   "openbrowser-ai",
		Project: "openbrowser-ai",
		Script: playback.Script{
			Steps: []playback.Step{
				{Phase: "webpage", Delay: 200 * time.Millisecond, Hold: 800 * time.Millisecond},
				{
					Phase:   "bbox",
					Actions: []playback.Action{playback.Count("boxes", len(openBrowserBoxes), 280*time.Millisecond)},
					Hold:    600 * time.Millisecond,
				},
				{
					Phase:   "thinking",
					Actions: []playback.Action{playback.Reveal("think", openBrowserThink, playback.UnitRune, 14*time.Millisecond)},
					Hold:    500 * time.Millisecond,
				},
				{Phase: "cursorMove", Hold: 550 * time.Millisecond},
				{Phase: "click", Hold: 350 * time.Millisecond},
				{
					Phase:   "typing",
					Actions: []playback.Action{playback.Reveal("query", openBrowserQuery, playback.UnitRune, 40*time.Millisecond)},
					Hold:    400 * time.Millisecond,
				},
				{Phase: "refresh", Hold: 800 * time.Millisecond},
				{
					Phase:   "extract",
					Actions: []playback.Action{playback.Count("extracted", len(openBrowserExtracted), 350*time.Millisecond)},
					Hold:    600 * time.Millisecond,
				},
				{Phase: "speed", Hold: 3500 * time.Millisecond},
				{Phase: "complete", Hold: 2500 * time.Millisecond},
			},
			Flags: []playback.Flag{
				{Name: "page", From: "webpage"},
				{Name: "reasoning", From: "thinking", Until: "typing"},
				{Name: "typing", From: "typing", Until: "refresh"},
				{Name: "searched", From: "typing"},
				{Name: "results", From: "refresh"},
				{Name: "speed", From: "speed"},
			},
		},
		Views: []View{
			{Kind: ViewStatus, Phases: map[playback.Phase]string{
				"webpage":    "loading shop.example.com",
				"bbox":       "labelling interactive elements",
				"thinking":   "planning next action",
				"cursorMove": "moving cursor to [1]",
				"click":      "click [1]",
				"typing":     "typing query",
				"refresh":    "results loaded",
				"extract":    "extracting product data",
				"speed":      "replaying recorded asset",
				"complete":   "done",
			}, Color: "muted"},
			{Kind: ViewList, Key: "boxes", Items: openBrowserBoxes, When: "page", Color: "accent"},
			{Kind: ViewText, Label: "thinking: ", Key: "think", When: "reasoning", Color: "muted"},
			{Kind: ViewText, Label: "search: ", Key: "query", When: "searched", Cursor: "typing"},
			{Kind: ViewBadge, Label: "24 results for \"" + openBrowserQuery + "\"", When: "results"},
			{Kind: ViewList, Key: "extracted", Items: openBrowserExtracted, Color: "accent"},
			{Kind: ViewBadge, Label: "Run 1 explore: 15 steps · 50k tokens · 3 min", When: "speed", Color: "muted"},
			{Kind: ViewBadge, Label: "Run 2 asset replay: 0 LLM calls · 2 sec ⚡", When: "speed", Color: "accent"},
		},
	}
}
