package demos

import (
	"fmt"
	"time"

	"pkt.systems/folio/playback"
)

type canvasShape struct {
	x, y, size int
	color      string
}

var canvasShapes = []canvasShape{
	{20, 25, 80, "#e0ff00"},
	{55, 15, 50, "#61afef"},
	{75, 55, 65, "#c678dd"},
	{35, 60, 45, "#98c379"},
	{15, 75, 55, "#e06c75"},
	{60, 80, 35, "#d19a66"},
}

const canvasSeed = "a7f3c2"

func canvasItems() (shapes, edges []string) {
	for i, s := range canvasShapes {
		shapes = append(shapes, fmt.Sprintf("circle %d  (%2d,%2d) r=%-2d %s", i+1, s.x, s.y, s.size, s.color))
		next := canvasShapes[(i+1)%len(canvasShapes)]
		edges = append(edges, fmt.Sprintf("edge %d→%d  (%2d,%2d) → (%2d,%2d)", i+1, (i+1)%len(canvasShapes)+1, s.x, s.y, next.x, next.y))
	}
	return shapes, edges
}

func canvasDemo() Demo {
	shapes, edges := canvasItems()
	return Demo{
		ID:      "canvas",
		Title:   "generative, seed:" + canvasSeed,
		Project: "project-alpha",
		Script: playback.Script{
			Steps: []playback.Step{
				{
					Phase:   "generating",
					Actions: []playback.Action{playback.Count("progress", 50, 25*time.Millisecond)},
					Hold:    300 * time.Millisecond,
				},
				{
					Phase:   "shapes",
					Actions: []playback.Action{playback.Count("shapes", len(shapes), 300*time.Millisecond)},
					Hold:    200 * time.Millisecond,
				},
				{
					Phase:   "lines",
					Actions: []playback.Action{playback.Count("edges", len(edges), 200*time.Millisecond)},
					Hold:    2 * time.Second,
				},
				{Phase: "export", Hold: 2500 * time.Millisecond},
				{Phase: "done", Hold: 3 * time.Second},
			},
			Flags: []playback.Flag{
				{Name: "generating", From: "generating", Until: "shapes"},
				{Name: "exported", From: "export"},
			},
		},
		Views: []View{
			{Kind: ViewBadge, Label: "voronoi | cells: 128 | seed: " + canvasSeed, Color: "muted"},
			{Kind: ViewProgress, Label: "generating", Key: "progress", Max: 50, When: "generating"},
			{Kind: ViewList, Key: "shapes", Items: shapes},
			{Kind: ViewList, Key: "edges", Items: edges, Color: "muted"},
			{Kind: ViewBadge, Label: "exported ✓ SVG · PNG", When: "exported", Color: "accent"},
		},
	}
}
