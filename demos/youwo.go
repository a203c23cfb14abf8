package demos

import (
	"time"

	"pkt.systems/folio/playback"
)

const youwoQuestion = "How does binary search relate to the lecture?"

var (
	youwoSources = []string{
		"📄 Lecture Notes.pdf",
		"🎙 Meeting Recording",
		"▶ CS101 Tutorial",
	}
	youwoCitations = []string{
		"[P.12]  Lecture Notes.pdf",
		"[5:30]  Meeting Recording",
		"[15:30] CS101 Tutorial",
	}
)

// youwoPart is either answer text or a citation index.
type youwoPart struct {
	text string
	cite int
}

var youwoAnswer = []youwoPart{
	{text: "Binary search was covered in "},
	{text: "Chapter 4 of the lecture notes"},
	{cite: 1},
	{text: ", where it's compared to linear scan. The "},
	{text: "meeting recording at 5:30"},
	{cite: 2},
	{text: " discusses real-world performance. The "},
	{text: "tutorial demonstrates"},
	{cite: 3},
	{text: " the O(log n) divide step visually."},
}

var youwoCiteLabels = []string{"P.12", "5:30", "15:30"}

// youwoStreaming streams the answer rune by rune and drops each citation
// marker in as a single chunk.
func youwoStreaming() []playback.Action {
	var (
		actions []playback.Action
		answer  string
	)
	for _, part := range youwoAnswer {
		if part.cite > 0 {
			answer += "[" + youwoCiteLabels[part.cite-1] + "]"
			actions = append(actions,
				playback.Reveal("answer", answer, playback.UnitLine, 100*time.Millisecond),
				playback.Set("cites", part.cite),
			)
			continue
		}
		answer += part.text
		actions = append(actions, playback.Reveal("answer", answer, playback.UnitRune, 8*time.Millisecond))
	}
	return actions
}

func youwoDemo() Demo {
	return Demo{
		ID:      "youwo",
		Title:   "youwo.ai",
		Project: "youwoai",
		Script: playback.Script{
			Steps: []playback.Step{
				{
					Phase:   "sources",
					Delay:   200 * time.Millisecond,
					Actions: []playback.Action{playback.Count("sources", len(youwoSources), 350*time.Millisecond)},
					Hold:    1400 * time.Millisecond,
				},
				{Phase: "collapse", Hold: 700 * time.Millisecond},
				{Phase: "chatbar", Hold: 400 * time.Millisecond},
				{
					Phase:   "typing",
					Actions: []playback.Action{playback.Reveal("input", youwoQuestion, playback.UnitRune, 32*time.Millisecond)},
					Hold:    350 * time.Millisecond,
				},
				{Phase: "cursorToSend", Hold: 460 * time.Millisecond},
				{Phase: "clickSend", Hold: 250 * time.Millisecond},
				{
					Phase:   "sent",
					Actions: []playback.Action{playback.Show("question", youwoQuestion)},
					Hold:    400 * time.Millisecond,
				},
				{Phase: "streaming", Actions: youwoStreaming()},
				{Phase: "complete", Hold: 4 * time.Second},
			},
			Flags: []playback.Flag{
				{Name: "collapsed", From: "collapse"},
				{Name: "chatbar", From: "chatbar", Until: "sent"},
				{Name: "typing", From: "typing", Until: "cursorToSend"},
				{Name: "asked", From: "sent"},
				{Name: "answering", From: "streaming"},
				{Name: "streaming", From: "streaming", Until: "complete"},
			},
		},
		Views: []View{
			{Kind: ViewList, Label: "sources", Key: "sources", Items: youwoSources, When: "!collapsed"},
			{Kind: ViewText, Label: "› ", Key: "input", When: "chatbar", Cursor: "typing"},
			{Kind: ViewText, Key: "question", When: "asked", Align: AlignRight, Color: "accent"},
			{Kind: ViewText, Key: "answer", When: "answering", Cursor: "streaming"},
			{Kind: ViewList, Key: "cites", Items: youwoCitations, Color: "muted"},
		},
	}
}
