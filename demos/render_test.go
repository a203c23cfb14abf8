package demos

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mattn/go-runewidth"

	"pkt.systems/folio/playback"
	"pkt.systems/folio/schema"
)

func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

func TestRenderChatTyping(t *testing.T) {
	d, err := Get("chat")
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	f := playback.Frame{
		Phase: "typing",
		Texts: map[string]string{"input": "How does"},
		Flags: map[string]bool{"composing": true},
	}
	got := RenderText(d, f, 60)
	want := []string{"› How does" + Cursor}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderChatAnswerAlignsQuestionRight(t *testing.T) {
	d, err := Get("chat")
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	f := playback.Frame{
		Phase: "done",
		Texts: map[string]string{"question": "Hi?", "response": "Hello."},
		Flags: map[string]bool{"asked": true, "answered": true},
	}
	lines := Render(d, f, 20)
	if len(lines) != 3 {
		t.Fatalf("expected question, response and placeholder, got %+v", lines)
	}
	if lines[0].Text != strings.Repeat(" ", 17)+"Hi?" || lines[0].Color != "accent" {
		t.Fatalf("expected right aligned accent question, got %+v", lines[0])
	}
	if lines[1].Text != "Hello." {
		t.Fatalf("expected response without cursor, got %q", lines[1].Text)
	}
}

func TestRenderWrapsLongText(t *testing.T) {
	v := View{Kind: ViewText, Key: "t"}
	f := playback.Frame{Texts: map[string]string{"t": "one two three four five six"}}
	got := renderView(v, f, 10)
	for _, line := range got {
		if displayWidth(line) > 10 {
			t.Fatalf("line %q exceeds width", line)
		}
	}
	if strings.Join(strings.Fields(strings.Join(got, " ")), " ") != "one two three four five six" {
		t.Fatalf("wrapping lost words: %q", got)
	}
}

func TestRenderListMasksRedactedItems(t *testing.T) {
	v := View{Kind: ViewList, Key: "pii", Items: remedaPII, Alt: remedaRedacted, AltKey: "redacted"}
	f := playback.Frame{Counters: map[string]int{"pii": 3, "redacted": 1}}
	got := renderView(v, f, 60)
	want := []string{"• " + remedaRedacted[0], "• " + remedaPII[1], "• " + remedaPII[2]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderListHiddenUntilCounted(t *testing.T) {
	v := View{Kind: ViewList, Label: "audit", Key: "audit", Items: remedaAudit}
	if got := renderView(v, playback.Frame{}, 60); got != nil {
		t.Fatalf("expected nothing before the first item, got %q", got)
	}
	got := renderView(v, playback.Frame{Counters: map[string]int{"audit": 9}}, 60)
	if len(got) != len(remedaAudit)+1 {
		t.Fatalf("expected counter clamped to the item count, got %d lines", len(got))
	}
}

func TestRenderProgress(t *testing.T) {
	v := View{Kind: ViewProgress, Label: "gen", Key: "p", Max: 50}
	got := renderView(v, playback.Frame{Counters: map[string]int{"p": 25}}, 40)
	if len(got) != 1 || !strings.HasSuffix(got[0], " 50%") || !strings.HasPrefix(got[0], "gen [") {
		t.Fatalf("unexpected progress line %q", got)
	}
	if displayWidth(got[0]) > 40 {
		t.Fatalf("progress line exceeds width: %q", got[0])
	}
}

func TestRenderStatusAndFrames(t *testing.T) {
	d, err := Get("timetable")
	if err != nil {
		t.Fatalf("get timetable: %v", err)
	}
	f := playback.Frame{
		Phase:    "pref0",
		Counters: map[string]int{"layout": 1, "chips": 1},
		Flags:    map[string]bool{"grid": true},
	}
	got := RenderText(d, f, 60)
	if len(got) < len(timetableHours)+1 {
		t.Fatalf("expected timetable grid, got %q", got)
	}
	if !strings.Contains(got[1], "CSC108") || !strings.HasPrefix(strings.TrimSpace(got[1]), "8am") {
		t.Fatalf("expected the default layout to start at 8am, got %q", got[1])
	}
	if got[len(got)-1] != "• "+timetableChips[0] {
		t.Fatalf("expected first preference chip, got %q", got[len(got)-1])
	}
}

func TestRenderWordCount(t *testing.T) {
	d, err := Get("editor")
	if err != nil {
		t.Fatalf("get editor: %v", err)
	}
	f := playback.Frame{
		Phase: "saved",
		Texts: map[string]string{"doc": "# The Art\n\nGood tools"},
		Flags: map[string]bool{"focused": true},
	}
	got := RenderText(d, f, 60)
	want := []string{"saved ✓", "# The Art", "", "Good tools", "words: 5"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaybackFrameRendersLikeEngineFrame(t *testing.T) {
	d, err := Get("chat")
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	engine := playback.Frame{
		Run:   2,
		Phase: "typing",
		Texts: map[string]string{"input": "How does"},
		Flags: map[string]bool{"composing": true},
	}
	service := schema.DemoFrame{
		Run:   2,
		Phase: "typing",
		Texts: map[string]string{"input": "How does"},
		Flags: map[string]bool{"composing": true},
	}
	if diff := cmp.Diff(RenderText(d, engine, 40), RenderText(d, PlaybackFrame(service), 40)); diff != "" {
		t.Fatalf("render mismatch (-engine +service):\n%s", diff)
	}
}
