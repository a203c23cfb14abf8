package sshserver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/folio/schema"
)

func TestReadKeys(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []keyKind
	}{
		{name: "shift tab", input: "\x1b[Z", want: []keyKind{keyShiftTab}},
		{name: "arrows", input: "\x1b[A\x1b[B\x1bOC", want: []keyKind{keyUp, keyDown, keyRight}},
		{name: "lone escape", input: "\x1b", want: []keyKind{keyEscape}},
		{name: "crlf is one enter", input: "\r\n", want: []keyKind{keyEnter}},
		{name: "page keys", input: "\x1b[5~\x1b[6~", want: []keyKind{keyPageUp, keyPageDown}},
		{name: "controls", input: "\x03\x04\x0c", want: []keyKind{keyCtrlC, keyCtrlD, keyCtrlL}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			keys := make(chan key, 8)
			go readKeys(strings.NewReader(tc.input), keys)
			var got []keyKind
			for k := range keys {
				got = append(got, k.kind)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestReadKeysRunes(t *testing.T) {
	keys := make(chan key, 4)
	go readKeys(strings.NewReader("jé"), keys)
	first, second := <-keys, <-keys
	if first.kind != keyRune || first.r != 'j' || second.r != 'é' {
		t.Fatalf("unexpected runes %+v %+v", first, second)
	}
}

func TestRenderTabBarFillsWidth(t *testing.T) {
	theme := themeForName("outrun")
	line, start := renderTabBar(tabLabels, int(tabBlog), 80, theme, 0)
	if start != 0 {
		t.Fatalf("expected window start 0, got %d", start)
	}
	if got := visibleWidth(line); got != 80 {
		t.Fatalf("expected width 80, got %d", got)
	}
	if !strings.Contains(sanitizeLine(line), " blog ") {
		t.Fatalf("expected blog label in %q", sanitizeLine(line))
	}
}

func TestRenderTabBarScrollsToActive(t *testing.T) {
	theme := themeForName("gruvbox")
	line, start := renderTabBar(tabLabels, int(tabContact), 20, theme, 0)
	plain := sanitizeLine(line)
	if got := visibleWidth(line); got != 20 {
		t.Fatalf("expected width 20, got %d", got)
	}
	if start == 0 || !strings.HasPrefix(plain, "<") {
		t.Fatalf("expected the bar to scroll with a left marker, got %q (start %d)", plain, start)
	}
	if !strings.Contains(plain, "contact") {
		t.Fatalf("expected active tab visible, got %q", plain)
	}

	line, start = renderTabBar(tabLabels, int(tabAbout), 20, theme, start)
	plain = sanitizeLine(line)
	if start != 0 || !strings.HasSuffix(plain, ">") {
		t.Fatalf("expected the bar to return to the start with a right marker, got %q (start %d)", plain, start)
	}
}

func TestTrimANSIToWidthKeepsEscapes(t *testing.T) {
	styled := ansiBold + "hello world" + ansiReset
	got := trimANSIToWidth(styled, 5)
	if visibleWidth(got) != 5 || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("unexpected trim %q", got)
	}
	if w := visibleWidth("漢字"); w != 4 {
		t.Fatalf("expected wide runes to count double, got %d", w)
	}
}

func TestLayoutWrapsAndMapsAnchors(t *testing.T) {
	projects := []schema.Project{
		{Slug: "a", Title: "Alpha", Description: strings.Repeat("word ", 20), Date: "2025-01-01"},
		{Slug: "b", Title: "Beta", Date: "2024-01-01"},
	}
	rows, anchors := projectsPage(projects, 1).layout(30, themeForName(""))
	if len(anchors) != 2 {
		t.Fatalf("expected two anchors, got %v", anchors)
	}
	if !strings.Contains(sanitizeLine(rows[anchors[1]]), "Beta") {
		t.Fatalf("expected second anchor at Beta, got %q", sanitizeLine(rows[anchors[1]]))
	}
	for _, row := range rows {
		if visibleWidth(row) > 30 {
			t.Fatalf("row wider than 30: %q", sanitizeLine(row))
		}
	}
}

func TestContactPageHasQRCode(t *testing.T) {
	p := contactPage(schema.Profile{Links: []schema.Link{{Label: "GitHub", Href: "https://github.com/example"}}})
	raw := 0
	for _, line := range p.lines {
		if line.style == styleRaw {
			raw++
		}
	}
	if raw < 10 {
		t.Fatalf("expected QR rows, got %d", raw)
	}
	empty := contactPage(schema.Profile{})
	if len(empty.lines) == 0 || !strings.Contains(empty.lines[len(empty.lines)-1].text, "No links") {
		t.Fatalf("expected empty contact notice")
	}
}

func TestDemoPaneHasFixedHeight(t *testing.T) {
	rows := renderDemoPane(schema.DemoInfo{ID: "chat", Title: "Chat"}, schema.DemoFrame{}, 100, themeForName(""))
	if len(rows) != demoPaneHeight {
		t.Fatalf("expected %d rows, got %d", demoPaneHeight, len(rows))
	}
	for _, row := range rows {
		if got := visibleWidth(row); got != demoPaneMaxWidth {
			t.Fatalf("expected pane width %d, got %d in %q", demoPaneMaxWidth, got, sanitizeLine(row))
		}
	}
}

func TestEnsureHostKeyGeneratesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "ssh_host_key")
	first, err := EnsureHostKey(path)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600, got %v", info.Mode().Perm())
	}
	second, err := EnsureHostKey(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if Fingerprint(first) != Fingerprint(second) {
		t.Fatalf("expected the same key on reload")
	}
	if _, err := EnsureHostKey("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
