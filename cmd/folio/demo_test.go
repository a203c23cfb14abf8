package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pkt.systems/folio/core"
	"pkt.systems/folio/demos"
	"pkt.systems/folio/internal/eventbus"
	"pkt.systems/folio/schema"
)

type stillClock struct{}

func (stillClock) AfterFunc(time.Duration, func()) {}

func TestDemoListShowsCatalog(t *testing.T) {
	var out bytes.Buffer
	if err := writeDemoList(&out, demos.All()); err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, d := range demos.All() {
		if !strings.Contains(out.String(), string(d.ID)) {
			t.Fatalf("expected %s in listing:\n%s", d.ID, out.String())
		}
	}
}

func TestDemoPlayUnknownDemo(t *testing.T) {
	if _, err := runRoot(t, "demo", "play", "no-such-demo"); err == nil {
		t.Fatalf("expected unknown demo to fail")
	}
}

func nextMsg(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for a message")
		return nil
	}
}

func TestPlayModelFollowsFrames(t *testing.T) {
	bus := eventbus.New(nil)
	service, err := core.NewService(schema.ServiceConfig{}, core.ServiceDeps{Clock: stillClock{}, EventSink: bus})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	defer func() { _ = service.Close() }()

	demo := demos.All()[0]
	model, cleanup, err := startPlayer(context.Background(), service, bus, demo, schema.MountDemoRequest{DemoID: demo.ID}, 40)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	var m tea.Model = model
	for m.(playModel).frame.Run == 0 {
		msg := nextMsg(t, m.(playModel).Init())
		if _, ok := msg.(busMsg); !ok {
			t.Fatalf("expected a bus message, got %T", msg)
		}
		m, _ = m.Update(msg)
	}
	view := m.View()
	if !strings.Contains(view, demo.Title) || !strings.Contains(view, "run 1") {
		t.Fatalf("unexpected view:\n%s", view)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if got := m.(playModel).token; got != 1 {
		t.Fatalf("expected replay token 1, got %d", got)
	}
	if m.(playModel).notice == "" {
		t.Fatalf("expected a replay notice")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected q to quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected a quit message")
	}

	cleanup()
	if _, err := service.DemoSnapshot(context.Background(), schema.DemoSnapshotRequest{SessionID: model.sid}); err == nil {
		t.Fatalf("expected cleanup to unmount the demo")
	}
}

func TestPlayModelQuitsOnUnmount(t *testing.T) {
	model := newPlayModel(context.Background(), nil, "s1", demos.All()[0], schema.DemoFrame{}, nil, 0)
	if model.width != 64 {
		t.Fatalf("expected default width, got %d", model.width)
	}
	next, cmd := model.Update(busMsg(eventbus.Event{
		Type:      eventbus.EventLifecycle,
		Lifecycle: schema.DemoLifecycleEvent{SessionID: "s1", Type: schema.DemoUnmounted},
	}))
	if !next.(playModel).closed || cmd == nil {
		t.Fatalf("expected unmount to close the player")
	}
	next, _ = model.Update(tea.WindowSizeMsg{Width: 30, Height: 20})
	if got := next.(playModel).width; got != 26 {
		t.Fatalf("expected width clamped to the window, got %d", got)
	}
}
