package sshserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"pkt.systems/folio/demos"
	"pkt.systems/folio/internal/eventbus"
	"pkt.systems/folio/internal/logx"
	"pkt.systems/folio/schema"
)

const (
	// demoPaneRows is the number of frame rows inside the pane border.
	demoPaneRows = 12
	// demoPaneHeight adds the two border rows.
	demoPaneHeight = demoPaneRows + 2

	demoPaneMaxWidth = 76
)

// demoPane is the mounted demo session shown on the demos tab.
type demoPane struct {
	sid   schema.SessionID
	info  schema.DemoInfo
	frame schema.DemoFrame
	// token is the last replay token sent to the service.
	token uint64
	// ratio is the last visibility reported, or -1 before the first report.
	ratio float64

	events      <-chan eventbus.Event
	unsubscribe func()
}

// paneVisibility is the fraction of the pane's rows that fit in rows.
func paneVisibility(rows int) float64 {
	if rows <= 0 {
		return 0
	}
	if rows >= demoPaneHeight {
		return 1
	}
	return float64(rows) / float64(demoPaneHeight)
}

func (t *terminalSession) mountDemo(index int) error {
	if len(t.demoList) == 0 {
		return errors.New("no demos available")
	}
	index = ((index % len(t.demoList)) + len(t.demoList)) % len(t.demoList)
	t.unmountDemo()
	info := t.demoList[index]
	resp, err := t.service.MountDemo(t.ctx, schema.MountDemoRequest{DemoID: info.ID})
	if err != nil {
		return fmt.Errorf("mount %s: %w", info.ID, err)
	}
	pane := &demoPane{
		sid:   resp.SessionID,
		info:  resp.Demo,
		frame: resp.Frame,
		ratio: -1,
	}
	pane.events, pane.unsubscribe = t.bus.Subscribe(resp.SessionID)
	t.demo = pane
	t.demoIndex = index
	logx.WithDemoSession(t.ctx, pane.info.ID, pane.sid).Debug("tui demo mounted", "index", index)
	return nil
}

func (t *terminalSession) unmountDemo() {
	pane := t.demo
	if pane == nil {
		return
	}
	t.demo = nil
	if pane.unsubscribe != nil {
		pane.unsubscribe()
	}
	// The SSH context may already be done when the session closes.
	ctx := context.WithoutCancel(t.ctx)
	if _, err := t.service.UnmountDemo(ctx, schema.UnmountDemoRequest{SessionID: pane.sid}); err != nil && !errors.Is(err, schema.ErrSessionNotFound) {
		logx.WithDemoSession(ctx, pane.info.ID, pane.sid).Warn("tui demo unmount failed", "err", err)
	}
}

// cycleDemo mounts the next or previous demo.
func (t *terminalSession) cycleDemo(step int) {
	if err := t.mountDemo(t.demoIndex + step); err != nil {
		t.setNotice(err.Error())
		return
	}
	t.syncVisibility()
}

// replayDemo bumps the pane's replay token. The service ignores the bump
// until the demo has started once.
func (t *terminalSession) replayDemo() {
	pane := t.demo
	if pane == nil {
		return
	}
	pane.token++
	resp, err := t.service.SetReplayToken(t.ctx, schema.SetReplayTokenRequest{SessionID: pane.sid, Token: pane.token})
	if err != nil {
		t.setNotice(err.Error())
		return
	}
	if !resp.Triggered {
		t.setNotice("replay waits until the demo has played")
	}
}

// syncVisibility reports the pane's visible fraction when it changed. The
// pane is out of view on every tab but demos.
func (t *terminalSession) syncVisibility() {
	pane := t.demo
	if pane == nil {
		return
	}
	ratio := 0.0
	if t.tab == tabDemos && t.reader == nil {
		ratio = paneVisibility(t.viewHeight())
	}
	if ratio == pane.ratio {
		return
	}
	pane.ratio = ratio
	resp, err := t.service.UpdateVisibility(t.ctx, schema.UpdateVisibilityRequest{SessionID: pane.sid, Ratio: ratio})
	if err != nil {
		logx.WithDemoSession(t.ctx, pane.info.ID, pane.sid).Warn("tui visibility failed", "err", err)
		return
	}
	logx.WithDemoSession(t.ctx, pane.info.ID, pane.sid).Trace("tui visibility", "ratio", ratio, "in_view", resp.InView, "triggered", resp.Triggered)
}

func (t *terminalSession) handleDemoEvent(ev eventbus.Event) {
	pane := t.demo
	if pane == nil {
		return
	}
	switch ev.Type {
	case eventbus.EventFrame:
		if ev.Frame.SessionID != pane.sid {
			return
		}
		if ev.Frame.Frame.Seq < pane.frame.Seq {
			return
		}
		pane.frame = ev.Frame.Frame
		t.dirty = true
	case eventbus.EventLifecycle:
		if ev.Lifecycle.Type == schema.DemoUnmounted && ev.Lifecycle.SessionID == pane.sid {
			if pane.unsubscribe != nil {
				pane.unsubscribe()
			}
			t.demo = nil
			t.dirty = true
		}
	}
}

// renderDemoPane draws the frame inside a bordered box with the demo title
// on the top edge.
func renderDemoPane(info schema.DemoInfo, frame schema.DemoFrame, width int, theme tuiTheme) []string {
	outer := min(width, demoPaneMaxWidth)
	if outer < 8 {
		outer = width
	}
	inner := max(outer-4, 1)
	border := ansiFgRGB(theme.PaneBorderFG)

	var rows []demos.Line
	if d, err := demos.Get(info.ID); err == nil {
		rows = demos.Render(d, demos.PlaybackFrame(frame), inner)
	}
	if len(rows) > demoPaneRows {
		rows = rows[len(rows)-demoPaneRows:]
	}

	title := runewidth.Truncate(" "+info.Title+" ", max(outer-4, 0), "…")
	fill := max(outer-3-runewidth.StringWidth(title), 0)
	out := make([]string, 0, demoPaneHeight)
	out = append(out, border+"╭─"+ansiReset+ansiBold+ansiFgRGB(theme.HeadingFG)+title+ansiReset+border+strings.Repeat("─", fill)+"╮"+ansiReset)
	for i := range demoPaneRows {
		text := ""
		color := ""
		if i < len(rows) {
			text = trimANSIToWidth(sanitizeLine(rows[i].Text), inner)
			color = theme.colorFor(rows[i].Color)
		}
		cell := padANSI(text, inner)
		if color != "" {
			cell = color + cell + ansiReset
		}
		out = append(out, border+"│"+ansiReset+" "+cell+" "+border+"│"+ansiReset)
	}
	status := fmt.Sprintf(" run %d · %s ", frame.Run, frame.Phase)
	if frame.Run == 0 {
		status = " waiting "
	}
	status = runewidth.Truncate(status, max(outer-4, 0), "")
	fill = max(outer-3-runewidth.StringWidth(status), 0)
	out = append(out, border+"╰"+strings.Repeat("─", fill)+ansiReset+ansiFgRGB(theme.MutedFG)+status+ansiReset+border+"─╯"+ansiReset)
	return out
}
