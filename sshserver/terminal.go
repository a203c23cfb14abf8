package sshserver

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	gliderssh "github.com/gliderlabs/ssh"

	"pkt.systems/folio/core"
	"pkt.systems/folio/internal/eventbus"
	"pkt.systems/folio/internal/logx"
	"pkt.systems/folio/internal/sessionprefs"
	"pkt.systems/folio/schema"
	"pkt.systems/pslog"
)

const noticeTTL = 4 * time.Second

type terminalSession struct {
	in      io.Reader
	screen  *screen
	service core.Service
	bus     *eventbus.Bus
	ctx     context.Context
	prefs   *sessionprefs.Prefs
	// contentKey subscribes to content reloads while no demo is mounted.
	contentKey schema.SessionID

	width  int
	height int

	tab            tabID
	tabWindowStart int
	scroll         map[tabID]int
	selected       map[tabID]int

	profile  schema.Profile
	projects []schema.Project
	posts    []schema.Post
	demoList []schema.DemoInfo

	demo      *demoPane
	demoIndex int
	reader    *readerView

	notice   string
	noticeAt time.Time
	dirty    bool
	now      func() time.Time
}

func newTerminalSession(in io.Reader, out io.Writer, service core.Service, bus *eventbus.Bus, theme schema.ThemeName, contentKey schema.SessionID) *terminalSession {
	return &terminalSession{
		in:         in,
		screen:     newScreen(out),
		service:    service,
		bus:        bus,
		prefs:      sessionprefs.New(theme),
		contentKey: contentKey,
		scroll:     make(map[tabID]int),
		selected:   make(map[tabID]int),
		now:        time.Now,
		ctx:        context.Background(),
	}
}

func (t *terminalSession) log() pslog.Logger {
	return logx.Ctx(t.ctx).With("tab", t.tab.String())
}

func (t *terminalSession) SetSize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	t.width = width
	t.height = height
}

// Run draws the portfolio until the client quits, the input closes or ctx
// is done. The mounted demo is always unmounted on return.
func (t *terminalSession) Run(ctx context.Context, winCh <-chan gliderssh.Window) error {
	if ctx == nil {
		ctx = context.Background()
	}
	t.ctx = sessionprefs.WithContext(ctx, t.prefs)
	defer t.unmountDemo()
	t.screen.Enter()
	defer t.screen.Exit()

	var contentEvents <-chan eventbus.Event
	if t.bus != nil && t.contentKey != "" {
		var unsubscribe func()
		contentEvents, unsubscribe = t.bus.Subscribe(t.contentKey)
		defer unsubscribe()
	}

	t.loadContent()
	t.render()
	t.log().Info("tui session start", "width", t.width, "height", t.height)

	keys := make(chan key, 16)
	go readKeys(t.in, keys)

	noticeTicker := time.NewTicker(time.Second)
	defer noticeTicker.Stop()

	for {
		var demoEvents <-chan eventbus.Event
		if t.demo != nil {
			demoEvents = t.demo.events
		}
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			if !ok {
				return nil
			}
			if t.handleKey(k) {
				t.log().Info("tui exit", "reason", "quit")
				return nil
			}
		case win, ok := <-winCh:
			if !ok {
				winCh = nil
				break
			}
			t.SetSize(win.Width, win.Height)
			t.dirty = true
			t.log().Debug("tui resize", "width", t.width, "height", t.height)
		case ev, ok := <-demoEvents:
			if !ok {
				if t.demo != nil {
					t.demo.events = nil
				}
				break
			}
			t.handleDemoEvent(ev)
		case ev, ok := <-contentEvents:
			if !ok {
				contentEvents = nil
				break
			}
			if ev.Type == eventbus.EventContent {
				t.handleContentEvent(ev.Content)
			}
		case <-noticeTicker.C:
			if t.notice != "" && t.now().Sub(t.noticeAt) > noticeTTL {
				t.notice = ""
				t.dirty = true
			}
		}

		if t.dirty {
			t.render()
			t.dirty = false
		}
	}
}

// loadContent refreshes the profile, lists and demo catalog.
func (t *terminalSession) loadContent() {
	if resp, err := t.service.GetProfile(t.ctx, schema.GetProfileRequest{}); err == nil {
		t.profile = resp.Profile
	} else {
		t.log().Warn("tui profile failed", "err", err)
	}
	if resp, err := t.service.ListProjects(t.ctx, schema.ListProjectsRequest{}); err == nil {
		t.projects = resp.Projects
	} else {
		t.log().Warn("tui projects failed", "err", err)
	}
	if resp, err := t.service.ListPosts(t.ctx, schema.ListPostsRequest{}); err == nil {
		t.posts = resp.Posts
	} else {
		t.log().Warn("tui posts failed", "err", err)
	}
	if resp, err := t.service.ListDemos(t.ctx, schema.ListDemosRequest{}); err == nil {
		t.demoList = resp.Demos
	} else {
		t.log().Warn("tui demos failed", "err", err)
	}
	t.selected[tabProjects] = clampIndex(t.selected[tabProjects], len(t.projects))
	t.selected[tabBlog] = clampIndex(t.selected[tabBlog], len(t.posts))
}

func (t *terminalSession) handleContentEvent(ev schema.ContentEvent) {
	if ev.Err != "" {
		t.setNotice("content reload failed: " + ev.Err)
		return
	}
	t.loadContent()
	t.setNotice(fmt.Sprintf("content reloaded: %d posts, %d projects", ev.Posts, ev.Projects))
}

func (t *terminalSession) handleKey(k key) bool {
	t.dirty = true
	switch k.kind {
	case keyCtrlC, keyCtrlD:
		return true
	case keyCtrlL:
		return false
	case keyEscape, keyBackspace:
		t.closeReader()
		return false
	case keyTab, keyRight:
		t.switchTab(t.tab + 1)
	case keyShiftTab, keyLeft:
		t.switchTab(t.tab - 1)
	case keyDown:
		t.move(1)
	case keyUp:
		t.move(-1)
	case keyPageDown:
		t.scrollBy(t.viewHeight())
	case keyPageUp:
		t.scrollBy(-t.viewHeight())
	case keyHome:
		t.scrollTo(0)
	case keyEnd:
		t.scrollTo(1 << 30)
	case keyEnter:
		t.openSelected()
	case keyRune:
		return t.handleRune(k.r)
	}
	return false
}

func (t *terminalSession) handleRune(r rune) bool {
	switch r {
	case 'q':
		if t.reader != nil {
			t.closeReader()
			return false
		}
		return true
	case 'l':
		t.switchTab(t.tab + 1)
	case 'h':
		t.switchTab(t.tab - 1)
	case 'j':
		t.move(1)
	case 'k':
		t.move(-1)
	case ' ':
		t.scrollBy(t.viewHeight())
	case 'g':
		t.scrollTo(0)
	case 'G':
		t.scrollTo(1 << 30)
	case 'n':
		if t.tab == tabDemos {
			t.cycleDemo(1)
		}
	case 'p':
		if t.tab == tabDemos {
			t.cycleDemo(-1)
		}
	case 'r':
		if t.tab == tabDemos {
			t.replayDemo()
		}
	case 't':
		theme := t.prefs.CycleTheme()
		t.setNotice("theme: " + string(theme))
		t.log().Debug("tui theme", "theme", theme)
	default:
		if r >= '1' && r <= '0'+rune(len(tabLabels)) {
			t.switchTab(tabID(r - '1'))
		}
	}
	return false
}

func (t *terminalSession) switchTab(next tabID) {
	n := tabID(len(tabLabels))
	next = ((next % n) + n) % n
	t.reader = nil
	if next == t.tab {
		return
	}
	prev := t.tab
	t.tab = next
	if next == tabDemos && t.demo == nil && len(t.demoList) > 0 {
		if err := t.mountDemo(t.demoIndex); err != nil {
			t.setNotice(err.Error())
		}
	}
	t.syncVisibility()
	t.log().Debug("tui tab switched", "from", prev.String(), "to", next.String())
}

// move steps the selection on list tabs and scrolls elsewhere.
func (t *terminalSession) move(step int) {
	if t.reader == nil && t.tab.listed() {
		count := len(t.projects)
		if t.tab == tabBlog {
			count = len(t.posts)
		}
		if count == 0 {
			return
		}
		t.selected[t.tab] = clampIndex(t.selected[t.tab]+step, count)
		t.revealSelection()
		return
	}
	t.scrollBy(step)
}

func (t *terminalSession) scrollKey() tabID {
	if t.reader != nil {
		return -1
	}
	return t.tab
}

func (t *terminalSession) scrollBy(delta int) {
	t.scrollTo(t.scroll[t.scrollKey()] + delta)
}

func (t *terminalSession) scrollTo(offset int) {
	rows, _ := t.bodyRows()
	limit := max(len(rows)-t.viewHeight(), 0)
	t.scroll[t.scrollKey()] = max(0, min(offset, limit))
}

// revealSelection scrolls so the selected item's first row is in view.
func (t *terminalSession) revealSelection() {
	_, anchors := t.bodyRows()
	idx := t.selected[t.tab]
	if idx < 0 || idx >= len(anchors) {
		return
	}
	row := anchors[idx]
	offset := t.scroll[t.tab]
	view := t.viewHeight()
	switch {
	case row < offset:
		t.scrollTo(row)
	case row >= offset+view-2:
		t.scrollTo(row - view + 3)
	}
}

func (t *terminalSession) openSelected() {
	if t.reader != nil || !t.tab.listed() {
		return
	}
	idx := t.selected[t.tab]
	switch t.tab {
	case tabProjects:
		if idx >= len(t.projects) {
			return
		}
		resp, err := t.service.GetProject(t.ctx, schema.GetProjectRequest{Slug: t.projects[idx].Slug})
		if err != nil {
			t.setNotice(err.Error())
			return
		}
		p := resp.Project
		meta := strings.Join(nonEmpty(p.Date, strings.Join(p.Tags, ", "), p.URL, p.GitHub), " · ")
		body := p.Body
		if p.CodeSnippet != "" {
			body += "\n\n```\n" + p.CodeSnippet + "\n```\n"
		}
		t.reader = &readerView{title: p.Title, meta: meta, markdown: body}
	case tabBlog:
		if idx >= len(t.posts) {
			return
		}
		resp, err := t.service.GetPost(t.ctx, schema.GetPostRequest{Slug: t.posts[idx].Slug})
		if err != nil {
			t.setNotice(err.Error())
			return
		}
		p := resp.Post
		meta := p.Date + " · " + schema.CategoryLabel(p.Category)
		if resp.Project != nil {
			meta += " · " + resp.Project.Title
		}
		t.reader = &readerView{title: p.Title, meta: meta, markdown: p.Body}
	}
	t.scroll[-1] = 0
	t.log().Debug("tui reader open", "index", idx)
}

func (t *terminalSession) closeReader() {
	if t.reader == nil {
		return
	}
	t.reader = nil
	t.syncVisibility()
}

func (t *terminalSession) setNotice(message string) {
	t.notice = message
	t.noticeAt = t.now()
	t.dirty = true
}

// viewHeight is the number of body rows between the tab bar and the
// status line.
func (t *terminalSession) viewHeight() int {
	return max(t.height-2, 0)
}

func (t *terminalSession) theme() tuiTheme {
	return themeForName(t.prefs.Theme())
}

// bodyRows lays out the active view at the current width.
func (t *terminalSession) bodyRows() ([]string, []int) {
	theme := t.theme()
	width := max(t.width-2, 10)
	if t.reader != nil {
		return t.reader.render(width, theme), nil
	}
	switch t.tab {
	case tabAbout:
		return aboutPage(t.profile).layout(width, theme)
	case tabWork:
		return workPage(t.profile).layout(width, theme)
	case tabProjects:
		return projectsPage(t.projects, t.selected[tabProjects]).layout(width, theme)
	case tabBlog:
		return blogPage(t.posts, t.selected[tabBlog]).layout(width, theme)
	case tabDemos:
		if t.demo == nil {
			return layoutLines([]pageLine{{text: "No demo mounted. Press n to start one.", style: styleMuted}}, width, theme), nil
		}
		return renderDemoPane(t.demo.info, t.demo.frame, width, theme), nil
	case tabContact:
		return contactPage(t.profile).layout(width, theme)
	}
	return nil, nil
}

func (t *terminalSession) render() {
	theme := t.theme()
	lines := make([]string, 0, t.height)
	bar, start := renderTabBar(tabLabels, int(t.tab), t.width, theme, t.tabWindowStart)
	t.tabWindowStart = start
	lines = append(lines, bar)

	rows, _ := t.bodyRows()
	view := t.viewHeight()
	offset := max(0, min(t.scroll[t.scrollKey()], len(rows)-view))
	for i := 0; i < view; i++ {
		row := ""
		if idx := offset + i; idx < len(rows) {
			row = " " + rows[idx]
		}
		lines = append(lines, row)
	}
	if t.height > 1 {
		lines = append(lines, t.statusLine(theme))
	}
	if err := t.screen.Render(lines); err != nil {
		t.log().Warn("tui render failed", "err", err)
	}
	t.syncVisibility()
}

func (t *terminalSession) statusLine(theme tuiTheme) string {
	hint := "←/→ tabs · j/k move · t theme · q quit"
	switch {
	case t.reader != nil:
		hint = "j/k scroll · esc back · q back"
	case t.tab.listed():
		hint = "←/→ tabs · j/k select · enter open · t theme · q quit"
	case t.tab == tabDemos:
		hint = "n/p demo · r replay · t theme · q quit"
	}
	text := hint
	if t.notice != "" {
		text = t.notice
	}
	style := ansiBgRGB(theme.TabBarBG) + ansiFgRGB(theme.MutedFG)
	return style + padANSI(trimANSIToWidth(" "+text, t.width), t.width) + ansiReset
}

func clampIndex(idx, count int) int {
	if count <= 0 {
		return 0
	}
	return max(0, min(idx, count-1))
}
