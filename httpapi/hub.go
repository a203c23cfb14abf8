package httpapi

import (
	"context"
	"sync"
	"time"

	"pkt.systems/folio/demos"
	"pkt.systems/folio/internal/logx"
	"pkt.systems/folio/schema"
)

// Stream event types.
const (
	EventMounted   = "mounted"
	EventFrame     = "frame"
	EventUnmounted = "unmounted"
	EventContent   = "content"
)

// StreamEvent is sent to SSE clients.
type StreamEvent struct {
	Seq       uint64            `json:"seq"`
	Type      string            `json:"type"`
	SessionID schema.SessionID  `json:"session_id,omitempty"`
	DemoID    schema.DemoID     `json:"demo_id,omitempty"`
	Frame     *schema.DemoFrame `json:"frame,omitempty"`
	Completed bool              `json:"completed,omitempty"`
	Lines     []DemoLine        `json:"lines,omitempty"`
	Content   *ContentPayload   `json:"content,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// DemoLine is one rendered row of a demo pane.
type DemoLine struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

// ContentPayload reports a content reload.
type ContentPayload struct {
	Posts    int    `json:"posts"`
	Projects int    `json:"projects"`
	Err      string `json:"error,omitempty"`
}

// Hub broadcasts events per demo session.
type Hub struct {
	mu          sync.Mutex
	sessions    map[schema.SessionID]*sessionHub
	historySize int
	width       int
}

// NewHub constructs a hub with the given history size and demo line width.
func NewHub(historySize, width int) *Hub {
	if historySize <= 0 {
		historySize = 64
	}
	if width <= 0 {
		width = defaultDemoWidth
	}
	return &Hub{
		sessions:    make(map[schema.SessionID]*sessionHub),
		historySize: historySize,
		width:       width,
	}
}

// OnDemoFrame implements core.EventSink.
func (h *Hub) OnDemoFrame(event schema.DemoFrameEvent) {
	logx.WithDemoSession(context.Background(), event.DemoID, event.SessionID).Trace("hub frame event", "run", event.Frame.Run, "seq", event.Frame.Seq, "phase", event.Frame.Phase)
	frame := event.Frame
	h.publish(event.SessionID, StreamEvent{
		Type:      EventFrame,
		SessionID: event.SessionID,
		DemoID:    event.DemoID,
		Frame:     &frame,
		Completed: event.Completed,
		Lines:     h.render(event.DemoID, frame),
		Timestamp: time.Now(),
	})
}

// OnDemoLifecycle implements core.EventSink. Unmounting releases the
// session's history after subscribers saw the event.
func (h *Hub) OnDemoLifecycle(event schema.DemoLifecycleEvent) {
	log := logx.WithDemoSession(context.Background(), event.DemoID, event.SessionID)
	log.Debug("hub lifecycle event", "type", event.Type)
	if event.Type != schema.DemoUnmounted {
		return
	}
	h.mu.Lock()
	sh := h.sessions[event.SessionID]
	if sh != nil {
		sh.seq++
		sh.deliver(StreamEvent{
			Seq:       sh.seq,
			Type:      EventUnmounted,
			SessionID: event.SessionID,
			DemoID:    event.DemoID,
			Timestamp: time.Now(),
		})
		delete(h.sessions, event.SessionID)
	}
	h.mu.Unlock()
}

// OnContentEvent implements core.EventSink. Every open session receives it.
func (h *Hub) OnContentEvent(event schema.ContentEvent) {
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}
	h.mu.Lock()
	for _, sh := range h.sessions {
		sh.seq++
		sh.record(StreamEvent{
			Seq:  sh.seq,
			Type: EventContent,
			Content: &ContentPayload{
				Posts:    event.Posts,
				Projects: event.Projects,
				Err:      event.Err,
			},
			Timestamp: at,
		}, h.historySize)
	}
	count := len(h.sessions)
	h.mu.Unlock()
	logx.Ctx(context.Background()).Debug("hub content event", "sessions", count, "posts", event.Posts, "projects", event.Projects)
}

// Subscribe registers a subscriber for a session. It returns the events
// published before the call so a stream that subscribes after mounting
// misses nothing.
func (h *Hub) Subscribe(sessionID schema.SessionID) (<-chan StreamEvent, func(), []StreamEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sh := h.getOrCreateLocked(sessionID)
	ch := make(chan StreamEvent, 256)
	sh.subs[ch] = struct{}{}
	history := append([]StreamEvent(nil), sh.history...)
	log := logx.WithSession(logx.Ctx(context.Background()), sessionID)
	log.Debug("hub subscribe", "subs", len(sh.subs), "history", len(history))
	var once sync.Once
	unsub := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(sh.subs, ch)
			close(ch)
			remaining := len(sh.subs)
			h.mu.Unlock()
			log.Debug("hub unsubscribe", "subs", remaining)
		})
	}
	return ch, unsub, history
}

// Sessions reports how many sessions the hub tracks.
func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// render draws a frame of demoID at the hub width.
func (h *Hub) render(demoID schema.DemoID, frame schema.DemoFrame) []DemoLine {
	return renderDemoLines(demoID, frame, h.width)
}

func renderDemoLines(demoID schema.DemoID, frame schema.DemoFrame, width int) []DemoLine {
	d, err := demos.Get(demoID)
	if err != nil {
		return nil
	}
	return toDemoLines(demos.Render(d, demos.PlaybackFrame(frame), width))
}

func toDemoLines(lines []demos.Line) []DemoLine {
	out := make([]DemoLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, DemoLine{Text: l.Text, Color: l.Color})
	}
	return out
}

func (h *Hub) publish(sessionID schema.SessionID, event StreamEvent) {
	h.mu.Lock()
	sh := h.getOrCreateLocked(sessionID)
	sh.seq++
	event.Seq = sh.seq
	dropped := sh.record(event, h.historySize)
	h.mu.Unlock()
	if dropped > 0 {
		logx.WithSession(logx.Ctx(context.Background()), sessionID).Warn("hub event dropped", "type", event.Type, "dropped", dropped)
	}
}

func (h *Hub) getOrCreateLocked(sessionID schema.SessionID) *sessionHub {
	sh := h.sessions[sessionID]
	if sh == nil {
		sh = &sessionHub{
			subs: make(map[chan StreamEvent]struct{}),
		}
		h.sessions[sessionID] = sh
	}
	return sh
}

type sessionHub struct {
	seq     uint64
	history []StreamEvent
	subs    map[chan StreamEvent]struct{}
}

// record appends to history and delivers. The hub lock must be held.
func (sh *sessionHub) record(event StreamEvent, historySize int) int {
	sh.history = append(sh.history, event)
	if len(sh.history) > historySize {
		sh.history = sh.history[len(sh.history)-historySize:]
	}
	return sh.deliver(event)
}

func (sh *sessionHub) deliver(event StreamEvent) int {
	dropped := 0
	for sub := range sh.subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	return dropped
}
