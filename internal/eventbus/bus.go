package eventbus

import (
	"context"
	"sync"

	"pkt.systems/folio/schema"
	"pkt.systems/pslog"
)

// EventType identifies the event payload.
type EventType string

const (
	// EventFrame carries a demo frame for a session.
	EventFrame EventType = "frame"
	// EventLifecycle carries demo mount lifecycle updates.
	EventLifecycle EventType = "lifecycle"
	// EventContent carries content reloads. Every subscriber receives them.
	EventContent EventType = "content"
)

// Event represents a UI-facing event emitted by the core service.
type Event struct {
	Type      EventType
	Frame     schema.DemoFrameEvent
	Lifecycle schema.DemoLifecycleEvent
	Content   schema.ContentEvent
}

// Bus fanouts events to per-session subscribers.
type Bus struct {
	mu    sync.Mutex
	subs  map[schema.SessionID]map[chan Event]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[schema.SessionID]map[chan Event]struct{}),
		log:   logger,
		depth: 256,
	}
}

// Subscribe registers a subscriber for the session and returns a channel + cancel.
func (b *Bus) Subscribe(sessionID schema.SessionID) (<-chan Event, func()) {
	if b == nil {
		return nil, func() {}
	}
	ch := make(chan Event, b.depth)
	b.mu.Lock()
	sessionSubs := b.subs[sessionID]
	if sessionSubs == nil {
		sessionSubs = make(map[chan Event]struct{})
		b.subs[sessionID] = sessionSubs
	}
	sessionSubs[ch] = struct{}{}
	count := len(sessionSubs)
	b.mu.Unlock()
	if b.log != nil {
		b.log.With("session", sessionID).Debug("eventbus subscribe", "subs", count)
	}
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if subs := b.subs[sessionID]; subs != nil {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(b.subs, sessionID)
				}
			}
			b.mu.Unlock()
			close(ch)
			if b.log != nil {
				b.log.With("session", sessionID).Debug("eventbus unsubscribe")
			}
		})
	}
}

// OnDemoFrame publishes a frame event.
func (b *Bus) OnDemoFrame(event schema.DemoFrameEvent) {
	b.publish(event.SessionID, Event{Type: EventFrame, Frame: event})
}

// OnDemoLifecycle publishes a lifecycle event.
func (b *Bus) OnDemoLifecycle(event schema.DemoLifecycleEvent) {
	b.publish(event.SessionID, Event{Type: EventLifecycle, Lifecycle: event})
}

// OnContentEvent publishes a content reload to every subscriber.
func (b *Bus) OnContentEvent(event schema.ContentEvent) {
	if b == nil {
		return
	}
	b.mu.Lock()
	dropped := 0
	for _, sessionSubs := range b.subs {
		dropped += deliver(sessionSubs, Event{Type: EventContent, Content: event})
	}
	b.mu.Unlock()
	if dropped > 0 && b.log != nil {
		b.log.Trace("eventbus dropped", "count", dropped, "type", EventContent)
	}
}

// publish delivers under the lock so a concurrent unsubscribe cannot close
// a channel mid-send. Sends never block.
func (b *Bus) publish(sessionID schema.SessionID, event Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	dropped := deliver(b.subs[sessionID], event)
	b.mu.Unlock()
	if dropped > 0 && b.log != nil {
		b.log.With("session", sessionID).Trace("eventbus dropped", "count", dropped, "type", event.Type)
	}
}

func deliver(subs map[chan Event]struct{}, event Event) int {
	dropped := 0
	for sub := range subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	return dropped
}
