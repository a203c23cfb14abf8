package core

import "pkt.systems/folio/schema"

// EventSink receives demo and content events from the core service.
// Implementations must not block.
type EventSink interface {
	OnDemoFrame(event schema.DemoFrameEvent)
	OnDemoLifecycle(event schema.DemoLifecycleEvent)
	OnContentEvent(event schema.ContentEvent)
}
