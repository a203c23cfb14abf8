package folio

import (
	"pkt.systems/folio/core"
	"pkt.systems/folio/schema"
)

type eventFanout struct {
	sinks []core.EventSink
}

func (f eventFanout) OnDemoFrame(event schema.DemoFrameEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnDemoFrame(event)
	}
}

func (f eventFanout) OnDemoLifecycle(event schema.DemoLifecycleEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnDemoLifecycle(event)
	}
}

func (f eventFanout) OnContentEvent(event schema.ContentEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnContentEvent(event)
	}
}
