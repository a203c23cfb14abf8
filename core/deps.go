package core

import (
	"io/fs"

	"pkt.systems/folio/playback"
	"pkt.systems/folio/schema"
	"pkt.systems/pslog"
)

// ServiceDeps captures optional dependencies for the core service.
type ServiceDeps struct {
	// Content overrides the content source. When nil the service reads
	// ServiceConfig.ContentDir, or the bundled starter content.
	Content   fs.FS
	Profile   schema.Profile
	Clock     playback.Clock
	EventSink EventSink
	Logger    pslog.Logger
}
