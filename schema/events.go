package schema

import "time"

// DemoFrameEvent is emitted whenever a demo session changes state.
type DemoFrameEvent struct {
	SessionID SessionID
	DemoID    DemoID
	Frame     DemoFrame
	// Completed is set on the frame that reached the terminal phase.
	Completed bool
}

// DemoLifecycle names a mount lifecycle transition.
type DemoLifecycle string

const (
	// DemoMounted is emitted after a session is mounted.
	DemoMounted DemoLifecycle = "mounted"
	// DemoUnmounted is emitted after a session is torn down.
	DemoUnmounted DemoLifecycle = "unmounted"
)

// DemoLifecycleEvent reports a session mount or unmount.
type DemoLifecycleEvent struct {
	SessionID SessionID
	DemoID    DemoID
	Type      DemoLifecycle
}

// ContentEvent reports a content reload.
type ContentEvent struct {
	Posts    int
	Projects int
	Err      string
	At       time.Time
}
