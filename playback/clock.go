package playback

import "time"

// Clock schedules delayed continuations.
type Clock interface {
	AfterFunc(d time.Duration, f func())
}

// SystemClock schedules with time.AfterFunc.
type SystemClock struct{}

// AfterFunc runs f in its own goroutine after d.
func (SystemClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
