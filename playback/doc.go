// Package playback plays scripted demo sequences.
//
// A Script is an ordered list of phase steps. An Engine compiles it into a
// flat list of timed operations and applies them one at a time. Every run is
// identified by a run number; a delayed operation captures the run it was
// scheduled for and is dropped when that run is no longer live, so replays
// and teardown never need to revoke timers.
//
// A Gate sits in front of an Engine and decides when to start and replay it
// from a visibility ratio and an external replay token.
package playback
