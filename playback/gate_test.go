package playback

import (
	"testing"
	"testing/synctest"
	"time"
)

type countingTrigger struct {
	starts  int
	replays int
}

func (c *countingTrigger) Start()           { c.starts++ }
func (c *countingTrigger) CancelAndReplay() { c.replays++ }

func TestGateStartsOnceOnFirstView(t *testing.T) {
	trig := &countingTrigger{}
	g := NewGate(trig, 0, 0)

	if inView, triggered := g.Observe(0.59); inView || triggered {
		t.Fatalf("expected below threshold to be out of view")
	}
	if _, triggered := g.Observe(0.6); !triggered {
		t.Fatalf("expected first entry into view to trigger")
	}
	g.Observe(0.9)
	g.Observe(0)
	g.Observe(1)
	g.Observe(0.2)
	g.Observe(0.7)
	if trig.starts != 1 || trig.replays != 0 {
		t.Fatalf("expected exactly one start, got starts=%d replays=%d", trig.starts, trig.replays)
	}
}

func TestGateThresholdDefaults(t *testing.T) {
	if got := NewGate(&countingTrigger{}, 0, 0).Threshold(); got != DefaultThreshold {
		t.Fatalf("expected default threshold, got %v", got)
	}
	if got := NewGate(&countingTrigger{}, 1.5, 0).Threshold(); got != DefaultThreshold {
		t.Fatalf("expected default threshold for out-of-range input, got %v", got)
	}
	if got := NewGate(&countingTrigger{}, 0.25, 0).Threshold(); got != 0.25 {
		t.Fatalf("expected custom threshold, got %v", got)
	}
}

func TestGateDuplicateTokenReplaysOnce(t *testing.T) {
	trig := &countingTrigger{}
	g := NewGate(trig, 0, 0)
	g.Observe(1)

	if !g.SetReplayToken(1) {
		t.Fatalf("expected token change to replay")
	}
	if g.SetReplayToken(1) {
		t.Fatalf("expected duplicate token to be ignored")
	}
	if trig.replays != 1 {
		t.Fatalf("expected one replay, got %d", trig.replays)
	}
}

func TestGateTokenBeforeStartIsIgnored(t *testing.T) {
	trig := &countingTrigger{}
	g := NewGate(trig, 0, 0)
	if g.SetReplayToken(3) {
		t.Fatalf("expected no replay before the first view")
	}
	g.Observe(1)
	if trig.starts != 1 || trig.replays != 0 {
		t.Fatalf("expected a single start, got starts=%d replays=%d", trig.starts, trig.replays)
	}
	g.Observe(0)
	g.Observe(1)
	if trig.replays != 0 {
		t.Fatalf("expected first view to consume the token")
	}
}

func TestGateOffscreenTokenWaitsForView(t *testing.T) {
	trig := &countingTrigger{}
	g := NewGate(trig, 0, 0)
	g.Observe(1)
	g.Observe(0)

	if g.SetReplayToken(1) {
		t.Fatalf("expected no replay while off-screen")
	}
	if trig.replays != 0 {
		t.Fatalf("expected no replay while off-screen, got %d", trig.replays)
	}
	g.Observe(0.3)
	if trig.replays != 0 {
		t.Fatalf("expected no replay below threshold")
	}
	if _, triggered := g.Observe(0.8); !triggered {
		t.Fatalf("expected pending token to replay on re-entry")
	}
	g.Observe(0)
	g.Observe(1)
	if trig.replays != 1 || trig.starts != 1 {
		t.Fatalf("expected one start and one replay, got starts=%d replays=%d", trig.starts, trig.replays)
	}
}

func TestGateOffscreenTokenRevertedIsNotConsumed(t *testing.T) {
	trig := &countingTrigger{}
	g := NewGate(trig, 0, 4)
	g.Observe(1)
	g.Observe(0)
	g.SetReplayToken(5)
	g.SetReplayToken(4)
	g.Observe(1)
	if trig.replays != 0 {
		t.Fatalf("expected no replay when token equals the consumed one")
	}
}

func TestGateDrivesEngine(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e, err := New(revealScript())
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}
		defer e.Stop()
		g := NewGate(e, DefaultThreshold, 0)

		g.SetReplayToken(1)
		time.Sleep(time.Second)
		synctest.Wait()
		if e.Snapshot().Run != 0 {
			t.Fatalf("expected no run while off-screen")
		}

		g.Observe(0.75)
		time.Sleep(450 * time.Millisecond)
		synctest.Wait()
		if got := e.Snapshot(); got.Run != 1 || got.Counter("items") != 1 {
			t.Fatalf("expected first run with one item, got %+v", got)
		}

		g.SetReplayToken(2)
		g.SetReplayToken(2)
		time.Sleep(time.Millisecond)
		synctest.Wait()
		if got := e.Snapshot(); got.Run != 2 || got.Counter("items") != 0 {
			t.Fatalf("expected a single replay, got %+v", got)
		}
	})
}
