package playback

import "sync"

// DefaultThreshold is the visible fraction at which a gate counts as in view.
const DefaultThreshold = 0.6

// Trigger is what a Gate drives.
type Trigger interface {
	Start()
	CancelAndReplay()
}

// Gate starts a trigger the first time it scrolls into view and replays it
// when the replay token changes while in view.
type Gate struct {
	mu        sync.Mutex
	target    Trigger
	threshold float64
	inView    bool
	started   bool
	token     uint64
	consumed  uint64
}

// NewGate returns a gate for target. A threshold outside (0, 1] falls back
// to DefaultThreshold. token is the replay token at mount time.
func NewGate(target Trigger, threshold float64, token uint64) *Gate {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Gate{
		target:    target,
		threshold: threshold,
		token:     token,
		consumed:  token,
	}
}

// Threshold returns the in-view threshold.
func (g *Gate) Threshold() float64 {
	return g.threshold
}

// Observe records the visible fraction of the component. It reports
// whether the component is in view and whether the call started or
// replayed playback.
func (g *Gate) Observe(ratio float64) (inView bool, triggered bool) {
	g.mu.Lock()
	inView = ratio >= g.threshold
	entered := inView && !g.inView
	g.inView = inView
	var fire func()
	switch {
	case !entered:
	case !g.started:
		g.started = true
		g.consumed = g.token
		fire = g.target.Start
	case g.token != g.consumed:
		g.consumed = g.token
		fire = g.target.CancelAndReplay
	}
	g.mu.Unlock()

	if fire != nil {
		fire()
		return inView, true
	}
	return inView, false
}

// SetReplayToken records the external replay token. It replays when the
// token differs from the last consumed one while the component is in view
// and playback has started. Otherwise the token waits for the next entry
// into view.
func (g *Gate) SetReplayToken(token uint64) bool {
	g.mu.Lock()
	g.token = token
	if !g.started || !g.inView || token == g.consumed {
		g.mu.Unlock()
		return false
	}
	g.consumed = token
	g.mu.Unlock()
	g.target.CancelAndReplay()
	return true
}

// Token returns the latest replay token.
func (g *Gate) Token() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

// Started reports whether the initial run was triggered.
func (g *Gate) Started() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.started
}

// InView reports the last observed visibility.
func (g *Gate) InView() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inView
}
