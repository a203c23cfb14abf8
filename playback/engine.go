package playback

import (
	"context"
	"sync"

	"pkt.systems/pslog"
)

// DefaultBuffer is the per-subscriber frame buffer.
const DefaultBuffer = 64

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(log pslog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithOnComplete registers a callback invoked once per completed run, with
// the frame that reached the terminal phase. It runs outside the engine lock.
func WithOnComplete(fn func(Frame)) Option {
	return func(e *Engine) {
		e.onComplete = fn
	}
}

// WithLoop restarts the script after the final hold instead of stopping.
func WithLoop(loop bool) Option {
	return func(e *Engine) {
		e.loop = loop
	}
}

// WithBuffer sets the subscriber channel buffer.
func WithBuffer(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.buffer = n
		}
	}
}

// Engine plays a compiled script. All methods are safe for concurrent use.
type Engine struct {
	mu         sync.Mutex
	prog       program
	clock      Clock
	log        pslog.Logger
	loop       bool
	onComplete func(Frame)
	buffer     int

	runs      uint64
	live      uint64
	replayGen uint64
	cancelled bool
	stopped   bool

	phase      Phase
	phaseIndex int
	counters   map[string]int
	texts      map[string]string
	complete   bool
	seq        uint64

	subs    map[uint64]chan Frame
	nextSub uint64
}

// New compiles script into an idle engine.
func New(script Script, opts ...Option) (*Engine, error) {
	prog, err := compile(script)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		prog:       prog,
		clock:      SystemClock{},
		log:        pslog.Ctx(context.Background()),
		buffer:     DefaultBuffer,
		phase:      Idle,
		phaseIndex: -1,
		counters:   cloneInts(prog.counters),
		texts:      cloneStrings(prog.texts),
		subs:       make(map[uint64]chan Frame),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e, nil
}

// Phases returns the script's phases in order.
func (e *Engine) Phases() []Phase {
	out := make([]Phase, len(e.prog.phases))
	copy(out, e.prog.phases)
	return out
}

// Start begins a new run, retiring any live one. It is a no-op after Stop.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	e.startLocked()
}

// CancelAndReplay retires the live run and starts a new one on the next
// scheduling opportunity. Only the latest of several pending replays starts.
func (e *Engine) CancelAndReplay() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	retired := e.live
	e.cancelled = true
	e.live = 0
	e.replayGen++
	gen := e.replayGen
	e.mu.Unlock()

	e.log.Debug("demo run cancelled", "run", retired)
	e.clock.AfterFunc(0, func() { e.replay(gen) })
}

// Stop retires the live run and disposes the engine. No state changes after
// Stop returns, and subscriber channels are closed.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	e.cancelled = true
	retired := e.live
	e.live = 0
	e.replayGen++
	for id, ch := range e.subs {
		close(ch)
		delete(e.subs, id)
	}
	e.mu.Unlock()
	e.log.Info("demo engine stopped", "run", retired)
}

// Running reports whether a run is live.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live != 0
}

// Stopped reports whether Stop was called.
func (e *Engine) Stopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopped
}

// Snapshot returns the current frame.
func (e *Engine) Snapshot() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameLocked()
}

// Subscribe returns a channel of frames and a cancel func. Frames are
// dropped when the buffer is full; every frame is a full snapshot so a
// reader only ever needs the latest one. Frames share their maps between
// subscribers and must not be modified.
func (e *Engine) Subscribe() (<-chan Frame, func()) {
	ch := make(chan Frame, e.buffer)
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	e.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			if sub, ok := e.subs[id]; ok {
				delete(e.subs, id)
				close(sub)
			}
			e.mu.Unlock()
		})
	}
}

func (e *Engine) replay(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped || gen != e.replayGen {
		return
	}
	e.startLocked()
}

func (e *Engine) startLocked() {
	e.runs++
	e.live = e.runs
	e.replayGen++
	e.cancelled = false
	e.phase = Idle
	e.phaseIndex = -1
	e.counters = cloneInts(e.prog.counters)
	e.texts = cloneStrings(e.prog.texts)
	e.complete = false
	e.log.Info("demo run start", "run", e.live)
	e.publishLocked()
	e.scheduleLocked(e.live, 0)
}

func (e *Engine) scheduleLocked(run uint64, idx int) {
	e.clock.AfterFunc(e.prog.ops[idx].wait, func() { e.fire(run, idx) })
}

// fire applies op idx of run, unless run is no longer live.
func (e *Engine) fire(run uint64, idx int) {
	e.mu.Lock()
	if e.cancelled || e.stopped || run != e.live {
		live := e.live
		e.mu.Unlock()
		e.log.Debug("demo step stale", "run", run, "live", live, "op", idx)
		return
	}
	o := e.prog.ops[idx]
	if o.end {
		if e.loop {
			e.startLocked()
			e.mu.Unlock()
			return
		}
		e.live = 0
		e.mu.Unlock()
		e.log.Info("demo run finished", "run", run)
		return
	}
	if o.enter {
		e.phase = o.phase
		e.phaseIndex++
	}
	for k, v := range o.counters {
		e.counters[k] = v
	}
	for k, v := range o.texts {
		e.texts[k] = v
	}
	if o.complete {
		e.complete = true
	}
	frame := e.publishLocked()
	if idx+1 < len(e.prog.ops) {
		e.scheduleLocked(run, idx+1)
	}
	done := e.onComplete
	e.mu.Unlock()

	if o.complete {
		e.log.Info("demo run complete", "run", run, "phase", frame.Phase)
		if done != nil {
			done(frame)
		}
	}
}

func (e *Engine) frameLocked() Frame {
	flags := make(map[string]bool, len(e.prog.flags))
	for _, f := range e.prog.flags {
		flags[f.name] = e.phaseIndex >= f.from && e.phaseIndex < f.end
	}
	return Frame{
		Run:      e.runs,
		Seq:      e.seq,
		Phase:    e.phase,
		Counters: cloneInts(e.counters),
		Texts:    cloneStrings(e.texts),
		Flags:    flags,
		Complete: e.complete,
	}
}

func (e *Engine) publishLocked() Frame {
	e.seq++
	frame := e.frameLocked()
	e.log.Trace("demo frame", "run", frame.Run, "seq", frame.Seq, "phase", frame.Phase)
	for _, ch := range e.subs {
		select {
		case ch <- frame:
		default:
			e.log.Warn("demo frame dropped", "run", frame.Run, "seq", frame.Seq)
		}
	}
	return frame
}
