package core

import (
	"context"
	"fmt"
	"math"
	"sync"

	"pkt.systems/folio/demos"
	"pkt.systems/folio/internal/logx"
	"pkt.systems/folio/playback"
	"pkt.systems/folio/schema"
)

// demoSession is one mounted demo: an engine, the gate that drives it, and
// the forwarder that turns engine frames into sink events.
type demoSession struct {
	id     schema.SessionID
	demo   demos.Demo
	engine *playback.Engine
	gate   *playback.Gate
	done   chan struct{}

	mu        sync.Mutex
	token     uint64
	canReplay bool
}

func (d *demoSession) completed() {
	d.mu.Lock()
	d.canReplay = true
	d.mu.Unlock()
}

// hover bumps the replay token once per completed run.
func (d *demoSession) hover() (uint64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.canReplay {
		return d.token, false
	}
	d.token++
	d.canReplay = false
	return d.token, true
}

func (d *demoSession) setToken(token uint64) {
	d.mu.Lock()
	if token > d.token {
		d.token = token
	}
	d.mu.Unlock()
}

func (s *service) forward(sess *demoSession, frames <-chan playback.Frame) {
	defer close(sess.done)
	var lastComplete uint64
	for f := range frames {
		completed := f.Complete && f.Run != lastComplete
		if completed {
			lastComplete = f.Run
		}
		if s.sink == nil {
			continue
		}
		s.sink.OnDemoFrame(schema.DemoFrameEvent{
			SessionID: sess.id,
			DemoID:    sess.demo.ID,
			Frame:     toSchemaFrame(f),
			Completed: completed,
		})
	}
}

func toSchemaFrame(f playback.Frame) schema.DemoFrame {
	f = f.Clone()
	return schema.DemoFrame{
		Run:      f.Run,
		Seq:      f.Seq,
		Phase:    schema.Phase(f.Phase),
		Counters: f.Counters,
		Texts:    f.Texts,
		Flags:    f.Flags,
		Complete: f.Complete,
	}
}

func (s *service) MountDemo(ctx context.Context, req schema.MountDemoRequest) (schema.MountDemoResponse, error) {
	if ctx == nil {
		return schema.MountDemoResponse{}, errMissingContext
	}
	demo, err := demos.Get(req.DemoID)
	if err != nil {
		return schema.MountDemoResponse{}, err
	}
	loop := demo.Loop || s.cfg.AutoLoop
	if req.Loop != nil {
		loop = *req.Loop
	}
	sess := &demoSession{
		id:    newSessionID(),
		demo:  demo,
		done:  make(chan struct{}),
		token: req.ReplayToken,
	}
	log := logx.WithSession(logx.WithDemo(ctx, demo.ID), sess.id)
	engine, err := playback.New(demo.Script,
		playback.WithClock(s.clock),
		playback.WithLogger(log),
		playback.WithLoop(loop),
		playback.WithOnComplete(func(playback.Frame) { sess.completed() }),
	)
	if err != nil {
		return schema.MountDemoResponse{}, fmt.Errorf("demo %s: %w", demo.ID, err)
	}
	sess.engine = engine
	sess.gate = playback.NewGate(engine, s.cfg.VisibilityThreshold, req.ReplayToken)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		engine.Stop()
		return schema.MountDemoResponse{}, fmt.Errorf("%w: service closed", schema.ErrInvalidRequest)
	}
	if len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		engine.Stop()
		log.Warn("service demo mount rejected", "sessions", s.cfg.MaxSessions)
		return schema.MountDemoResponse{}, schema.ErrTooManySessions
	}
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	frames, _ := engine.Subscribe()
	go s.forward(sess, frames)

	log.Info("service demo mounted", "loop", loop)
	s.emitLifecycle(sess, schema.DemoMounted)
	return schema.MountDemoResponse{
		SessionID: sess.id,
		Demo:      demo.Info(),
		Frame:     toSchemaFrame(engine.Snapshot()),
	}, nil
}

func (s *service) UnmountDemo(ctx context.Context, req schema.UnmountDemoRequest) (schema.UnmountDemoResponse, error) {
	if ctx == nil {
		return schema.UnmountDemoResponse{}, errMissingContext
	}
	s.mu.Lock()
	sess, ok := s.sessions[req.SessionID]
	if ok {
		delete(s.sessions, req.SessionID)
	}
	s.mu.Unlock()
	if !ok {
		return schema.UnmountDemoResponse{}, fmt.Errorf("%w: %s", schema.ErrSessionNotFound, req.SessionID)
	}
	frame := s.teardown(sess)
	logx.WithSession(logx.WithDemo(ctx, sess.demo.ID), sess.id).Info("service demo unmounted", "run", frame.Run)
	return schema.UnmountDemoResponse{Frame: frame}, nil
}

// teardown stops the engine and waits for the forwarder to drain.
func (s *service) teardown(sess *demoSession) schema.DemoFrame {
	sess.engine.Stop()
	<-sess.done
	s.emitLifecycle(sess, schema.DemoUnmounted)
	return toSchemaFrame(sess.engine.Snapshot())
}

func (s *service) emitLifecycle(sess *demoSession, kind schema.DemoLifecycle) {
	if s.sink == nil {
		return
	}
	s.sink.OnDemoLifecycle(schema.DemoLifecycleEvent{SessionID: sess.id, DemoID: sess.demo.ID, Type: kind})
}

func (s *service) session(id schema.SessionID) (*demoSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", schema.ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *service) DemoSnapshot(ctx context.Context, req schema.DemoSnapshotRequest) (schema.DemoSnapshotResponse, error) {
	if ctx == nil {
		return schema.DemoSnapshotResponse{}, errMissingContext
	}
	sess, err := s.session(req.SessionID)
	if err != nil {
		return schema.DemoSnapshotResponse{}, err
	}
	return schema.DemoSnapshotResponse{DemoID: sess.demo.ID, Frame: toSchemaFrame(sess.engine.Snapshot())}, nil
}

func (s *service) UpdateVisibility(ctx context.Context, req schema.UpdateVisibilityRequest) (schema.UpdateVisibilityResponse, error) {
	if ctx == nil {
		return schema.UpdateVisibilityResponse{}, errMissingContext
	}
	if math.IsNaN(req.Ratio) || req.Ratio < 0 || req.Ratio > 1 {
		return schema.UpdateVisibilityResponse{}, fmt.Errorf("%w: ratio %v outside [0, 1]", schema.ErrInvalidRequest, req.Ratio)
	}
	sess, err := s.session(req.SessionID)
	if err != nil {
		return schema.UpdateVisibilityResponse{}, err
	}
	inView, triggered := sess.gate.Observe(req.Ratio)
	if triggered {
		logx.WithSession(logx.WithDemo(ctx, sess.demo.ID), sess.id).Debug("service demo in view", "ratio", req.Ratio)
	}
	return schema.UpdateVisibilityResponse{InView: inView, Triggered: triggered}, nil
}

func (s *service) SetReplayToken(ctx context.Context, req schema.SetReplayTokenRequest) (schema.SetReplayTokenResponse, error) {
	if ctx == nil {
		return schema.SetReplayTokenResponse{}, errMissingContext
	}
	sess, err := s.session(req.SessionID)
	if err != nil {
		return schema.SetReplayTokenResponse{}, err
	}
	sess.setToken(req.Token)
	return schema.SetReplayTokenResponse{Triggered: sess.gate.SetReplayToken(req.Token)}, nil
}

func (s *service) HoverDemo(ctx context.Context, req schema.HoverDemoRequest) (schema.HoverDemoResponse, error) {
	if ctx == nil {
		return schema.HoverDemoResponse{}, errMissingContext
	}
	sess, err := s.session(req.SessionID)
	if err != nil {
		return schema.HoverDemoResponse{}, err
	}
	token, bumped := sess.hover()
	if !bumped {
		return schema.HoverDemoResponse{Token: token}, nil
	}
	triggered := sess.gate.SetReplayToken(token)
	if triggered {
		logx.WithSession(logx.WithDemo(ctx, sess.demo.ID), sess.id).Debug("service demo hover replay", "token", token)
	}
	return schema.HoverDemoResponse{Token: token, Triggered: triggered}, nil
}

func (s *service) Close() error {
	s.mu.Lock()
	s.closed = true
	sessions := make([]*demoSession, 0, len(s.sessions))
	for id, sess := range s.sessions {
		sessions = append(sessions, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	for _, sess := range sessions {
		s.teardown(sess)
	}
	if len(sessions) > 0 {
		s.logger.Info("service demo sessions closed", "count", len(sessions))
	}
	return nil
}
