package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pkt.systems/folio/internal/logx"
	"pkt.systems/folio/schema"
	"pkt.systems/pslog"
)

// handleStream mounts a demo session for the lifetime of the request. The
// first event is "mounted"; frames, content reloads and the final
// "unmounted" follow. Disconnecting unmounts the session.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("stream unsupported"))
		return
	}
	demoID := schema.DemoID(r.PathValue("id"))
	req := schema.MountDemoRequest{DemoID: demoID}
	q := r.URL.Query()
	if raw := q.Get("loop"); raw != "" {
		loop, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: loop must be a boolean", schema.ErrInvalidRequest))
			return
		}
		req.Loop = &loop
	}
	if raw := q.Get("token"); raw != "" {
		token, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: token must be an unsigned integer", schema.ErrInvalidRequest))
			return
		}
		req.ReplayToken = token
	}

	resp, err := s.service.MountDemo(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sid := resp.SessionID
	log := logx.WithDemoSession(r.Context(), resp.Demo.ID, sid).With("remote", clientIP(r))
	ch, unsubscribe, history := s.hub.Subscribe(sid)
	defer func() {
		unsubscribe()
		// The request context is done by now.
		ctx := pslog.ContextWithLogger(context.WithoutCancel(r.Context()), log)
		if _, err := s.service.UnmountDemo(ctx, schema.UnmountDemoRequest{SessionID: sid}); err != nil && !errors.Is(err, schema.ErrSessionNotFound) {
			log.Warn("http stream unmount failed", "err", err)
		}
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	frame := resp.Frame
	if err := writeSSEvent(w, StreamEvent{
		Type:      EventMounted,
		SessionID: sid,
		DemoID:    resp.Demo.ID,
		Frame:     &frame,
		Lines:     renderDemoLines(resp.Demo.ID, frame, s.width),
		Timestamp: time.Now(),
	}); err != nil {
		return
	}
	for _, event := range history {
		if err := writeSSEvent(w, event); err != nil {
			return
		}
	}
	flusher.Flush()
	log.Info("http stream opened", "history", len(history))

	keepalive := time.NewTicker(s.keepalive)
	defer keepalive.Stop()
	for {
		select {
		case <-r.Context().Done():
			log.Info("http stream closed")
			return
		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := writeSSEvent(w, event); err != nil {
				log.Debug("http stream write failed", "err", err)
				return
			}
			flusher.Flush()
			if event.Type == EventUnmounted {
				log.Info("http stream ended by unmount")
				return
			}
		}
	}
}
