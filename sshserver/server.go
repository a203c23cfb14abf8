package sshserver

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync/atomic"
	"time"

	gliderssh "github.com/gliderlabs/ssh"

	"pkt.systems/folio/core"
	"pkt.systems/folio/internal/eventbus"
	"pkt.systems/folio/schema"
	"pkt.systems/pslog"
)

// Server exposes the portfolio over SSH. Anyone may connect; there is no
// authentication and every session is read-only.
type Server struct {
	Addr         string
	HostKeyPath  string
	Listener     net.Listener
	Service      core.Service
	EventBus     *eventbus.Bus
	IdleTimeout  time.Duration
	DefaultTheme schema.ThemeName
	logger       pslog.Logger

	sessions atomic.Int64
}

// New builds a server from cfg.
func New(cfg Config, service core.Service, bus *eventbus.Bus) *Server {
	theme, ok := schema.NormalizeThemeName(cfg.DefaultTheme)
	if !ok {
		theme = schema.DefaultTheme
	}
	return &Server{
		Addr:         cfg.Addr,
		HostKeyPath:  cfg.HostKeyPath,
		Service:      service,
		EventBus:     bus,
		IdleTimeout:  cfg.IdleTimeout,
		DefaultTheme: theme,
	}
}

// ListenAndServe starts the SSH server and shuts down on context cancellation.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.Service == nil {
		return errors.New("ssh server requires a service")
	}
	if s.logger == nil {
		s.logger = pslog.Ctx(ctx)
	}

	signer, err := EnsureHostKey(s.HostKeyPath)
	if err != nil {
		return err
	}

	server := &gliderssh.Server{
		Addr:        s.Addr,
		Handler:     s.handleSession,
		IdleTimeout: s.IdleTimeout,
	}
	server.AddHostKey(signer)

	errCh := make(chan error, 1)
	go func() {
		if s.Listener != nil {
			errCh <- server.Serve(s.Listener)
			return
		}
		errCh <- server.ListenAndServe()
	}()
	addr := s.Addr
	if s.Listener != nil {
		addr = s.Listener.Addr().String()
	}
	s.logger.Info("ssh listening", "addr", addr, "fingerprint", Fingerprint(signer))

	select {
	case <-ctx.Done():
		_ = server.Close()
		return nil
	case err := <-errCh:
		if errors.Is(err, gliderssh.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Sessions reports the number of open SSH sessions.
func (s *Server) Sessions() int {
	return int(s.sessions.Load())
}

func (s *Server) handleSession(sess gliderssh.Session) {
	log := s.logger
	if log == nil {
		log = pslog.Ctx(sess.Context())
	}
	sshSession := sess.Context().SessionID()
	log = log.With("remote", sess.RemoteAddr().String())
	if sshSession != "" {
		log = log.With("ssh_session", shortID(sshSession))
	}
	if user := sess.User(); user != "" {
		log = log.With("ssh_user", user)
	}

	pty, winCh, ok := sess.Pty()
	if !ok {
		log.Info("ssh session rejected", "reason", "pty required")
		_, _ = io.WriteString(sess, "folio needs an interactive terminal; try ssh -t\n")
		_ = sess.Exit(1)
		return
	}

	open := s.sessions.Add(1)
	defer s.sessions.Add(-1)
	log.Info("ssh session opened", "term", pty.Term, "sessions", open)

	ctx := pslog.ContextWithLogger(sess.Context(), log)
	contentKey := schema.SessionID("ssh-" + shortID(sshSession))
	ui := newTerminalSession(sess, sess, s.Service, s.EventBus, s.DefaultTheme, contentKey)
	ui.SetSize(pty.Window.Width, pty.Window.Height)
	_ = ui.Run(ctx, winCh)
	_ = sess.Exit(0)
	log.Info("ssh session closed", "term", pty.Term)
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
