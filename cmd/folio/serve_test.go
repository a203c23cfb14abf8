package main

import (
	"testing"
	"time"

	"pkt.systems/folio/internal/appconfig"
)

func TestServeOptions(t *testing.T) {
	if got := len(serveOptions(false, false)); got != 2 {
		t.Fatalf("expected both frontends by default, got %d", got)
	}
	if got := len(serveOptions(true, false)); got != 1 {
		t.Fatalf("expected one frontend for --http-only, got %d", got)
	}
	if got := len(serveOptions(false, true)); got != 1 {
		t.Fatalf("expected one frontend for --ssh-only, got %d", got)
	}
}

func TestServeRejectsConflictingFlags(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"serve", "--http-only", "--ssh-only", "--no-banner"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected conflicting flags to fail")
	}
}

func TestToServerConfig(t *testing.T) {
	cfg, err := appconfig.DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg.ContentDir = "/srv/content"
	cfg.SSH.IdleTimeoutMinutes = 5
	cfg.Logging.DisableAccessLog = true
	cfg.Service.DefaultTheme = "gruvbox"

	got := toServerConfig(cfg)
	if got.Service.ContentDir != "/srv/content" {
		t.Fatalf("expected content dir, got %q", got.Service.ContentDir)
	}
	if got.SSH.IdleTimeout != 5*time.Minute {
		t.Fatalf("expected 5m idle timeout, got %v", got.SSH.IdleTimeout)
	}
	if !got.HTTP.DisableAccessLog || got.HTTP.DefaultTheme != "gruvbox" || got.SSH.DefaultTheme != "gruvbox" {
		t.Fatalf("unexpected frontend config %+v %+v", got.HTTP, got.SSH)
	}
	if got.HTTP.Addr != ":27480" || got.SSH.Addr != ":27422" {
		t.Fatalf("unexpected addrs %q %q", got.HTTP.Addr, got.SSH.Addr)
	}
}
