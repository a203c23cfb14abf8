package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadRejectsUnsupportedConfigVersion(t *testing.T) {
	path := writeConfig(t, `
config_version: 2
http:
  addr: ":8080"
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config_version") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRequiresConfigVersion(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":8080"
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "config_version is required") {
		t.Fatalf("expected missing config_version error, got %v", err)
	}
}

func TestLoadRejectsInvalidHTTPBaseURL(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
http:
  base_url: example.com
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "http.base_url") {
		t.Fatalf("expected base_url error, got %v", err)
	}
}

func TestLoadRejectsThresholdOutOfRange(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
service:
  visibility_threshold: 1.5
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "service.visibility_threshold") {
		t.Fatalf("expected threshold error, got %v", err)
	}
}

func TestLoadReadsFileAndEnv(t *testing.T) {
	t.Setenv("CONTENT_ROOT", "/srv/folio")
	t.Setenv("FOLIO_HTTP_ADDR", "127.0.0.1:9000")
	path := writeConfig(t, `
config_version: 1
content_dir: $CONTENT_ROOT/content
site:
  name: Ada
  links:
    - label: GitHub
      href: https://github.com/ada
service:
  auto_loop: true
http:
  addr: ":8080"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != "127.0.0.1:9000" {
		t.Fatalf("expected env override, got %q", cfg.HTTP.Addr)
	}
	if cfg.ContentDir != "/srv/folio/content" {
		t.Fatalf("expected expanded content dir, got %q", cfg.ContentDir)
	}
	if cfg.Site.Name != "Ada" || len(cfg.Site.Links) != 1 || cfg.Site.Links[0].Href != "https://github.com/ada" {
		t.Fatalf("unexpected site: %+v", cfg.Site)
	}
	if !cfg.Service.AutoLoop {
		t.Fatalf("expected auto_loop from file")
	}
	if cfg.SSH.Addr != ":27422" {
		t.Fatalf("expected default ssh addr, got %q", cfg.SSH.Addr)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def, err := DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if cfg.HTTP.Addr != def.HTTP.Addr || cfg.Site.Name != def.Site.Name || cfg.SSH.HostKeyPath != def.SSH.HostKeyPath {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestWrittenDefaultLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if _, err := WriteDefault(path, false); err != nil {
		t.Fatalf("write default: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Site.Experience) != len(DefaultSite().Experience) {
		t.Fatalf("expected experience to round trip, got %d entries", len(cfg.Site.Experience))
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOO", "bar")
	value := expandEnv("$FOO/$UID/$GID/$MISSING")
	if !strings.HasPrefix(value, "bar/") {
		t.Fatalf("expected env expansion, got %q", value)
	}
	if strings.Contains(value, "$UID") || strings.Contains(value, "$GID") {
		t.Fatalf("expected UID/GID expansion, got %q", value)
	}
	if !strings.HasSuffix(value, "/$MISSING") {
		t.Fatalf("expected missing vars to remain, got %q", value)
	}
}

func TestWriteDefaultRespectsOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("expected path %q, got %q", path, written)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config to exist: %v", err)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if _, err := WriteDefault(path, true); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
