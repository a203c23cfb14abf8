package bootstrap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"pkt.systems/folio/internal/appconfig"
	"pkt.systems/folio/internal/content"
)

type composeService struct {
	Image   string   `yaml:"image"`
	Volumes []string `yaml:"volumes"`
}

type composeSpec struct {
	Services map[string]composeService `yaml:"services"`
}

func TestDefaultFilesTemplatesHome(t *testing.T) {
	files, err := DefaultFiles(Options{ImageTag: "v1.2.3"})
	if err != nil {
		t.Fatalf("DefaultFiles: %v", err)
	}
	svc := readCompose(t, files.ComposeYAML)
	if svc.Image != "docker.io/pktsystems/folio:v1.2.3" {
		t.Fatalf("unexpected image %q", svc.Image)
	}
	assertVolume(t, svc.Volumes, "${HOME}/.folio/content:/folio/content:ro")
	if !strings.Contains(string(files.Containerfile), "/folio/config-for-container.yaml") {
		t.Fatalf("expected containerfile to reference container config:\n%s", files.Containerfile)
	}
	var cfg appconfig.Config
	if err := yaml.Unmarshal(files.ConfigYAML, &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if cfg.ContentDir != "/folio/content" || cfg.SSH.HostKeyPath != "/folio/state/ssh_host_key" {
		t.Fatalf("unexpected container config: %+v", cfg)
	}
}

func TestWriteBootstrapProducesServableSite(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	outputDir := t.TempDir()
	override, err := ParseOverride("site.name=Ada Lovelace")
	if err != nil {
		t.Fatalf("ParseOverride: %v", err)
	}
	paths, err := WriteBootstrap(outputDir, false, Options{ImageTag: "v1.2.3", Overrides: []ConfigOverride{override}})
	if err != nil {
		t.Fatalf("WriteBootstrap: %v", err)
	}

	cfg, err := appconfig.Load(paths.HostConfigPath)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.ContentDir != filepath.Join(outputDir, "content") {
		t.Fatalf("unexpected content dir %q", cfg.ContentDir)
	}
	if cfg.Site.Name != "Ada Lovelace" {
		t.Fatalf("expected override to apply, got %q", cfg.Site.Name)
	}
	if _, err := os.Stat(paths.HostKeyPath); err != nil {
		t.Fatalf("expected host key: %v", err)
	}

	snap, err := content.Load(os.DirFS(paths.ContentDir))
	if err != nil {
		t.Fatalf("load written content: %v", err)
	}
	starter, err := content.Load(content.Starter())
	if err != nil {
		t.Fatalf("load starter: %v", err)
	}
	if len(snap.AllPosts()) != len(starter.AllPosts()) || len(snap.AllProjects()) != len(starter.AllProjects()) {
		t.Fatalf("expected starter content to be copied")
	}

	data, err := os.ReadFile(paths.Bundle.ComposePath)
	if err != nil {
		t.Fatalf("read compose: %v", err)
	}
	svc := readCompose(t, data)
	assertVolume(t, svc.Volumes, filepath.Join(outputDir, "content")+":/folio/content:ro")
	assertVolume(t, svc.Volumes, filepath.Join(outputDir, "state")+":/folio/state")

	if _, err := WriteBootstrap(outputDir, false, Options{}); err == nil {
		t.Fatal("expected error when bootstrap output exists")
	}
	if _, err := WriteBootstrap(outputDir, true, Options{}); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
}

func TestParseOverrideKeepsTypes(t *testing.T) {
	o, err := ParseOverride("service.max_sessions=12")
	if err != nil {
		t.Fatalf("ParseOverride: %v", err)
	}
	if o.Path != "service.max_sessions" || o.Value != 12 {
		t.Fatalf("unexpected override %+v", o)
	}
	if _, err := ParseOverride("nokey"); err == nil {
		t.Fatal("expected error without '='")
	}
	if err := setOverrideValue(map[string]any{"site": "flat"}, "site.name", "x"); err == nil {
		t.Fatal("expected error when overriding through a scalar")
	}
}

func readCompose(t *testing.T, data []byte) composeService {
	t.Helper()
	var spec composeSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		t.Fatalf("unmarshal compose: %v", err)
	}
	svc, ok := spec.Services["folio"]
	if !ok {
		t.Fatalf("missing folio service in:\n%s", data)
	}
	return svc
}

func assertVolume(t *testing.T, volumes []string, expected string) {
	t.Helper()
	for _, v := range volumes {
		if v == expected {
			return
		}
	}
	t.Fatalf("missing volume %q in %v", expected, volumes)
}
