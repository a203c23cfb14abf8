package appconfig

import (
	"testing"

	"pkt.systems/folio/schema"
)

func TestDefaultConfigServiceDefaults(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	svc := cfg.ServiceConfig()
	if svc.VisibilityThreshold != schema.DefaultVisibilityThreshold {
		t.Fatalf("unexpected threshold %v", svc.VisibilityThreshold)
	}
	if svc.AutoLoop {
		t.Fatalf("expected auto loop to default false")
	}
	if svc.DefaultTheme != schema.DefaultTheme {
		t.Fatalf("unexpected theme %q", svc.DefaultTheme)
	}
}

func TestSiteProfileCopiesLinks(t *testing.T) {
	site := DefaultSite()
	p := site.Profile()
	if p.Name != site.Name || len(p.Links) != len(site.Links) || len(p.Experience) != len(site.Experience) {
		t.Fatalf("unexpected profile: %+v", p)
	}
	p.About[0] = "changed"
	if site.About[0] == "changed" {
		t.Fatalf("expected profile to own its about slice")
	}
}
