package integration_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"pkt.systems/folio/core"
	"pkt.systems/folio/httpapi"
	"pkt.systems/folio/internal/eventbus"
	"pkt.systems/folio/schema"
)

// requireLong skips unless FOLIO_LONG_TESTS is set.
func requireLong(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if strings.TrimSpace(os.Getenv("FOLIO_LONG_TESTS")) == "" {
		t.Skip("set FOLIO_LONG_TESTS=1 to run integration tests")
	}
}

type sinks []core.EventSink

func (s sinks) OnDemoFrame(event schema.DemoFrameEvent) {
	for _, sink := range s {
		sink.OnDemoFrame(event)
	}
}

func (s sinks) OnDemoLifecycle(event schema.DemoLifecycleEvent) {
	for _, sink := range s {
		sink.OnDemoLifecycle(event)
	}
}

func (s sinks) OnContentEvent(event schema.ContentEvent) {
	for _, sink := range s {
		sink.OnContentEvent(event)
	}
}

type testStack struct {
	service core.Service
	hub     *httpapi.Hub
	bus     *eventbus.Bus
	httpSrv *httpapi.Server
}

// newTestStack runs the starter content on the system clock.
func newTestStack(t *testing.T) *testStack {
	t.Helper()
	hub := httpapi.NewHub(64, 0)
	bus := eventbus.New(nil)
	service, err := core.NewService(schema.ServiceConfig{}, core.ServiceDeps{
		Profile: schema.Profile{
			Name:  "Integration Person",
			Role:  "Tester",
			Links: []schema.Link{{Label: "GitHub", Href: "https://github.com/example"}},
		},
		EventSink: sinks{hub, bus},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	t.Cleanup(func() { _ = service.Close() })
	return &testStack{
		service: service,
		hub:     hub,
		bus:     bus,
		httpSrv: httpapi.NewServer(httpapi.Config{DisableAccessLog: true}, service, hub),
	}
}

// projectWithDemo finds a starter project that embeds a demo.
func (ts *testStack) projectWithDemo(t *testing.T) (schema.Slug, schema.DemoInfo) {
	t.Helper()
	ctx := context.Background()
	list, err := ts.service.ListProjects(ctx, schema.ListProjectsRequest{})
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	for _, p := range list.Projects {
		detail, err := ts.service.GetProject(ctx, schema.GetProjectRequest{Slug: p.Slug})
		if err == nil && detail.Demo != nil {
			return p.Slug, *detail.Demo
		}
	}
	t.Fatalf("no starter project has a demo")
	return "", schema.DemoInfo{}
}

func waitFor(timeout time.Duration, what string, check func() (bool, string)) error {
	deadline := time.Now().Add(timeout)
	var last string
	for time.Now().Before(deadline) {
		ok, state := check()
		last = state
		if ok {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for %s (last=%q)", what, last)
}
