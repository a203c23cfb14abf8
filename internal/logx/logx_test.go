package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"pkt.systems/pslog"
)

func newCaptureLogger(capture *logCapture) pslog.Logger {
	return pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
}

func TestWithSlugAddsField(t *testing.T) {
	capture := &logCapture{}
	log := WithSlug(newCaptureLogger(capture), "zen-editor")
	log.Info("hello")

	entry := capture.firstEntry(t)
	if entry["slug"] != "zen-editor" {
		t.Fatalf("expected slug field, got %+v", entry)
	}
}

func TestWithSlugSkipsEmpty(t *testing.T) {
	capture := &logCapture{}
	log := WithSlug(newCaptureLogger(capture), "")
	log.Info("hello")

	entry := capture.firstEntry(t)
	if _, ok := entry["slug"]; ok {
		t.Fatalf("did not expect slug for empty value")
	}
}

func TestWithDemoSessionAddsFields(t *testing.T) {
	capture := &logCapture{}
	ctx := pslog.ContextWithLogger(context.Background(), newCaptureLogger(capture))
	log := WithDemoSession(ctx, "chat", "s1")
	log.Info("hello")

	entry := capture.firstEntry(t)
	if entry["demo"] != "chat" {
		t.Fatalf("expected demo field, got %+v", entry)
	}
	if entry["session"] != "s1" {
		t.Fatalf("expected session field, got %+v", entry)
	}
}

func TestContextMarkersDeduplicate(t *testing.T) {
	capture := &logCapture{}
	ctx := ContextWithSessionLogger(context.Background(), newCaptureLogger(capture).With("demo", "chat").With("session", "s1"), "chat", "s1")
	WithDemoSession(ctx, "chat", "s1").Info("hello")

	line := bytes.TrimSpace(capture.buf.Bytes())
	if n := bytes.Count(line, []byte(`"session"`)); n != 1 {
		t.Fatalf("expected one session field, got %d in %s", n, line)
	}
}

type logCapture struct {
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *logCapture) firstEntry(t *testing.T) map[string]any {
	t.Helper()
	data := c.buf.Bytes()
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		idx = len(data)
	}
	line := bytes.TrimSpace(data[:idx])
	entry := map[string]any{}
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("parse log entry: %v", err)
	}
	return entry
}
