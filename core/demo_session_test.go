package core

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"pkt.systems/folio/schema"
)

func mountChat(t *testing.T, svc Service) schema.SessionID {
	t.Helper()
	loop := false
	resp, err := svc.MountDemo(context.Background(), schema.MountDemoRequest{DemoID: "chat", Loop: &loop})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if resp.Frame.Phase != "idle" {
		t.Fatalf("expected idle frame on mount, got %q", resp.Frame.Phase)
	}
	return resp.SessionID
}

func TestDemoStartsOnlyInView(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc := newTestService(t, schema.ServiceConfig{}, nil)
		ctx := context.Background()
		id := mountChat(t, svc)

		resp, err := svc.UpdateVisibility(ctx, schema.UpdateVisibilityRequest{SessionID: id, Ratio: 0.3})
		if err != nil {
			t.Fatalf("visibility: %v", err)
		}
		if resp.InView || resp.Triggered {
			t.Fatalf("did not expect a start below threshold, got %+v", resp)
		}
		time.Sleep(time.Second)
		synctest.Wait()
		snap, err := svc.DemoSnapshot(ctx, schema.DemoSnapshotRequest{SessionID: id})
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		if snap.Frame.Phase != "idle" {
			t.Fatalf("expected idle while out of view, got %q", snap.Frame.Phase)
		}

		resp, err = svc.UpdateVisibility(ctx, schema.UpdateVisibilityRequest{SessionID: id, Ratio: 0.8})
		if err != nil {
			t.Fatalf("visibility: %v", err)
		}
		if !resp.InView || !resp.Triggered {
			t.Fatalf("expected start in view, got %+v", resp)
		}
		resp, _ = svc.UpdateVisibility(ctx, schema.UpdateVisibilityRequest{SessionID: id, Ratio: 0.9})
		if resp.Triggered {
			t.Fatal("did not expect a second start")
		}
		synctest.Wait()
		snap, _ = svc.DemoSnapshot(ctx, schema.DemoSnapshotRequest{SessionID: id})
		if snap.Frame.Phase == "idle" || snap.Frame.Run != 1 {
			t.Fatalf("expected first run to be playing, got %+v", snap.Frame)
		}
		if _, err := svc.UnmountDemo(ctx, schema.UnmountDemoRequest{SessionID: id}); err != nil {
			t.Fatalf("unmount: %v", err)
		}
	})
}

func TestHoverReplaysOnlyAfterCompletion(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sink := &recordingSink{}
		svc := newTestService(t, schema.ServiceConfig{}, sink)
		ctx := context.Background()
		id := mountChat(t, svc)
		if _, err := svc.UpdateVisibility(ctx, schema.UpdateVisibilityRequest{SessionID: id, Ratio: 1}); err != nil {
			t.Fatalf("visibility: %v", err)
		}

		hover, err := svc.HoverDemo(ctx, schema.HoverDemoRequest{SessionID: id})
		if err != nil {
			t.Fatalf("hover: %v", err)
		}
		if hover.Triggered || hover.Token != 0 {
			t.Fatalf("did not expect hover replay mid-run, got %+v", hover)
		}

		time.Sleep(time.Minute)
		synctest.Wait()
		if got := sink.completedFrames(); got != 1 {
			t.Fatalf("expected one completed frame, got %d", got)
		}

		hover, err = svc.HoverDemo(ctx, schema.HoverDemoRequest{SessionID: id})
		if err != nil {
			t.Fatalf("hover: %v", err)
		}
		if !hover.Triggered || hover.Token != 1 {
			t.Fatalf("expected hover replay after completion, got %+v", hover)
		}
		hover, _ = svc.HoverDemo(ctx, schema.HoverDemoRequest{SessionID: id})
		if hover.Triggered || hover.Token != 1 {
			t.Fatalf("expected hover to wait for the next completion, got %+v", hover)
		}

		time.Sleep(time.Minute)
		synctest.Wait()
		snap, _ := svc.DemoSnapshot(ctx, schema.DemoSnapshotRequest{SessionID: id})
		if snap.Frame.Run != 2 {
			t.Fatalf("expected the replay to be run 2, got %d", snap.Frame.Run)
		}
		if got := sink.completedFrames(); got != 2 {
			t.Fatalf("expected two completed frames, got %d", got)
		}
	})
}

func TestReplayTokenBeforeStartIsIgnored(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc := newTestService(t, schema.ServiceConfig{}, nil)
		ctx := context.Background()
		id := mountChat(t, svc)

		resp, err := svc.SetReplayToken(ctx, schema.SetReplayTokenRequest{SessionID: id, Token: 3})
		if err != nil {
			t.Fatalf("set token: %v", err)
		}
		if resp.Triggered {
			t.Fatal("did not expect a replay before first view")
		}
		vis, _ := svc.UpdateVisibility(ctx, schema.UpdateVisibilityRequest{SessionID: id, Ratio: 1})
		if !vis.Triggered {
			t.Fatal("expected first view to start")
		}
		synctest.Wait()
		resp, _ = svc.SetReplayToken(ctx, schema.SetReplayTokenRequest{SessionID: id, Token: 3})
		if resp.Triggered {
			t.Fatal("did not expect the consumed token to replay")
		}
		resp, _ = svc.SetReplayToken(ctx, schema.SetReplayTokenRequest{SessionID: id, Token: 4})
		if !resp.Triggered {
			t.Fatal("expected a new token to replay")
		}
	})
}

func TestMountLimitAndLifecycle(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sink := &recordingSink{}
		svc := newTestService(t, schema.ServiceConfig{MaxSessions: 2}, sink)
		ctx := context.Background()
		first := mountChat(t, svc)
		mountChat(t, svc)
		if _, err := svc.MountDemo(ctx, schema.MountDemoRequest{DemoID: "chat"}); !errors.Is(err, schema.ErrTooManySessions) {
			t.Fatalf("expected ErrTooManySessions, got %v", err)
		}
		if _, err := svc.UnmountDemo(ctx, schema.UnmountDemoRequest{SessionID: first}); err != nil {
			t.Fatalf("unmount: %v", err)
		}
		if _, err := svc.UnmountDemo(ctx, schema.UnmountDemoRequest{SessionID: first}); !errors.Is(err, schema.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
		mountChat(t, svc)
		if _, err := svc.MountDemo(ctx, schema.MountDemoRequest{DemoID: "nope"}); !errors.Is(err, schema.ErrDemoNotFound) {
			t.Fatalf("expected ErrDemoNotFound, got %v", err)
		}
		if err := svc.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}

		sink.mu.Lock()
		defer sink.mu.Unlock()
		var mounted, unmounted int
		for _, ev := range sink.lifecycle {
			switch ev.Type {
			case schema.DemoMounted:
				mounted++
			case schema.DemoUnmounted:
				unmounted++
			}
		}
		if mounted != 3 || unmounted != 3 {
			t.Fatalf("expected 3 mounts and 3 unmounts, got %d/%d", mounted, unmounted)
		}
	})
}

func TestVisibilityRejectsBadRatio(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc := newTestService(t, schema.ServiceConfig{}, nil)
		id := mountChat(t, svc)
		if _, err := svc.UpdateVisibility(context.Background(), schema.UpdateVisibilityRequest{SessionID: id, Ratio: 1.5}); !errors.Is(err, schema.ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest, got %v", err)
		}
		if _, err := svc.UpdateVisibility(context.Background(), schema.UpdateVisibilityRequest{SessionID: "missing", Ratio: 1}); !errors.Is(err, schema.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})
}
