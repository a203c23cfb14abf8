package integration_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
)

func newChromedpContext(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)
	ctx, cancelTimeout := context.WithTimeout(ctx, 30*time.Second)
	return ctx, func() {
		cancelTimeout()
		cancelCtx()
		cancelAlloc()
	}
}

func TestWebUIProjectDemoAnimates(t *testing.T) {
	requireLong(t)
	stack := newTestStack(t)
	slug, _ := stack.projectWithDemo(t)
	server := httptest.NewServer(stack.httpSrv.Handler())
	defer server.Close()

	ctx, cancel := newChromedpContext(t)
	defer cancel()

	var initial string
	if err := chromedp.Run(ctx,
		chromedp.Navigate(server.URL+"/projects/"+string(slug)),
		chromedp.WaitVisible(".demo[data-stream]", chromedp.ByQuery),
		chromedp.ScrollIntoView(".demo[data-stream]", chromedp.ByQuery),
		chromedp.Text(".demo-screen", &initial, chromedp.ByQuery),
	); err != nil {
		t.Fatalf("load project page: %v", err)
	}

	err := waitFor(20*time.Second, "demo frames", func() (bool, string) {
		var screen string
		var complete bool
		if err := chromedp.Run(ctx,
			chromedp.Text(".demo-screen", &screen, chromedp.ByQuery),
			chromedp.Evaluate(`document.querySelector(".demo[data-stream]").classList.contains("complete")`, &complete),
		); err != nil {
			return false, err.Error()
		}
		return complete || screen != initial, screen
	})
	if err != nil {
		t.Fatal(err)
	}
	if stack.hub.Sessions() == 0 {
		t.Fatalf("expected the page to hold a stream session")
	}
}

func TestWebUIThemeToggle(t *testing.T) {
	requireLong(t)
	stack := newTestStack(t)
	server := httptest.NewServer(stack.httpSrv.Handler())
	defer server.Close()

	ctx, cancel := newChromedpContext(t)
	defer cancel()

	var before string
	if err := chromedp.Run(ctx,
		chromedp.Navigate(server.URL+"/"),
		chromedp.WaitVisible("[data-theme-toggle]", chromedp.ByQuery),
		chromedp.Evaluate(`document.body.className`, &before),
		chromedp.Click("[data-theme-toggle]", chromedp.ByQuery),
	); err != nil {
		t.Fatalf("toggle theme: %v", err)
	}
	if !strings.Contains(before, "theme-") {
		t.Fatalf("expected a theme class on body, got %q", before)
	}

	var after string
	err := waitFor(5*time.Second, "theme change", func() (bool, string) {
		if err := chromedp.Run(ctx, chromedp.Evaluate(`document.body.className`, &after)); err != nil {
			return false, err.Error()
		}
		return after != before, after
	})
	if err != nil {
		t.Fatal(err)
	}

	var label string
	if err := chromedp.Run(ctx, chromedp.Text("[data-theme-toggle]", &label, chromedp.ByQuery)); err != nil {
		t.Fatalf("read toggle: %v", err)
	}
	if !strings.Contains(after, "theme-"+strings.TrimSpace(label)) {
		t.Fatalf("expected body class %q to match toggle label %q", after, label)
	}
}
