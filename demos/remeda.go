package demos

import (
	"time"

	"pkt.systems/folio/playback"
)

var (
	remedaPII = []string{
		"Name      Sarah Chen",
		"DOB       1987-03-14",
		"OHIP#     2948-716-385",
	}
	remedaRedacted = []string{
		"Name      ██████████",
		"DOB       ████-██-██",
		"OHIP#     ████-███-███",
	}
	remedaSafe = []string{
		"Symptoms  Chest pain, shortness of breath",
		"Duration  3 days, worsening",
		"History   Hypertension, family cardiac hx",
	}
	remedaAudit = []string{
		"14:32:01  🔒 PII de-identified",
		"14:32:02  🤖 AI query submitted",
		"14:32:04  📋 Recommendation generated",
		"14:32:09  ✓ Physician approved",
	}
)

const remedaDiagnosis = "Angina Pectoris · 92% confidence (alt: Costochondritis 61%)"

func remedaDemo() Demo {
	return Demo{
		ID:      "remeda",
		Title:   "remeda, clinical copilot",
		Project: "remeda",
		Script: playback.Script{
			Steps: []playback.Step{
				{
					Phase: "record",
					Delay: 200 * time.Millisecond,
					Actions: []playback.Action{
						playback.Wait(300 * time.Millisecond),
						playback.Count("pii", len(remedaPII), 250*time.Millisecond),
						playback.Count("safe", len(remedaSafe), 250*time.Millisecond),
					},
					Hold: 600 * time.Millisecond,
				},
				{
					Phase:   "deidentify",
					Actions: []playback.Action{playback.Count("redacted", len(remedaPII), 400*time.Millisecond)},
					Hold:    300 * time.Millisecond,
				},
				{Phase: "deidentified", Actions: []playback.Action{playback.Set("audit", 1)}, Hold: 800 * time.Millisecond},
				{Phase: "aiProcess", Actions: []playback.Action{playback.Set("audit", 2)}, Hold: 1200 * time.Millisecond},
				{Phase: "recommendation", Actions: []playback.Action{playback.Set("audit", 3)}, Hold: time.Second},
				{Phase: "approve", Actions: []playback.Action{playback.Set("audit", 4)}, Hold: 600 * time.Millisecond},
				{Phase: "complete", Hold: 3500 * time.Millisecond},
			},
			Flags: []playback.Flag{
				{Name: "record", From: "record"},
				{Name: "deidentified", From: "deidentified"},
				{Name: "thinking", From: "aiProcess", Until: "recommendation"},
				{Name: "recommended", From: "recommendation"},
			},
		},
		Views: []View{
			{Kind: ViewBadge, Label: "patient record", When: "record", Color: "muted"},
			{Kind: ViewList, Key: "pii", Items: remedaPII, Alt: remedaRedacted, AltKey: "redacted"},
			{Kind: ViewList, Key: "safe", Items: remedaSafe},
			{Kind: ViewBadge, Label: "🔒 de-identified", When: "deidentified", Color: "accent"},
			{Kind: ViewBadge, Label: "AI analyzing...", When: "thinking", Color: "muted"},
			{Kind: ViewBadge, Label: remedaDiagnosis, When: "recommended"},
			{Kind: ViewStatus, Phases: map[playback.Phase]string{
				"recommendation": "⏳ pending physician review",
				"approve":        "✓ approved",
				"complete":       "✓ approved",
			}, Color: "accent"},
			{Kind: ViewList, Label: "audit", Key: "audit", Items: remedaAudit, Color: "muted"},
		},
	}
}
