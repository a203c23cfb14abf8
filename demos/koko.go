package demos

import (
	"time"

	"pkt.systems/folio/playback"
)

type kokoRound struct {
	voice    string
	result   string
	subtitle string
}

var kokoRounds = []kokoRound{
	{voice: "Send a message to Margaret", result: "💬 Opening Messages", subtitle: "→ Margaret"},
	{voice: "Find a fishing club nearby", result: "🎣 Found: Lakeview Fishing Club", subtitle: "3 members · 0.5 km away"},
	{voice: "Read my new messages", result: "📨 2 new messages", subtitle: "Playing audio..."},
}

const kokoIntro = "Seniors are lonely.\nThe internet wasn't built for them."

const (
	kokoWaveOn  = "▁▃▅▇▅▃▁"
	kokoWaveOff = "▁▁▁▁▁▁▁"
)

var kokoApps = []string{"📱 💬 📧 📞 🗓 📷 🎵 🗺", "🛒 💳 📰 🎥 ☁️ 🔔 ⚙️ 📋", "🏥 💊 🚕 🍽 📺 🎮 💡 🔍"}

var kokoStages = []string{"· · · apps converging · · ·", "K O K O", "📞"}

// kokoListening plays every voice round but the last result. Each round
// types the request, stops the waveform and pins the round's result.
func kokoListening() []playback.Action {
	var actions []playback.Action
	for i, r := range kokoRounds {
		actions = append(actions,
			playback.Show("voice", ""),
			playback.Show("wave", kokoWaveOn),
			playback.Wait(300*time.Millisecond),
			playback.Reveal("voice", r.voice, playback.UnitRune, 35*time.Millisecond),
			playback.Wait(300*time.Millisecond),
			playback.Show("wave", kokoWaveOff),
			playback.Wait(400*time.Millisecond),
		)
		if i == len(kokoRounds)-1 {
			break
		}
		actions = append(actions,
			playback.Set("results", i+1),
			playback.Wait(1400*time.Millisecond),
		)
	}
	return actions
}

func kokoResults() []string {
	out := make([]string, 0, len(kokoRounds))
	for _, r := range kokoRounds {
		out = append(out, r.result+" · "+r.subtitle)
	}
	return out
}

func kokoDemo() Demo {
	return Demo{
		ID:    "koko",
		Title: "koko voice assistant",
		Script: playback.Script{
			Steps: []playback.Step{
				{
					Phase:   "intro",
					Delay:   200 * time.Millisecond,
					Actions: []playback.Action{playback.Set("apps", len(kokoApps))},
					Hold:    1200 * time.Millisecond,
				},
				{Phase: "introText", Hold: 2 * time.Second},
				{
					Phase: "converge",
					Actions: []playback.Action{
						playback.Wait(300 * time.Millisecond),
						playback.Set("stage", 1),
						playback.Wait(800 * time.Millisecond),
						playback.Set("stage", 2),
						playback.Wait(1000 * time.Millisecond),
						playback.Set("stage", 3),
					},
					Hold: 800 * time.Millisecond,
				},
				{Phase: "listening", Actions: kokoListening()},
				{
					Phase:   "result",
					Actions: []playback.Action{playback.Set("results", len(kokoRounds))},
					Hold:    1400 * time.Millisecond,
				},
				{Phase: "complete", Hold: 3500 * time.Millisecond},
			},
			Flags: []playback.Flag{
				{Name: "scattered", From: "intro", Until: "converge"},
				{Name: "converging", From: "converge", Until: "listening"},
				{Name: "introText", From: "introText", Until: "converge"},
				{Name: "phone", From: "listening"},
			},
		},
		Views: []View{
			{Kind: ViewList, Key: "apps", Items: kokoApps, When: "scattered", Color: "muted"},
			{Kind: ViewFrames, Key: "stage", Items: kokoStages, When: "converging", Color: "accent"},
			{Kind: ViewBadge, Label: kokoIntro, When: "introText", Color: "accent"},
			{Kind: ViewStatus, Phases: map[playback.Phase]string{
				"listening": "🎙 listening",
				"result":    "✓ done",
				"complete":  "✓ done",
			}, Color: "muted"},
			{Kind: ViewText, Key: "wave", When: "phone", Color: "accent"},
			{Kind: ViewText, Label: "🎙 ", Key: "voice", When: "phone"},
			{Kind: ViewList, Key: "results", Items: kokoResults()},
		},
	}
}
