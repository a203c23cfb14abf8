package demos

import (
	"time"

	"pkt.systems/folio/playback"
)

var boosterMessages = []string{
	"you: Explain how neural networks learn through backpropagation",
	"gpt: Neural networks learn by propagating errors backward through the network. ∂L/∂w = ∂L/∂a · ∂a/∂z · ∂z/∂w, then w ← w − α · ∂L/∂w, repeated until the loss converges.",
	"you: Can you show a concrete example?",
	"gpt: Sure! Consider a simple 2-layer network with sigmoid activation and MSE loss...",
	"you: Thanks! What about activation functions?",
}

// boosterCollapsed replaces the head of the thread once long answers fold.
var boosterCollapsed = []string{
	"you: Explain how neural networks learn through backpropagation",
	"gpt: Neural networks learn by propagating errors… [expand]",
}

const boosterHidden = 3

const boosterTools = "◉ floating ball  👁 ✨ 📋 🔤 📸"

func chatGPTBoosterDemo() Demo {
	return Demo{
		ID:    "chatgptbooster",
		Title: "chatgpt-booster",
		Script: playback.Script{
			Steps: []playback.Step{
				{
					Phase:   "cluttered",
					Delay:   200 * time.Millisecond,
					Actions: []playback.Action{playback.Count("messages", len(boosterMessages), 300*time.Millisecond)},
					Hold:    1100 * time.Millisecond,
				},
				{
					Phase:   "collapse",
					Actions: []playback.Action{playback.Set("collapsed", 2)},
					Hold:    1200 * time.Millisecond,
				},
				{
					Phase:   "autoHide",
					Actions: []playback.Action{playback.Set("kept", len(boosterMessages)-boosterHidden)},
					Hold:    1200 * time.Millisecond,
				},
				{
					Phase: "floatingBall",
					Actions: []playback.Action{
						playback.Show("ball", "◉"),
						playback.Wait(500 * time.Millisecond),
						playback.Show("ball", boosterTools),
					},
					Hold: 2500 * time.Millisecond,
				},
				{Phase: "complete", Hold: 3 * time.Second},
			},
			Flags: []playback.Flag{
				{Name: "cluttered", From: "cluttered", Until: "autoHide"},
				{Name: "tidy", From: "autoHide"},
			},
		},
		Views: []View{
			{Kind: ViewList, Key: "messages", Items: boosterMessages, AltKey: "collapsed", Alt: boosterCollapsed, When: "cluttered"},
			{Kind: ViewBadge, Label: "⋯ 3 earlier messages hidden", When: "tidy", Color: "muted"},
			{Kind: ViewList, Key: "kept", Items: boosterMessages[boosterHidden:], When: "tidy"},
			{Kind: ViewText, Key: "ball", Align: AlignRight, Color: "accent"},
		},
	}
}
