package demos

import (
	"fmt"
	"time"

	"pkt.systems/folio/playback"
)

type forumPost struct {
	subject string
	author  string
	replies int
}

var forumPosts = []forumPost{
	{"Welcome to the Forum", "admin", 12},
	{"CSC207 Study Group", "jchen", 5},
	{"Campus Events This Week", "events_mgr", 8},
}

var forumMessages = []string{
	"Alice: Let's meet up tomorrow to discuss the details.",
	"📍 You shared a location: Columbia Lake Firepit, Waterloo, ON",
	"Bob: ▶ voice message 0:03",
	"Charlie: 这个活动在哪里？",
}

const (
	forumWaveOn         = "▶ ▂▅▇▃▆▂▇▄▅▃▆▂▅▇▃▆"
	forumTranscription  = "🎙 “Sounds good, see you there!”"
	forumTranslation    = "🌐 “Where is this event?”"
	forumClassicHeading = "Academia Imperial · Forums"
	forumModernHeading  = "Campus Forum · Developers Group · 3 online"
)

func forumTable() []string {
	out := make([]string, 0, len(forumPosts))
	for _, p := range forumPosts {
		out = append(out, fmt.Sprintf("%-24s %-10s %2d", p.subject, p.author, p.replies))
	}
	return out
}

func campusForumDemo() Demo {
	return Demo{
		ID:    "campusforum",
		Title: "campus-forum",
		Script: playback.Script{
			Steps: []playback.Step{
				{
					Phase:   "classic",
					Delay:   200 * time.Millisecond,
					Actions: []playback.Action{playback.Set("posts", len(forumPosts))},
					Hold:    1800 * time.Millisecond,
				},
				{Phase: "transform", Hold: 1200 * time.Millisecond},
				{
					Phase: "modern",
					Actions: []playback.Action{
						playback.Set("messages", 1),
						playback.Wait(600 * time.Millisecond),
						playback.Set("messages", 2),
						playback.Wait(700 * time.Millisecond),
						playback.Set("messages", 3),
						playback.Wait(300 * time.Millisecond),
						playback.Show("wave", forumWaveOn),
						playback.Wait(1500 * time.Millisecond),
						playback.Show("wave", ""),
						playback.Wait(300 * time.Millisecond),
						playback.Show("transcription", forumTranscription),
						playback.Wait(800 * time.Millisecond),
						playback.Set("messages", 4),
						playback.Wait(600 * time.Millisecond),
						playback.Show("translation", forumTranslation),
					},
					Hold: 1500 * time.Millisecond,
				},
				{Phase: "complete", Hold: 3 * time.Second},
			},
			Flags: []playback.Flag{
				{Name: "classic", From: "classic", Until: "transform"},
				{Name: "modern", From: "transform"},
			},
		},
		Views: []View{
			{Kind: ViewBadge, Label: forumClassicHeading, When: "classic", Color: "muted"},
			{Kind: ViewList, Key: "posts", Items: forumTable(), When: "classic"},
			{Kind: ViewBadge, Label: forumModernHeading, When: "modern", Color: "accent"},
			{Kind: ViewList, Key: "messages", Items: forumMessages, When: "modern"},
			{Kind: ViewText, Key: "wave", Color: "accent"},
			{Kind: ViewText, Key: "transcription", Color: "muted"},
			{Kind: ViewText, Key: "translation", Color: "muted"},
		},
	}
}
