package demos

import (
	"fmt"
	"strings"
	"time"

	"pkt.systems/folio/playback"
)

type timetableSlot struct {
	day, start, length int
}

type timetableCourse struct {
	code  string
	slots []timetableSlot
}

var (
	timetableDays  = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	timetableHours = []string{"8am", "9am", "10am", "11am", "12pm", "1pm", "2pm"}

	// default, late start, compact, Friday off
	timetableLayouts = [][]timetableCourse{
		{
			{"CSC108", []timetableSlot{{0, 0, 2}, {2, 0, 2}}},
			{"MAT137", []timetableSlot{{1, 0, 2}, {3, 0, 2}}},
			{"STA130", []timetableSlot{{0, 4, 1}, {2, 4, 1}}},
			{"ECO101", []timetableSlot{{1, 4, 1}, {3, 4, 1}, {4, 1, 1}}},
		},
		{
			{"CSC108", []timetableSlot{{0, 2, 2}, {2, 2, 2}}},
			{"MAT137", []timetableSlot{{1, 2, 2}, {3, 2, 2}}},
			{"STA130", []timetableSlot{{0, 6, 1}, {2, 6, 1}}},
			{"ECO101", []timetableSlot{{1, 6, 1}, {3, 6, 1}, {4, 3, 1}}},
		},
		{
			{"CSC108", []timetableSlot{{0, 2, 2}, {2, 2, 2}}},
			{"MAT137", []timetableSlot{{1, 2, 2}, {3, 2, 2}}},
			{"STA130", []timetableSlot{{0, 4, 1}, {2, 4, 1}}},
			{"ECO101", []timetableSlot{{1, 4, 1}, {3, 4, 1}, {4, 2, 1}}},
		},
		{
			{"CSC108", []timetableSlot{{0, 2, 2}, {2, 2, 2}}},
			{"MAT137", []timetableSlot{{1, 2, 2}, {3, 2, 2}}},
			{"STA130", []timetableSlot{{0, 4, 1}, {2, 4, 1}}},
			{"ECO101", []timetableSlot{{1, 4, 1}, {3, 4, 1}, {0, 5, 1}}},
		},
	}

	timetableChips = []string{"🌙 Late Start", "⚡ Short Gaps", "🏖 Fri Off"}
	timetableStats = []string{"No gaps", "10am start", "Fri free"}
)

// renderTimetable draws a layout as a fixed-width grid.
func renderTimetable(courses []timetableCourse) string {
	cells := make([][]string, len(timetableHours))
	for i := range cells {
		cells[i] = make([]string, len(timetableDays))
	}
	for _, c := range courses {
		for _, s := range c.slots {
			for h := s.start; h < s.start+s.length && h < len(timetableHours); h++ {
				cells[h][s.day] = c.code
			}
		}
	}
	var b strings.Builder
	b.WriteString("     ")
	for _, d := range timetableDays {
		fmt.Fprintf(&b, " %-6s", d)
	}
	for h, hour := range timetableHours {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%5s", hour)
		for _, code := range cells[h] {
			if code == "" {
				code = "  ·"
			}
			fmt.Fprintf(&b, " %-6s", code)
		}
	}
	return b.String()
}

func timetableDemo() Demo {
	grids := make([]string, 0, len(timetableLayouts))
	for _, layout := range timetableLayouts {
		grids = append(grids, renderTimetable(layout))
	}
	prefStep := func(phase playback.Phase, chip int) playback.Step {
		return playback.Step{
			Phase: phase,
			Actions: []playback.Action{
				playback.Set("chips", chip),
				playback.Wait(1100 * time.Millisecond),
				playback.Set("layout", chip+1),
			},
			Hold: 1100 * time.Millisecond,
		}
	}
	return Demo{
		ID:      "timetable",
		Title:   "uoft-timetable",
		Project: "uoft-timetable",
		Script: playback.Script{
			Steps: []playback.Step{
				{
					Phase: "grid",
					Delay: 200 * time.Millisecond,
					Actions: []playback.Action{
						playback.Wait(400 * time.Millisecond),
						playback.Set("layout", 1),
					},
					Hold: 1200 * time.Millisecond,
				},
				prefStep("pref0", 1),
				prefStep("pref1", 2),
				prefStep("pref2", 3),
				{
					Phase:   "done",
					Actions: []playback.Action{playback.Count("stats", len(timetableStats), 300*time.Millisecond)},
				},
				{Phase: "complete", Hold: 3500 * time.Millisecond},
			},
			Flags: []playback.Flag{
				{Name: "grid", From: "grid"},
			},
		},
		Views: []View{
			{Kind: ViewFrames, Key: "layout", Items: grids, When: "grid"},
			{Kind: ViewList, Label: "preferences", Key: "chips", Items: timetableChips, Color: "accent"},
			{Kind: ViewList, Key: "stats", Items: timetableStats, Color: "muted"},
		},
	}
}
