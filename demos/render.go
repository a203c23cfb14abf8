package demos

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"pkt.systems/folio/playback"
)

// Cursor is appended to text views while their cursor flag holds.
const Cursor = "▌"

// Line is one rendered row of a demo pane.
type Line struct {
	Text string
	// Color is a theme hint: "", "accent" or "muted".
	Color string
}

// Render turns a frame into terminal rows no wider than width.
func Render(d Demo, f playback.Frame, width int) []Line {
	if width <= 0 {
		width = 60
	}
	var out []Line
	for _, v := range d.Views {
		if !v.Visible(f) {
			continue
		}
		for _, text := range renderView(v, f, width) {
			out = append(out, Line{Text: text, Color: v.Color})
		}
	}
	return out
}

// RenderText is Render without color hints.
func RenderText(d Demo, f playback.Frame, width int) []string {
	lines := Render(d, f, width)
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return out
}

func renderView(v View, f playback.Frame, width int) []string {
	switch v.Kind {
	case ViewText:
		text := f.Text(v.Key)
		if v.Cursor != "" && f.Flag(v.Cursor) {
			text += Cursor
		}
		if text == "" {
			return nil
		}
		lines := wrapText(v.Label+text, width)
		if v.Align == AlignRight {
			for i, line := range lines {
				if pad := width - runewidth.StringWidth(line); pad > 0 {
					lines[i] = strings.Repeat(" ", pad) + line
				}
			}
		}
		return lines
	case ViewList:
		n := clamp(f.Counter(v.Key), 0, len(v.Items))
		if n == 0 {
			return nil
		}
		masked := 0
		if v.AltKey != "" {
			masked = clamp(f.Counter(v.AltKey), 0, len(v.Alt))
		}
		var lines []string
		if v.Label != "" {
			lines = append(lines, truncate(v.Label, width))
		}
		for i := 0; i < n; i++ {
			item := v.Items[i]
			if i < masked {
				item = v.Alt[i]
			}
			lines = append(lines, truncate("• "+item, width))
		}
		return lines
	case ViewProgress:
		if v.Max <= 0 {
			return nil
		}
		value := clamp(f.Counter(v.Key), 0, v.Max)
		return []string{progressBar(v.Label, value, v.Max, width)}
	case ViewBadge:
		return wrapText(v.Label, width)
	case ViewStatus:
		label, ok := v.Phases[f.Phase]
		if !ok || label == "" {
			return nil
		}
		return []string{truncate(label, width)}
	case ViewFrames:
		idx := f.Counter(v.Key)
		if idx < 1 || idx > len(v.Items) {
			return nil
		}
		lines := strings.Split(v.Items[idx-1], "\n")
		for i := range lines {
			lines[i] = truncate(lines[i], width)
		}
		return lines
	case ViewWords:
		label := v.Label
		if label == "" {
			label = "words"
		}
		return []string{fmt.Sprintf("%s: %d", label, len(strings.Fields(f.Text(v.Key))))}
	default:
		return nil
	}
}

func progressBar(label string, value, limit, width int) string {
	pct := value * 100 / limit
	prefix := ""
	if label != "" {
		prefix = label + " "
	}
	suffix := fmt.Sprintf(" %3d%%", pct)
	barWidth := width - runewidth.StringWidth(prefix) - len(suffix) - 2
	if barWidth > 30 {
		barWidth = 30
	}
	if barWidth < 4 {
		return truncate(prefix+strings.TrimSpace(suffix), width)
	}
	filled := value * barWidth / limit
	return prefix + "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]" + suffix
}

func wrapText(text string, width int) []string {
	wrapped := wrap.String(wordwrap.String(text, width), width)
	return strings.Split(wrapped, "\n")
}

func truncate(text string, width int) string {
	if runewidth.StringWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, "…")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
