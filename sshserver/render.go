package sshserver

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// renderTabBar draws the tab labels on one row. When the labels do not fit,
// the bar scrolls so the active tab stays visible and "<" or ">" marks the
// hidden side. It returns the row and the new window start.
func renderTabBar(labels []string, active int, width int, theme tuiTheme, windowStart int) (string, int) {
	if width <= 0 {
		width = 80
	}
	barStyle := ansiBgRGB(theme.TabBarBG) + ansiFgRGB(theme.TabInactiveFG)
	activeStyle := ansiBgRGB(theme.TabActiveBG) + ansiFgRGB(theme.TabActiveFG) + ansiBold
	indicatorStyle := barStyle + ansiBold

	padded := make([]string, len(labels))
	widths := make([]int, len(labels))
	total := 0
	for i, label := range labels {
		padded[i] = " " + truncateName(label, 12) + " "
		widths[i] = runewidth.StringWidth(padded[i])
		total += widths[i]
	}
	if active < 0 || active >= len(labels) {
		active = 0
	}

	window := tabWindow{start: 0, end: len(labels)}
	if total > width {
		window = tabWindowFromStart(widths, windowStart, width)
		if active < window.start {
			window = tabWindowFromStart(widths, active, width)
		} else if active >= window.end {
			window = tabWindowEndingAt(widths, active+1, width)
		}
	}

	var b strings.Builder
	b.WriteString(barStyle)
	if window.leftHidden {
		b.WriteString(indicatorStyle + "<" + barStyle)
	}
	for i := window.start; i < window.end; i++ {
		if i == active {
			b.WriteString(activeStyle + padded[i] + ansiReset + barStyle)
			continue
		}
		b.WriteString(padded[i])
	}
	line := b.String()
	limit := width
	if window.rightHidden {
		limit--
	}
	line = padANSI(trimANSIToWidth(line, limit), limit)
	if window.rightHidden {
		line += indicatorStyle + ">"
	}
	return line + ansiReset, window.start
}

type tabWindow struct {
	start       int
	end         int
	leftHidden  bool
	rightHidden bool
}

func tabWindowFromStart(widths []int, start int, width int) tabWindow {
	n := len(widths)
	if n == 0 {
		return tabWindow{}
	}
	start = max(0, min(start, n-1))
	w := tabWindow{start: start, leftHidden: start > 0}
	// Settling the indicators can shrink the room, so refit a few times.
	for range 3 {
		w.end = fitForward(widths, start, indicatorRoom(width, w))
		w.rightHidden = w.end < n
	}
	return w
}

func tabWindowEndingAt(widths []int, end int, width int) tabWindow {
	n := len(widths)
	if n == 0 {
		return tabWindow{}
	}
	end = max(1, min(end, n))
	w := tabWindow{end: end, rightHidden: end < n}
	for range 3 {
		w.start = fitBackward(widths, end, indicatorRoom(width, w))
		w.leftHidden = w.start > 0
	}
	return w
}

func indicatorRoom(width int, w tabWindow) int {
	if w.leftHidden {
		width--
	}
	if w.rightHidden {
		width--
	}
	return max(width, 1)
}

func fitForward(widths []int, start int, avail int) int {
	sum := 0
	end := start
	for i := start; i < len(widths); i++ {
		if sum+widths[i] > avail {
			break
		}
		sum += widths[i]
		end = i + 1
	}
	if end == start {
		end = start + 1
	}
	return end
}

func fitBackward(widths []int, end int, avail int) int {
	sum := 0
	start := end
	for i := end - 1; i >= 0; i-- {
		if sum+widths[i] > avail {
			break
		}
		sum += widths[i]
		start = i
	}
	if start == end {
		start = end - 1
	}
	return start
}

// styled pieces of a page. A page is plain data until the terminal draws it
// at the current width and theme.
type lineStyle int

const (
	stylePlain lineStyle = iota
	styleHeading
	styleAccent
	styleMuted
	styleLink
	styleSelected
	styleError
	// styleRaw lines carry their own escapes and are only clipped.
	styleRaw
)

type pageLine struct {
	text  string
	style lineStyle
}

// layoutLines wraps and styles page lines at width.
func layoutLines(lines []pageLine, width int, theme tuiTheme) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.style == styleRaw {
			out = append(out, trimANSIToWidth(line.text, width))
			continue
		}
		text := sanitizeLine(line.text)
		prefix := stylePrefix(line.style, theme)
		wrapped := wrapPlain(text, width)
		for _, w := range wrapped {
			if line.style == styleSelected {
				w = padANSI(w, width)
			}
			if prefix == "" {
				out = append(out, w)
				continue
			}
			out = append(out, prefix+w+ansiReset)
		}
	}
	return out
}

func stylePrefix(style lineStyle, theme tuiTheme) string {
	switch style {
	case styleHeading:
		return ansiBold + ansiFgRGB(theme.HeadingFG)
	case styleAccent:
		return ansiFgRGB(theme.AccentFG)
	case styleMuted:
		return ansiDim + ansiFgRGB(theme.MutedFG)
	case styleLink:
		return ansiItalic + ansiFgRGB(theme.LinkFG)
	case styleSelected:
		return ansiBgRGB(theme.SelectedBG) + ansiFgRGB(theme.SelectedFG) + ansiBold
	case styleError:
		return ansiBold + ansiFgRGB(theme.ErrorFG)
	default:
		return ""
	}
}

// wrapPlain word-wraps text at width and hard-wraps words that are longer
// than a row.
func wrapPlain(text string, width int) []string {
	if width <= 0 {
		return []string{""}
	}
	if text == "" {
		return []string{""}
	}
	wrapped := wrap.String(wordwrap.String(text, width), width)
	return strings.Split(wrapped, "\n")
}

// sanitizeLine drops escapes and control characters from content text.
func sanitizeLine(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(text); {
		ch := text[i]
		if ch == 0x1b {
			i = skipEscape(text, i+1)
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == utf8.RuneError && size == 1:
		case r == '\t':
			b.WriteString("    ")
		case r < 0x20 || r == 0x7f:
		default:
			b.WriteRune(r)
		}
		i += size
	}
	return b.String()
}

func skipEscape(text string, i int) int {
	if i >= len(text) {
		return i
	}
	switch text[i] {
	case '[':
		return skipCSI(text, i+1)
	case ']':
		return skipOSC(text, i+1)
	default:
		return i + 1
	}
}

func skipCSI(text string, i int) int {
	for i < len(text) {
		b := text[i]
		if b >= 0x40 && b <= 0x7e {
			return i + 1
		}
		i++
	}
	return i
}

func skipOSC(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case 0x07:
			return i + 1
		case 0x1b:
			if i+1 < len(text) && text[i+1] == '\\' {
				return i + 2
			}
		}
		i++
	}
	return i
}

// visibleWidth is the cell width of text with escapes removed.
func visibleWidth(text string) int {
	width := 0
	for i := 0; i < len(text); {
		if text[i] == 0x1b {
			i = skipEscape(text, i+1)
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if size == 0 {
			break
		}
		i += size
		width += runewidth.RuneWidth(r)
	}
	return width
}

// trimANSIToWidth clips text to width cells, keeping every escape so styles
// still reset correctly.
func trimANSIToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	visible := 0
	for i := 0; i < len(text); {
		if text[i] == 0x1b {
			start := i
			i = skipEscape(text, i+1)
			b.WriteString(text[start:i])
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if size == 0 {
			break
		}
		rw := runewidth.RuneWidth(r)
		if visible+rw > width {
			i += size
			continue
		}
		b.WriteRune(r)
		i += size
		visible += rw
	}
	return b.String()
}

func padANSI(text string, width int) string {
	if pad := width - visibleWidth(text); pad > 0 {
		return text + strings.Repeat(" ", pad)
	}
	return text
}

func truncateName(name string, limit int) string {
	if limit <= 0 || runewidth.StringWidth(name) <= limit {
		return name
	}
	return runewidth.Truncate(name, limit, "…")
}
