package sshserver

import (
	"io"
	"strings"
)

// screen paints whole frames to the alternate screen. The portfolio takes no
// text input, so the cursor stays hidden while the session runs.
type screen struct {
	out io.Writer
}

func newScreen(out io.Writer) *screen {
	return &screen{out: out}
}

func (s *screen) Enter() {
	_, _ = io.WriteString(s.out, "\x1b[?1049h\x1b[?25l\x1b[H\x1b[2J")
}

func (s *screen) Exit() {
	_, _ = io.WriteString(s.out, "\x1b[0m\x1b[?25h\x1b[?1049l")
}

// Render redraws every row, clearing each to the end of line instead of
// wiping the whole screen, which avoids flicker on fast demo frames.
func (s *screen) Render(lines []string) error {
	var b strings.Builder
	b.WriteString("\x1b[H")
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(line)
		b.WriteString(ansiReset + "\x1b[K")
	}
	b.WriteString("\x1b[J")
	_, err := io.WriteString(s.out, b.String())
	return err
}
