package sshserver

import (
	"strconv"

	"pkt.systems/folio/schema"
)

type rgb struct {
	r int
	g int
	b int
}

type tuiTheme struct {
	Name          schema.ThemeName
	TabBarBG      rgb
	TabActiveBG   rgb
	TabActiveFG   rgb
	TabInactiveFG rgb
	HeadingFG     rgb
	AccentFG      rgb
	MutedFG       rgb
	LinkFG        rgb
	SelectedBG    rgb
	SelectedFG    rgb
	PaneBorderFG  rgb
	ErrorFG       rgb
	// Markdown is the glamour standard style used for post bodies.
	Markdown string
}

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiDim    = "\x1b[2m"
	ansiItalic = "\x1b[3m"
)

var tuiThemes = map[schema.ThemeName]tuiTheme{
	"outrun": {
		Name:          "outrun",
		TabBarBG:      rgb{r: 32, g: 8, b: 56},
		TabActiveBG:   rgb{r: 0, g: 229, b: 255},
		TabActiveFG:   rgb{r: 10, g: 13, b: 23},
		TabInactiveFG: rgb{r: 240, g: 241, b: 255},
		HeadingFG:     rgb{r: 255, g: 91, b: 189},
		AccentFG:      rgb{r: 0, g: 229, b: 255},
		MutedFG:       rgb{r: 154, g: 163, b: 178},
		LinkFG:        rgb{r: 112, g: 214, b: 255},
		SelectedBG:    rgb{r: 60, g: 22, b: 96},
		SelectedFG:    rgb{r: 255, g: 255, b: 255},
		PaneBorderFG:  rgb{r: 110, g: 136, b: 255},
		ErrorFG:       rgb{r: 255, g: 107, b: 107},
		Markdown:      "dracula",
	},
	"gruvbox": {
		Name:          "gruvbox",
		TabBarBG:      rgb{r: 60, g: 56, b: 54},
		TabActiveBG:   rgb{r: 250, g: 189, b: 47},
		TabActiveFG:   rgb{r: 40, g: 40, b: 40},
		TabInactiveFG: rgb{r: 235, g: 219, b: 178},
		HeadingFG:     rgb{r: 214, g: 93, b: 14},
		AccentFG:      rgb{r: 184, g: 187, b: 38},
		MutedFG:       rgb{r: 146, g: 131, b: 116},
		LinkFG:        rgb{r: 250, g: 189, b: 47},
		SelectedBG:    rgb{r: 80, g: 73, b: 69},
		SelectedFG:    rgb{r: 251, g: 241, b: 199},
		PaneBorderFG:  rgb{r: 131, g: 165, b: 152},
		ErrorFG:       rgb{r: 251, g: 73, b: 52},
		Markdown:      "dark",
	},
	"tokyo-midnight": {
		Name:          "tokyo-midnight",
		TabBarBG:      rgb{r: 26, g: 27, b: 38},
		TabActiveBG:   rgb{r: 122, g: 162, b: 247},
		TabActiveFG:   rgb{r: 26, g: 27, b: 38},
		TabInactiveFG: rgb{r: 192, g: 202, b: 245},
		HeadingFG:     rgb{r: 187, g: 154, b: 247},
		AccentFG:      rgb{r: 158, g: 206, b: 106},
		MutedFG:       rgb{r: 127, g: 133, b: 163},
		LinkFG:        rgb{r: 125, g: 207, b: 255},
		SelectedBG:    rgb{r: 41, g: 46, b: 66},
		SelectedFG:    rgb{r: 192, g: 202, b: 245},
		PaneBorderFG:  rgb{r: 59, g: 79, b: 159},
		ErrorFG:       rgb{r: 247, g: 118, b: 142},
		Markdown:      "tokyo-night",
	},
}

func themeForName(name schema.ThemeName) tuiTheme {
	if name == "" {
		name = schema.DefaultTheme
	}
	if theme, ok := tuiThemes[name]; ok {
		return theme
	}
	return tuiThemes[schema.DefaultTheme]
}

// colorFor maps a demo line color hint to a foreground escape.
func (t tuiTheme) colorFor(hint string) string {
	switch hint {
	case "accent":
		return ansiFgRGB(t.AccentFG)
	case "muted":
		return ansiDim + ansiFgRGB(t.MutedFG)
	default:
		return ""
	}
}

func ansiFgRGB(c rgb) string {
	return "\x1b[38;2;" + strconv.Itoa(c.r) + ";" + strconv.Itoa(c.g) + ";" + strconv.Itoa(c.b) + "m"
}

func ansiBgRGB(c rgb) string {
	return "\x1b[48;2;" + strconv.Itoa(c.r) + ";" + strconv.Itoa(c.g) + ";" + strconv.Itoa(c.b) + "m"
}
