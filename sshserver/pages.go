package sshserver

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mdp/qrterminal/v3"

	"pkt.systems/folio/internal/content"
	"pkt.systems/folio/schema"
)

type tabID int

const (
	tabAbout tabID = iota
	tabWork
	tabProjects
	tabBlog
	tabDemos
	tabContact
)

var tabLabels = []string{"about", "work", "projects", "blog", "demos", "contact"}

func (id tabID) String() string {
	if int(id) < 0 || int(id) >= len(tabLabels) {
		return "unknown"
	}
	return tabLabels[id]
}

// listed reports whether the tab is a selectable list.
func (id tabID) listed() bool {
	return id == tabProjects || id == tabBlog
}

// page is the unstyled content of a tab. anchors holds the index of the
// first line of each selectable item.
type page struct {
	lines   []pageLine
	anchors []int
}

func (p *page) add(style lineStyle, text string) {
	p.lines = append(p.lines, pageLine{text: text, style: style})
}

func (p *page) blank() {
	p.add(stylePlain, "")
}

func (p *page) anchor() {
	p.anchors = append(p.anchors, len(p.lines))
}

// layout wraps the page at width and maps each anchor to its first row.
func (p page) layout(width int, theme tuiTheme) ([]string, []int) {
	rows := make([]string, 0, len(p.lines))
	anchorRows := make([]int, 0, len(p.anchors))
	next := 0
	for i, line := range p.lines {
		for next < len(p.anchors) && p.anchors[next] == i {
			anchorRows = append(anchorRows, len(rows))
			next++
		}
		rows = append(rows, layoutLines([]pageLine{line}, width, theme)...)
	}
	return rows, anchorRows
}

func aboutPage(profile schema.Profile) page {
	var p page
	p.add(styleHeading, profile.Name)
	if profile.Role != "" {
		p.add(styleAccent, profile.Role)
	}
	if profile.Location != "" {
		p.add(styleMuted, profile.Location)
	}
	p.blank()
	if profile.Tagline != "" {
		p.add(stylePlain, profile.Tagline)
		p.blank()
	}
	for _, paragraph := range profile.About {
		p.add(stylePlain, paragraph)
		p.blank()
	}
	return p
}

func workPage(profile schema.Profile) page {
	var p page
	p.add(styleHeading, "Experience")
	p.blank()
	for _, e := range profile.Experience {
		p.add(styleAccent, e.Company+" · "+e.Role)
		meta := e.Period
		if e.Type != "" {
			meta += " · " + e.Type
		}
		p.add(styleMuted, meta)
		if e.Description != "" {
			p.add(stylePlain, e.Description)
		}
		p.blank()
	}
	if ed := profile.Education; ed.School != "" {
		p.add(styleHeading, "Education")
		p.blank()
		p.add(styleAccent, ed.School)
		degree := strings.TrimSpace(strings.Join(nonEmpty(ed.Degree, ed.Major), ", "))
		if degree != "" {
			p.add(stylePlain, degree)
		}
		meta := ed.Period
		if ed.GPA != "" {
			meta += " · GPA " + ed.GPA
		}
		p.add(styleMuted, meta)
	}
	return p
}

func projectsPage(projects []schema.Project, selected int) page {
	var p page
	if len(projects) == 0 {
		p.add(styleMuted, "No projects yet.")
		return p
	}
	for i, project := range projects {
		p.anchor()
		title := project.Title
		if project.Featured {
			title += " ★"
		}
		if content.IsExternal(project) {
			title += " ↗"
		}
		if i == selected {
			p.add(styleSelected, "› "+title)
		} else {
			p.add(styleAccent, "  "+title)
		}
		if project.Description != "" {
			p.add(stylePlain, "  "+project.Description)
		}
		meta := project.Date
		if len(project.Tags) > 0 {
			meta += " · " + strings.Join(project.Tags, ", ")
		}
		p.add(styleMuted, "  "+meta)
		p.blank()
	}
	return p
}

func blogPage(posts []schema.Post, selected int) page {
	var p page
	if len(posts) == 0 {
		p.add(styleMuted, "Nothing yet.")
		return p
	}
	for i, post := range posts {
		p.anchor()
		if i == selected {
			p.add(styleSelected, "› "+post.Title)
		} else {
			p.add(styleAccent, "  "+post.Title)
		}
		p.add(styleMuted, fmt.Sprintf("  %s · %s", post.Date, schema.CategoryLabel(post.Category)))
		if post.Description != "" {
			p.add(stylePlain, "  "+post.Description)
		}
		p.blank()
	}
	return p
}

func contactPage(profile schema.Profile) page {
	var p page
	p.add(styleHeading, "Contact")
	p.blank()
	for _, link := range profile.Links {
		p.add(styleAccent, link.Label)
		p.add(styleLink, "  "+link.Href)
	}
	if len(profile.Links) == 0 {
		p.add(styleMuted, "No links configured.")
		return p
	}
	p.blank()
	first := profile.Links[0]
	p.add(styleMuted, "Scan for "+first.Label+":")
	for _, row := range qrRows(first.Href) {
		p.add(styleRaw, row)
	}
	return p
}

// qrRows renders text as a half-block QR code, two modules per row.
func qrRows(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var buf bytes.Buffer
	qrterminal.GenerateHalfBlock(text, qrterminal.L, &buf)
	rows := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, row := range rows {
		rows[i] = strings.TrimRight(row, "\r")
	}
	return rows
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
