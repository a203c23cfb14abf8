package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"pkt.systems/folio/core"
	"pkt.systems/folio/demos"
	"pkt.systems/folio/internal/eventbus"
	"pkt.systems/folio/schema"
	"pkt.systems/pslog"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "List and play the scripted project demos",
	}
	cmd.AddCommand(newDemoListCmd())
	cmd.AddCommand(newDemoPlayCmd())
	return cmd
}

func newDemoListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List demos with their phases",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeDemoList(cmd.OutOrStdout(), demos.All())
		},
	}
}

func writeDemoList(out io.Writer, all []demos.Demo) error {
	rows := make([][]string, 0, len(all))
	for _, d := range all {
		info := d.Info()
		phases := make([]string, 0, len(info.Phases))
		for _, p := range info.Phases {
			phases = append(phases, string(p))
		}
		project := string(info.Project)
		if project == "" {
			project = "-"
		}
		rows = append(rows, []string{string(info.ID), project, strconv.FormatBool(info.Loop), strings.Join(phases, ","), info.Title})
	}
	return writeTable(out, []string{"ID", "PROJECT", "LOOP", "PHASES", "TITLE"}, rows)
}

func newDemoPlayCmd() *cobra.Command {
	var loop bool
	var width int
	cmd := &cobra.Command{
		Use:   "play <id>",
		Short: "Play a demo in the terminal (r replays, q quits)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			demo, err := demos.Get(schema.DemoID(args[0]))
			if err != nil {
				return err
			}
			// The TUI owns the terminal, so service logs are dropped.
			quiet := pslog.NewWithOptions(io.Discard, pslog.Options{Mode: pslog.ModeConsole, NoColor: true})
			ctx := pslog.ContextWithLogger(cmd.Context(), quiet)
			bus := eventbus.New(quiet)
			service, err := core.NewService(schema.ServiceConfig{}, core.ServiceDeps{
				EventSink: bus,
				Logger:    quiet,
			})
			if err != nil {
				return err
			}
			defer func() { _ = service.Close() }()

			req := schema.MountDemoRequest{DemoID: demo.ID}
			if cmd.Flags().Changed("loop") {
				req.Loop = &loop
			}
			model, cleanup, err := startPlayer(ctx, service, bus, demo, req, width)
			if err != nil {
				return err
			}
			defer cleanup()

			program := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			_, err = program.Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&loop, "loop", false, "loop the demo (defaults to the demo's own setting)")
	cmd.Flags().IntVar(&width, "width", 64, "demo pane width")
	return cmd
}

// startPlayer mounts the demo, subscribes to its frames and marks it fully
// visible so the first run starts.
func startPlayer(ctx context.Context, service core.Service, bus *eventbus.Bus, demo demos.Demo, req schema.MountDemoRequest, width int) (playModel, func(), error) {
	resp, err := service.MountDemo(ctx, req)
	if err != nil {
		return playModel{}, nil, err
	}
	events, unsubscribe := bus.Subscribe(resp.SessionID)
	cleanup := func() {
		unsubscribe()
		_, _ = service.UnmountDemo(context.WithoutCancel(ctx), schema.UnmountDemoRequest{SessionID: resp.SessionID})
	}
	if _, err := service.UpdateVisibility(ctx, schema.UpdateVisibilityRequest{SessionID: resp.SessionID, Ratio: 1}); err != nil {
		cleanup()
		return playModel{}, nil, err
	}
	return newPlayModel(ctx, service, resp.SessionID, demo, resp.Frame, events, width), cleanup, nil
}

type playStyles struct {
	title  lipgloss.Style
	pane   lipgloss.Style
	accent lipgloss.Style
	muted  lipgloss.Style
	status lipgloss.Style
	help   lipgloss.Style
}

func defaultPlayStyles() playStyles {
	return playStyles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff6ac1")),
		pane:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7b6cd9")).Padding(0, 1),
		accent: lipgloss.NewStyle().Foreground(lipgloss.Color("#2de2e6")),
		muted:  lipgloss.NewStyle().Faint(true),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("#f9c80e")),
		help:   lipgloss.NewStyle().Faint(true).Italic(true),
	}
}

type playModel struct {
	ctx     context.Context
	service core.Service
	sid     schema.SessionID
	demo    demos.Demo
	frame   schema.DemoFrame
	events  <-chan eventbus.Event
	token   uint64
	width   int
	notice  string
	closed  bool
	styles  playStyles
}

type busMsg eventbus.Event

type busClosedMsg struct{}

func newPlayModel(ctx context.Context, service core.Service, sid schema.SessionID, demo demos.Demo, frame schema.DemoFrame, events <-chan eventbus.Event, width int) playModel {
	if width <= 0 {
		width = 64
	}
	return playModel{
		ctx:     ctx,
		service: service,
		sid:     sid,
		demo:    demo,
		frame:   frame,
		events:  events,
		width:   width,
		styles:  defaultPlayStyles(),
	}
}

func waitForEvent(events <-chan eventbus.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return busClosedMsg{}
		}
		return busMsg(ev)
	}
}

func (m playModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.token++
			resp, err := m.service.SetReplayToken(m.ctx, schema.SetReplayTokenRequest{SessionID: m.sid, Token: m.token})
			switch {
			case err != nil:
				m.notice = err.Error()
			case resp.Triggered:
				m.notice = "replaying"
			default:
				m.notice = "replay waits until the demo has played"
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		if inner := msg.Width - 4; inner > 0 && inner < m.width {
			m.width = inner
		}
		return m, nil
	case busMsg:
		switch msg.Type {
		case eventbus.EventFrame:
			if msg.Frame.SessionID == m.sid && msg.Frame.Frame.Seq >= m.frame.Seq {
				if msg.Frame.Frame.Run != m.frame.Run {
					m.notice = ""
				}
				m.frame = msg.Frame.Frame
			}
		case eventbus.EventLifecycle:
			if msg.Lifecycle.SessionID == m.sid && msg.Lifecycle.Type == schema.DemoUnmounted {
				m.closed = true
				return m, tea.Quit
			}
		}
		return m, waitForEvent(m.events)
	case busClosedMsg:
		m.closed = true
		return m, tea.Quit
	}
	return m, nil
}

func (m playModel) View() string {
	lines := demos.Render(m.demo, demos.PlaybackFrame(m.frame), m.width)
	rows := make([]string, 0, len(lines))
	for _, line := range lines {
		switch line.Color {
		case "accent":
			rows = append(rows, m.styles.accent.Render(line.Text))
		case "muted":
			rows = append(rows, m.styles.muted.Render(line.Text))
		default:
			rows = append(rows, line.Text)
		}
	}
	pane := m.styles.pane.Width(m.width + 2).Render(strings.Join(rows, "\n"))

	status := fmt.Sprintf("run %d · %s", m.frame.Run, m.frame.Phase)
	if m.frame.Run == 0 {
		status = "waiting"
	}
	if m.frame.Complete {
		status += " · complete"
	}
	if m.notice != "" {
		status += " · " + m.notice
	}
	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.demo.Title))
	b.WriteString("\n")
	b.WriteString(pane)
	b.WriteString("\n")
	b.WriteString(m.styles.status.Render(status))
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("r replay · q quit"))
	b.WriteString("\n")
	return b.String()
}
