// Package pager is a full-screen viewer for one highlighted file. It
// re-renders when the theme is switched or the file changes on disk, and can
// show the most recent log entries below the text.
package pager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/hilite/internal/config"
	"github.com/zjrosen/hilite/internal/formatter"
	"github.com/zjrosen/hilite/internal/highlight"
	"github.com/zjrosen/hilite/internal/keys"
	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/pubsub"
	"github.com/zjrosen/hilite/internal/theme"
	"github.com/zjrosen/hilite/internal/ui/styles"
)

// logPaneHeight is the outer height of the log pane, borders included.
const logPaneHeight = 8

// Config describes what the pager shows.
type Config struct {
	// Path of the file, re-read when Events reports a change to it. Empty
	// for standard input.
	Path   string
	Source []byte
	Lexer  *lexer.Lexer

	Highlighter *highlight.Highlighter

	Theme      string
	Profile    string
	Background bool

	// ConfigPath is where "s" saves the current theme; saving is disabled
	// when empty.
	ConfigPath string

	// Events delivers file change notifications, typically a watcher.
	Events pubsub.Subscriber[string]
}

type renderedMsg struct {
	seq    int
	out    string
	cached bool
	err    error
}

type reloadedMsg struct {
	src []byte
	err error
}

type savedMsg struct {
	theme string
	err   error
}

// Model is the Bubble Tea model of the pager.
type Model struct {
	ctx    context.Context
	cfg    Config
	src    []byte
	themes []string
	theme  int

	keys     keys.PagerKeyMap
	help     help.Model
	viewport viewport.Model
	width    int
	height   int
	ready    bool

	// seq identifies the latest render request; results of older ones are
	// dropped.
	seq     int
	content string
	cached  bool
	status  string
	err     error

	showLogs bool
	logs     *log.LogListener
	events   *pubsub.Listener[string]
}

// New creates a pager for cfg. Subscriptions end with ctx.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Theme == "" {
		cfg.Theme = theme.Default
	}
	themes := theme.Names()
	idx := slices.IndexFunc(themes, func(name string) bool { return strings.EqualFold(name, cfg.Theme) })
	if idx < 0 {
		themes = append(themes, cfg.Theme)
		idx = len(themes) - 1
	}
	km := keys.Pager
	hm := help.New()
	hm.Styles.ShortKey = styles.HelpKeyStyle
	hm.Styles.ShortDesc = styles.HelpDescStyle
	hm.Styles.FullKey = styles.HelpKeyStyle
	hm.Styles.FullDesc = styles.HelpDescStyle
	vp := viewport.New(0, 0)
	vp.KeyMap.Up = km.Up
	vp.KeyMap.Down = km.Down
	vp.KeyMap.PageUp = km.PageUp
	vp.KeyMap.PageDown = km.PageDown
	m := Model{
		ctx:      ctx,
		cfg:      cfg,
		src:      cfg.Source,
		themes:   themes,
		theme:    idx,
		keys:     km,
		help:     hm,
		viewport: vp,
		logs:     log.NewListener(ctx),
	}
	if cfg.Events != nil {
		m.events = pubsub.NewListener(ctx, cfg.Events)
	}
	return m
}

// Init starts the first render and the subscriptions.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.renderCmd()}
	if m.events != nil {
		cmds = append(cmds, m.events.Next())
	}
	if m.logs != nil {
		cmds = append(cmds, m.logs.Next())
	}
	return tea.Batch(cmds...)
}

// Theme returns the name of the current theme.
func (m Model) Theme() string {
	return m.themes[m.theme]
}

// Content returns the highlighted text on display.
func (m Model) Content() string {
	return m.content
}

// Err returns the last render or reload error.
func (m Model) Err() error {
	return m.err
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case renderedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.err = msg.err
		if msg.err == nil {
			m.content, m.cached = msg.out, msg.cached
			m.viewport.SetContent(m.content)
		}
		return m, nil

	case reloadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.src = msg.src
		m.status = "reloaded"
		return m.rerender()

	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = "saved theme " + msg.theme
		return m, nil

	case pubsub.Event[string]:
		return m.handleEvent(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.NextTheme):
		m.theme = (m.theme + 1) % len(m.themes)
		m.status = "theme " + m.Theme()
		return m.rerender()
	case key.Matches(msg, m.keys.PrevTheme):
		m.theme = (m.theme + len(m.themes) - 1) % len(m.themes)
		m.status = "theme " + m.Theme()
		return m.rerender()
	case key.Matches(msg, m.keys.SaveTheme):
		if m.cfg.ConfigPath == "" {
			m.status = "no config file to save to"
			return m, nil
		}
		return m, m.saveCmd()
	case key.Matches(msg, m.keys.ToggleLogs):
		m.showLogs = !m.showLogs
		m.resizeViewport()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizeViewport()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleEvent(ev pubsub.Event[string]) (Model, tea.Cmd) {
	if ev.Type == pubsub.LogEvent {
		// Entries are read from the ring on render; the event only wakes
		// the view.
		if m.logs == nil {
			return m, nil
		}
		return m, m.logs.Next()
	}
	if m.events == nil {
		return m, nil
	}
	next := m.events.Next()
	if m.cfg.Path == "" || !samePath(ev.Payload, m.cfg.Path) {
		return m, next
	}
	switch ev.Type {
	case pubsub.FileChangedEvent:
		log.Debug(log.CatUI, "file changed", "path", ev.Payload)
		return m, tea.Batch(next, m.reloadCmd())
	case pubsub.FileRemovedEvent:
		m.status = "file removed"
	}
	return m, next
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

// rerender bumps the request sequence and renders the current source with
// the current theme.
func (m Model) rerender() (Model, tea.Cmd) {
	m.seq++
	return m, m.renderCmd()
}

func (m Model) renderCmd() tea.Cmd {
	ctx, h, lx, src, seq := m.ctx, m.cfg.Highlighter, m.cfg.Lexer, m.src, m.seq
	themeName, profile, background := m.Theme(), m.cfg.Profile, m.cfg.Background
	return func() tea.Msg {
		f := formatter.New(formatter.Terminal)
		if profile != "" {
			if err := f.SetOptionString("profile", profile, nil); err != nil {
				return renderedMsg{seq: seq, err: err}
			}
		}
		if err := f.SetOptionString("theme", themeName, h.Resolver()); err != nil {
			return renderedMsg{seq: seq, err: err}
		}
		if background {
			if err := f.SetOptionString("background", "true", nil); err != nil {
				return renderedMsg{seq: seq, err: err}
			}
		}
		res, err := h.Highlight(ctx, lx, f, src)
		if err != nil {
			return renderedMsg{seq: seq, err: err}
		}
		return renderedMsg{seq: seq, out: string(res.Output), cached: res.Cached}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	path := m.cfg.Path
	return func() tea.Msg {
		src, err := os.ReadFile(path)
		if err != nil {
			return reloadedMsg{err: fmt.Errorf("reload %s: %w", path, err)}
		}
		return reloadedMsg{src: src}
	}
}

func (m Model) saveCmd() tea.Cmd {
	path, name := m.cfg.ConfigPath, m.Theme()
	return func() tea.Msg {
		return savedMsg{theme: name, err: config.SaveTheme(path, name)}
	}
}

// SetSize updates the screen size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true
	m.resizeViewport()
}

func (m *Model) resizeViewport() {
	h := m.height - 2
	if m.showLogs {
		h -= logPaneHeight
	}
	m.help.Width = m.width
	if m.help.ShowAll {
		h -= lipgloss.Height(m.fullHelp())
	}
	m.viewport.Width = max(m.width, 1)
	m.viewport.Height = max(h, 1)
	m.viewport.SetContent(m.content)
}

// View renders the pager.
func (m Model) View() string {
	if !m.ready {
		return ""
	}
	t, err := theme.ByName(m.Theme())
	if err != nil {
		t = nil
	}
	chrome := styles.ChromeFor(t)

	parts := []string{m.header(chrome), m.viewport.View()}
	if m.showLogs {
		parts = append(parts, m.logPane(chrome))
	}
	if m.help.ShowAll {
		parts = append(parts, m.fullHelp())
	}
	parts = append(parts, m.footer(chrome))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) header(c styles.Chrome) string {
	name := m.cfg.Path
	if name == "" {
		name = "<stdin>"
	}
	title := lipgloss.NewStyle().Foreground(c.Accent).Bold(true).Render(name)
	info := lipgloss.NewStyle().Foreground(c.Muted).Render(
		fmt.Sprintf(" %s · %s", m.cfg.Lexer.Name(), m.Theme()))
	return ansi.Truncate(title+info, m.width, "…")
}

func (m Model) footer(c styles.Chrome) string {
	left := fmt.Sprintf("%d lines  %3.f%%", m.viewport.TotalLineCount(), m.viewport.ScrollPercent()*100)
	if m.cached {
		left += "  cached"
	}
	switch {
	case m.err != nil:
		left += "  " + styles.ErrorTextStyle.Render(m.err.Error())
	case m.status != "":
		left += "  " + m.status
	}
	hints := m.help.ShortHelpView(m.keys.ShortHelp())
	gap := m.width - ansi.StringWidth(left) - ansi.StringWidth(hints) - 2
	line := left
	if gap > 0 {
		line += strings.Repeat(" ", gap) + hints
	}
	return styles.StatusBarStyle.Foreground(c.Text).Render(ansi.Truncate(line, max(m.width-2, 0), "…"))
}

func (m Model) fullHelp() string {
	return lipgloss.NewStyle().Padding(0, 1).Render(m.help.FullHelpView(m.keys.FullHelp()))
}

func (m Model) logPane(c styles.Chrome) string {
	inner := logPaneHeight - 2
	entries := log.RecentLogs(inner)
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSuffix(entry, "\n")
		style := lipgloss.NewStyle().Foreground(styles.LevelColor(entryLevel(entry)))
		lines = append(lines, style.Render(ansi.Truncate(entry, max(m.width-2, 1), "…")))
	}
	return styles.RenderPanel(strings.Join(lines, "\n"), "Logs", m.width, logPaneHeight, c, false)
}

// entryLevel extracts the level tag of a log entry, "" when absent.
func entryLevel(entry string) string {
	for _, level := range []string{"ERROR", "WARN", "INFO", "DEBUG"} {
		if strings.Contains(entry, "["+level+"]") {
			return level
		}
	}
	return ""
}

// Run shows the pager in the alternate screen until the user quits or ctx
// ends.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(program{New(ctx, cfg)}, opts...).Run()
	return err
}

// program adapts Model to tea.Model.
type program struct {
	m Model
}

func (p program) Init() tea.Cmd { return p.m.Init() }

func (p program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := p.m.Update(msg)
	return program{m}, cmd
}

func (p program) View() string { return p.m.View() }
