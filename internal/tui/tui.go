// Package tui provides a Bubble Tea terminal user interface for yt-mashup.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/yt-mashup/internal/config"
	"github.com/handiism/yt-mashup/internal/download"
	"github.com/handiism/yt-mashup/internal/logging"
	"github.com/handiism/yt-mashup/internal/mashup"
	"github.com/handiism/yt-mashup/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500")).
			Width(16)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// Form fields, in tab order.
const (
	fieldQuery = iota
	fieldVideos
	fieldSeconds
	fieldOutput
	numFields
)

var fieldLabels = [numFields]string{"Artist", "Videos", "Seconds each", "Output file"}

const maxLogs = 10

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// tracker collects pipeline progress from the worker goroutine. The
// Model is copied on every update, so it holds a pointer.
type tracker struct {
	completed atomic.Int32
	target    atomic.Int32

	mu   sync.Mutex
	logs []LogEntry
}

func (t *tracker) event(e download.ProgressEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logs = append(t.logs, LogEntry{Message: e.Message, Level: e.Level})
	if len(t.logs) > maxLogs {
		t.logs = t.logs[len(t.logs)-maxLogs:]
	}
}

func (t *tracker) progress(completed, target int) {
	t.completed.Store(int32(completed))
	t.target.Store(int32(target))
}

func (t *tracker) snapshot() (completed, target int, logs []LogEntry) {
	t.mu.Lock()
	logs = append([]LogEntry(nil), t.logs...)
	t.mu.Unlock()
	return int(t.completed.Load()), int(t.target.Load()), logs
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	err      error

	ctx    context.Context
	cancel context.CancelFunc

	track     *tracker
	completed int
	target    int
	logs      []LogEntry
	result    *mashup.Result

	// Options
	tracklist bool
	verbose   bool

	width  int
	height int
}

// NewModel creates a new TUI model. Nil settings means defaults.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	inputs := make([]textinput.Model, numFields)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 200
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldQuery].Placeholder = "artist name"
	inputs[fieldVideos].Placeholder = strconv.Itoa(settings.CandidateCount)
	inputs[fieldVideos].CharLimit = 2
	inputs[fieldSeconds].Placeholder = strconv.Itoa(settings.ClipSeconds)
	inputs[fieldSeconds].CharLimit = 3
	inputs[fieldOutput].Placeholder = settings.OutputName
	inputs[fieldQuery].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		inputs:    inputs,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		ctx:       ctx,
		cancel:    cancel,
		tracklist: settings.WriteTracklist,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// DoneMsg is sent when the pipeline run returns.
	DoneMsg struct {
		Result *mashup.Result
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				// DoneMsg arrives once the pipeline notices.
				m.cancel()
			}

		case "tab", "down":
			if m.state == StateInput {
				m.setFocus(m.focus + 1)
				return m, nil
			}

		case "shift+tab", "up":
			if m.state == StateInput {
				m.setFocus(m.focus - 1)
				return m, nil
			}

		case "enter":
			if m.state == StateInput {
				req, err := m.request()
				if err != nil {
					m.err = err
					return m, nil
				}
				m.err = nil
				m.state = StateRunning
				m.track = &tracker{}
				m.target = req.CandidateCount
				return m, tea.Batch(m.startRun(req), m.spinner.Tick, m.tickProgress())
			}

		case "ctrl+t":
			if m.state == StateInput {
				m.tracklist = !m.tracklist
			}

		case "ctrl+o":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new mashup, keeping the form values
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.result = nil
				m.track = nil
				m.completed, m.target = 0, 0
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.setFocus(fieldQuery)
				return m, m.progress.SetPercent(0)
			}
		}

	case spinner.TickMsg:
		if m.state == StateRunning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case DoneMsg:
		m.pollProgress()
		m.result = msg.Result
		switch {
		case msg.Err != nil && errors.Is(msg.Err, context.Canceled):
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
			cmds = append(cmds, m.progress.SetPercent(1))
		}

	case TickMsg:
		if m.state == StateRunning {
			m.pollProgress()
			var percent float64
			if m.target > 0 {
				percent = float64(m.completed) / float64(m.target)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setFocus(i int) {
	i = (i + numFields) % numFields
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *Model) pollProgress() {
	if m.track == nil {
		return
	}
	completed, target, logs := m.track.snapshot()
	m.completed = completed
	if target > 0 {
		m.target = target
	}
	m.logs = logs
}

// request builds a pipeline request from the form. Empty numeric
// fields fall back to the settings.
func (m Model) request() (mashup.Request, error) {
	return parseForm(
		m.inputs[fieldQuery].Value(),
		m.inputs[fieldVideos].Value(),
		m.inputs[fieldSeconds].Value(),
		m.inputs[fieldOutput].Value(),
		m.settings,
	)
}

func parseForm(query, count, seconds, output string, s *config.Settings) (mashup.Request, error) {
	req := mashup.Request{
		Query:          strings.TrimSpace(query),
		CandidateCount: s.CandidateCount,
		ClipDuration:   s.ClipDuration(),
		OutputName:     strings.TrimSpace(output),
		OutputDir:      s.OutputDir,
	}
	if req.OutputName == "" {
		req.OutputName = s.OutputName
	}

	if v := strings.TrimSpace(count); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: videos must be a number", model.ErrInvalidArgument)
		}
		req.CandidateCount = n
	}
	if v := strings.TrimSpace(seconds); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: seconds must be a number", model.ErrInvalidArgument)
		}
		req.ClipDuration = time.Duration(n) * time.Second
	}

	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎵 YouTube Mashup"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Stitch an artist's videos into one track"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	for i, in := range m.inputs {
		b.WriteString(labelStyle.Render(fieldLabels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	tracklistCheck := "[ ]"
	if m.tracklist {
		tracklistCheck = "[x]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s Write %s tracklist (ctrl+t)\n", tracklistCheck, m.settings.TracklistFormat)
	fmt.Fprintf(&b, "  %s Verbose output (ctrl+o)\n", verboseCheck)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s | Profile: %s", m.settings.OutputDir, m.settings.Profile().Name)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Building mashup for %q...", m.inputs[fieldQuery].Value())))
	b.WriteString("\n\n")

	b.WriteString(m.progress.View())
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Clips: %d/%d", m.completed, m.target)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	res := m.result
	if res == nil || res.Output == nil {
		return successStyle.Render("✨ Done")
	}

	body := fmt.Sprintf(
		"✨ Mashup Complete!\n\n"+
			"File: %s\n"+
			"Clips: %d (%s)\n"+
			"Length: %s\n"+
			"Size: %.2f MB",
		res.Output.Path,
		res.ClipCount,
		strings.ToLower(res.Origin.String()),
		res.Output.Duration.Round(time.Second),
		float64(res.Output.Size)/1024/1024,
	)
	if res.TracklistPath != "" {
		body += "\nTracklist: " + res.TracklistPath
	}
	b.WriteString(boxStyle.Render(body))
	b.WriteString("\n")

	for _, w := range res.Warnings {
		b.WriteString(warningStyle.Render("! " + w))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		fmt.Fprintf(&b, "  %s\n\n", m.err.Error())
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, entry := range m.logs {
		if entry.Level == download.LevelVerbose && !m.verbose {
			continue
		}
		var style lipgloss.Style
		prefix := "•"
		switch entry.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + entry.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: next field • ctrl+t: tracklist • ctrl+o: verbose • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new mashup • q: quit"
	}
	return ""
}

// startRun builds a pipeline and runs it in the background. Progress is
// polled from the tracker via TickMsg.
func (m Model) startRun(req mashup.Request) tea.Cmd {
	ctx := m.ctx
	track := m.track
	settings := *m.settings
	settings.WriteTracklist = m.tracklist

	return func() tea.Msg {
		hooks := mashup.Hooks{
			OnEvent:    track.event,
			OnProgress: track.progress,
		}
		pipeline, err := mashup.NewFromSettings(ctx, &settings, logging.NewLogger(), hooks)
		if err != nil {
			return DoneMsg{Err: err}
		}

		res, err := pipeline.Run(ctx, req)
		return DoneMsg{Result: res, Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
