package record

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// captureMsg carries a rendered capture line.
type captureMsg struct{ line string }

// stateMsg carries a host state update.
type stateMsg struct{ StateRow }

const maxLogLines = 1000

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// Summary describes the running host for the TUI header.
type Summary struct {
	HostID   string
	Scenario string
	Preset   string
	Window   string
	Rate     float64
	Period   time.Duration
}

// TUIWriter renders captures and host state using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter. Quitting
// the TUI interrupts the process.
func NewTUIWriter(s Summary) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(s), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteCapture implements CaptureWriter.
func (w *TUIWriter) WriteCapture(row CaptureRow) error {
	w.program.Send(captureMsg{line: formatCapture(row)})
	return nil
}

// WriteState implements StateWriter.
func (w *TUIWriter) WriteState(row StateRow) error {
	w.program.Send(stateMsg{StateRow: row})
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

func formatCapture(row CaptureRow) string {
	status := okStyle.Render(row.Status)
	if row.Status != StatusOK {
		status = failedStyle.Render(row.Status)
	}
	line := fmt.Sprintf("%s capture=%s sensor=%s frame=%d status=%s",
		dimStyle.Render("["+row.Timestamp.Format(time.RFC3339)+"]"),
		shortID(row.ID), row.Sensor, row.Frame, status)
	if row.Error != "" {
		line += " error=" + failedStyle.Render(row.Error)
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type tuiModel struct {
	summary    Summary
	state      StateRow
	vp         viewport.Model
	logs       []string
	wrap       bool
	autoscroll bool
	header     string
	width      int
	height     int
}

func newTUIModel(s Summary) tuiModel {
	m := tuiModel{
		summary:    s,
		vp:         viewport.New(0, 0),
		autoscroll: true,
	}
	m.header = m.renderHeader()
	return m
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.header = m.renderHeader()
		m.resize()
		m.refresh()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.header = m.renderHeader()
			m.resize()
			m.refresh()
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
		default:
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	case captureMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refresh()
	case stateMsg:
		m.state = msg.StateRow
		m.header = m.renderHeader()
	}
	return m, nil
}

func (m *tuiModel) resize() {
	if m.height == 0 {
		return
	}
	h := m.height - lipgloss.Height(m.header) - 1
	if h < 1 {
		h = 1
	}
	m.vp.Height = h
}

func (m *tuiModel) refresh() {
	lines := m.logs
	if m.wrap && m.vp.Width > 0 {
		lines = make([]string, len(m.logs))
		for i, l := range m.logs {
			lines[i] = wordwrap.String(l, m.vp.Width)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) renderHeader() string {
	s := m.summary
	info := fmt.Sprintf("host=%s scenario=%s preset=%s window=%s rate=%.2f/s period=%s",
		s.HostID, s.Scenario, s.Preset, s.Window, s.Rate, s.Period)
	st := m.state
	stats := fmt.Sprintf("frames=%d captures ok=%d failed=%d tick_errors=%d lag=%.2fms",
		st.Frames, st.CapturesOK, st.CapturesFailed, st.TickErrors, st.LagMS)
	if m.wrap && m.width > 0 {
		info = wordwrap.String(info, m.width)
		stats = wordwrap.String(stats, m.width)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Simulation Host"),
		dimStyle.Render(info),
		stats,
	)
}

func (m tuiModel) View() string {
	footer := footerStyle.Render("q quit • w wrap • s autoscroll • ↑/↓ scroll")
	return m.header + "\n" + m.vp.View() + "\n" + footer
}
