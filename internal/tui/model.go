package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/okenna/ferry/internal/config"
)

// launchStatus tracks where a dashboard row is in its lifecycle.
type launchStatus int

const (
	statusRunning launchStatus = iota
	statusFinished
	statusFailed
	statusCanceled
)

// launchRow is one line of the dashboard: a single launch from start to
// delivered completion.
type launchRow struct {
	id       string
	label    string
	target   string
	status   launchStatus
	err      string
	started  time.Time
	duration time.Duration
}

// Model is the Bubbletea model for the launch dashboard.
type Model struct {
	rows   []launchRow
	queues map[string]bool

	maxRows        int
	showTimestamps bool

	width  int
	height int
	ready  bool
	scroll int

	adding bool
	input  textinput.Model
	launch LaunchFunc

	errorMessage string
	infoMessage  string
	quitting     bool
}

// NewModel creates the dashboard model from the TUI configuration.
func NewModel(cfg *config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "label [queue]"
	ti.CharLimit = 100
	ti.Width = 40

	m := Model{
		queues:         make(map[string]bool),
		maxRows:        200,
		showTimestamps: true,
		input:          ti,
	}
	if cfg != nil {
		m.maxRows = cfg.TUI.MaxRows
		m.showTimestamps = cfg.TUI.ShowTimestamps
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		// Redraw so running rows show a live elapsed time.
		return m, tick()

	case performMsg:
		// A completion targeted at the main context. Running it here is
		// what serializes it with everything else the dashboard does.
		msg.fn()
		close(msg.ran)
		return m, nil

	case launchStartedMsg:
		m.rows = append(m.rows, launchRow{
			id:      msg.ev.LaunchID,
			label:   msg.ev.Label,
			target:  msg.ev.Target,
			status:  statusRunning,
			started: msg.ev.Timestamp(),
		})
		if m.maxRows > 0 && len(m.rows) > m.maxRows {
			m.rows = m.rows[len(m.rows)-m.maxRows:]
		}
		return m, nil

	case launchFinishedMsg:
		for i := range m.rows {
			if m.rows[i].id != msg.ev.LaunchID {
				continue
			}
			switch {
			case msg.ev.Canceled:
				m.rows[i].status = statusCanceled
			case msg.ev.Success:
				m.rows[i].status = statusFinished
			default:
				m.rows[i].status = statusFailed
			}
			m.rows[i].err = msg.ev.Error
			m.rows[i].duration = msg.ev.Duration
			break
		}
		return m, nil

	case queueOpenedMsg:
		m.queues[msg.name] = true
		return m, nil

	case queueClosedMsg:
		delete(m.queues, msg.name)
		return m, nil

	case configReloadedMsg:
		m.infoMessage = fmt.Sprintf("Config reloaded from %s", msg.path)
		return m, nil
	}

	return m, nil
}

// handleKeypress processes keyboard input
func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Input mode - the launch bar owns the keyboard.
	if m.adding {
		switch msg.Type {
		case tea.KeyEsc:
			m.adding = false
			m.input.Reset()
			return m, nil
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			m.adding = false
			m.input.Reset()
			if value == "" {
				return m, nil
			}
			return m.submitLaunch(value)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	// Normal mode - clear info message on most actions
	m.infoMessage = ""

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "a":
		if m.launch == nil {
			m.errorMessage = "No launcher wired to this dashboard"
			return m, nil
		}
		m.adding = true
		m.errorMessage = ""
		m.input.Focus()
		return m, textinput.Blink

	case "c":
		m.rows = m.clearedRows()
		m.scroll = 0
		return m, nil

	case "j", "down":
		if m.scroll < len(m.rows)-1 {
			m.scroll++
		}
		return m, nil

	case "k", "up":
		if m.scroll > 0 {
			m.scroll--
		}
		return m, nil

	case "g":
		m.scroll = 0
		return m, nil

	case "G":
		if n := len(m.rows) - m.visibleRows(); n > 0 {
			m.scroll = n
		} else {
			m.scroll = 0
		}
		return m, nil
	}

	return m, nil
}

// submitLaunch parses "label [queue]" from the input bar and starts the
// launch.
func (m Model) submitLaunch(value string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(value)
	label := fields[0]
	queue := ""
	if len(fields) > 1 {
		queue = fields[1]
	}

	if err := m.launch(label, queue); err != nil {
		m.errorMessage = err.Error()
	} else {
		m.infoMessage = fmt.Sprintf("Launched %s", label)
	}
	return m, nil
}

// clearedRows drops every row whose launch has finished.
func (m Model) clearedRows() []launchRow {
	kept := m.rows[:0:0]
	for _, r := range m.rows {
		if r.status == statusRunning {
			kept = append(kept, r)
		}
	}
	return kept
}

// queueNames returns the open queues in stable order for the status bar.
func (m Model) queueNames() []string {
	names := make([]string, 0, len(m.queues))
	for name := range m.queues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// counts tallies rows per status for the status bar.
func (m Model) counts() (running, finished, failed, canceled int) {
	for _, r := range m.rows {
		switch r.status {
		case statusRunning:
			running++
		case statusFinished:
			finished++
		case statusFailed:
			failed++
		case statusCanceled:
			canceled++
		}
	}
	return running, finished, failed, canceled
}
