package ui

import (
	"time"

	"rapidclick/internal/app"
	"rapidclick/internal/timing"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

// state represents the different states of the TUI.
type state int

const (
	stateMenu state = iota
	stateRunning
	stateHelp
)

// Model holds the current state of the UI and the session it drives.
type Model struct {
	State        state
	Selected     int
	Session      *app.App
	ErrorMessage string
	ShowHelp     bool
	Version      string

	Keys KeyMap
	Help help.Model

	// Measured throughput, refreshed on every tick.
	snapshot   app.Status
	prevClicks [2]uint64
	lastTick   time.Time
	measured   [2]float64
}

// InitialModel returns the initial model for the TUI.
func InitialModel(session *app.App) Model {
	return Model{
		State:    stateMenu,
		Selected: 0,
		Session:  session,
		Keys:     DefaultKeys(),
		Help:     NewHelpModel(),
	}
}

// InitialModelRunning returns a model with the session already started,
// used when flags request an immediate run.
func InitialModelRunning(session *app.App) Model {
	m := InitialModel(session)
	if err := session.Start(); err != nil {
		m.ErrorMessage = err.Error()
		return m
	}
	m.State = stateRunning
	m.lastTick = time.Now()
	return m
}

// SetVersion sets the version string shown in the footer.
func (m *Model) SetVersion(v string) {
	m.Version = v
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.State == stateRunning {
		return tick()
	}
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := Update(msg, m)
	return newModel, cmd
}

// View implements tea.Model
func (m Model) View() string {
	return View(m)
}

// refreshStats recomputes per-channel measured click rates from the
// session's click counters.
func (m *Model) refreshStats() {
	st := m.Session.Snapshot()
	now := time.Now()

	if !m.lastTick.IsZero() {
		elapsed := now.Sub(m.lastTick).Seconds()
		if elapsed > 0 {
			for i, cs := range st.Channels {
				m.measured[i] = float64(cs.Clicks-m.prevClicks[i]) / elapsed
			}
		}
	}
	for i, cs := range st.Channels {
		m.prevClicks[i] = cs.Clicks
	}

	m.snapshot = st
	m.lastTick = now
}

// adjustRates nudges both channels' target rates by delta, saturating
// at the uint8 bounds.
func (m *Model) adjustRates(delta int) {
	for i, ch := range []timing.Channel{timing.Left, timing.Right} {
		rate := int(m.snapshot.Channels[i].TargetRate) + delta
		if rate < 0 {
			rate = 0
		}
		if rate > 255 {
			rate = 255
		}
		m.Session.SetRate(ch, uint8(rate))
	}
	m.snapshot = m.Session.Snapshot()
}
