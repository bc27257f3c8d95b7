package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg drives the periodic stats refresh while a session runs.
type tickMsg time.Time

// Update handles messages and updates the model accordingly.
func Update(msg tea.Msg, m Model) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.Keys.ToggleHelp) {
		m.ShowHelp = !m.ShowHelp
		return m, nil
	}
	if m.ShowHelp {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.Keys.Quit) {
			m.ShowHelp = false
		}
		return m, nil
	}

	switch m.State {
	case stateMenu:
		return updateMenu(msg, m)
	case stateRunning:
		return updateRunning(msg, m)
	}
	return m, nil
}

func updateMenu(msg tea.Msg, m Model) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Up):
		if m.Selected > 0 {
			m.Selected--
		}
	case key.Matches(keyMsg, m.Keys.Down):
		if m.Selected < len(menuItems)-1 {
			m.Selected++
		}
	case key.Matches(keyMsg, m.Keys.Select):
		switch m.Selected {
		case 0:
			if err := m.Session.Start(); err != nil {
				m.ErrorMessage = err.Error()
				return m, nil
			}
			m.State = stateRunning
			m.ErrorMessage = ""
			m.lastTick = time.Now()
			m.refreshStats()
			return m, tick()
		case 1:
			return m, tea.Quit
		}
	case key.Matches(keyMsg, m.Keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func updateRunning(msg tea.Msg, m Model) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.ToggleArm):
			m.Session.Arm(!m.Session.Armed())
			m.refreshStats()
		case key.Matches(msg, m.Keys.RateUp):
			m.adjustRates(1)
		case key.Matches(msg, m.Keys.RateDown):
			m.adjustRates(-1)
		case key.Matches(msg, m.Keys.Stop):
			if err := m.Session.Stop(); err != nil {
				m.ErrorMessage = err.Error()
				return m, nil
			}
			m.State = stateMenu
			m.ErrorMessage = ""
			return m, nil
		case key.Matches(msg, m.Keys.Quit):
			if err := m.Session.Stop(); err != nil {
				m.ErrorMessage = err.Error()
			}
			return m, tea.Quit
		}

	case tickMsg:
		m.refreshStats()
		// A timed run or an external signal may have stopped the
		// session underneath the UI.
		if !m.snapshot.Running {
			m.State = stateMenu
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
