package ui

import (
	"fmt"
	"strings"
	"time"
)

var menuItems = []string{
	"Start clicking session",
	"Quit",
}

// View renders the current state of the model to a string.
func View(m Model) string {
	if m.ShowHelp {
		return helpView()
	}

	switch m.State {
	case stateMenu:
		return menuView(m)
	case stateRunning:
		return runningView(m)
	}

	return ""
}

func menuView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("rapidclick"))
	b.WriteString("\n\n")

	st := m.Session.Snapshot()
	b.WriteString(Current.Unselected.Render(fmt.Sprintf("profile: %s   mode: %s", st.Profile, st.Mode)))
	b.WriteString("\n\n")

	for i, opt := range menuItems {
		if i == m.Selected {
			b.WriteString(Current.Selected.Render("> " + opt))
		} else {
			b.WriteString(Current.Unselected.Render("  " + opt))
		}
		b.WriteString("\n")
	}

	if m.ErrorMessage != "" {
		b.WriteString("\n" + Current.Error.Render(m.ErrorMessage))
	}

	b.WriteString("\n\n" + Current.Help.Render(m.Help.View(m.Keys.ForState(stateMenu))))
	if m.Version != "" {
		b.WriteString("\n" + Current.Help.Render("version "+m.Version))
	}
	return b.String()
}

func runningView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Session running"))
	b.WriteString("\n\n")

	st := m.snapshot

	window := "searching..."
	if st.WindowFound {
		window = "found"
	}
	b.WriteString(Current.StatusLine.Render(fmt.Sprintf("profile: %s   mode: %s   window: %s   uptime: %s",
		st.Profile, st.Mode, window, st.Uptime.Round(time.Second))))
	b.WriteString("\n\n")

	for i, cs := range st.Channels {
		style := Current.Disarmed
		if cs.Active {
			style = Current.Armed
		}
		line := fmt.Sprintf("%-5s  %-7s  target %3d cps  measured %5.1f cps  clicks %d",
			cs.Channel, cs.State, cs.TargetRate, m.measured[i], cs.Clicks)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if m.ErrorMessage != "" {
		b.WriteString("\n" + Current.Error.Render(m.ErrorMessage))
	}

	b.WriteString("\n" + Current.Help.Render(m.Help.View(m.Keys.ForState(stateRunning))))

	return b.String()
}

func helpView() string {
	help := `rapidclick Help

Usage:
  rapidclick -process <name> [flags]

Flags:
  -process string     Target process or window name (required)
  -profile string     Timing profile: burst or steady (default "burst")
  -cps int            Left button target clicks per second (default 15)
  -right-cps int      Right button target rate (defaults to -cps)
  -mode string        Gating mode: toggle, hold, or mouse (default "toggle")
  -toggle-key int     Platform key code of the hotkey
  -for string         Stop automatically after this long (e.g. "90" or "2h30m")
  -no-ui              Run headless
  -v, -version        Show version information

Running session:
  t          : Arm or disarm both buttons
  +/-        : Raise or lower the target rate
  s/Esc      : Stop the session and return to the menu
  h          : Toggle this help
  q          : Quit

Press 'q' or 'h' to close help`

	return Current.Help.Render(help)
}
