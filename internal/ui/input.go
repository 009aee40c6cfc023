package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/flipbook/internal/config"
	"github.com/five82/flipbook/internal/viewer"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.modal != nil {
		if key.Matches(msg, m.keys.Escape) {
			m.state = m.engine.Key(m.state, viewerKey(msg))
			m.drain()
			if m.modal == nil {
				return m, nil
			}
		}
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			if err := config.SavePrefs(m.prefsPath, config.Prefs{Theme: m.theme.Name}); err != nil {
				m.logger.Warn("save prefs failed", zap.Error(err))
			}
		}
		m.repaint()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		lm := newLogModal(m.logPath, m.width, m.height)
		m.modal = lm
		return m, lm.refresh()

	case key.Matches(msg, m.keys.First):
		if !m.state.Busy() && m.state.Current != 0 {
			m.state = m.engine.StartAt(0)
			m.repaint()
		}
		return m, nil

	case key.Matches(msg, m.keys.Last):
		last := m.engine.Book().Len() - 1
		if !m.state.Busy() && m.state.Current != last {
			m.state = m.engine.StartAt(last)
			m.repaint()
		}
		return m, nil
	}

	if name := viewerKey(msg); name != "" {
		m.state = m.engine.Key(m.state, name)
		m.drain()
		m.repaint()
	}
	return m, nil
}

// viewerKey maps a terminal key to the logical key names the viewer
// understands. Unmapped keys return "".
func viewerKey(msg tea.KeyMsg) string {
	keys := DefaultKeyMap()
	switch {
	case key.Matches(msg, keys.Next):
		return "ArrowRight"
	case key.Matches(msg, keys.Prev):
		return "ArrowLeft"
	case key.Matches(msg, keys.Escape):
		return "Escape"
	default:
		return ""
	}
}

// handleMouse feeds left-button presses, drags and releases to the viewer.
// The wheel turns one spread per notch.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.modal != nil || !m.ready {
		return m, nil
	}

	x, y := toPixel(msg.X, msg.Y)
	m.pointer = pointer{x: x, y: y, seen: true}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.state = m.engine.PointerDown(m.state, x, y, m.now())
		case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
			m.state = m.engine.Key(m.state, "ArrowRight")
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
			m.state = m.engine.Key(m.state, "ArrowLeft")
		}
	case tea.MouseActionMotion:
		m.state = m.engine.PointerMove(m.state, x, y)
	case tea.MouseActionRelease:
		m.state = m.engine.PointerUp(m.state, x, y, m.now(), m.layout())
	}

	m.drain()
	m.repaint()
	return m, nil
}

// hint returns the pointer affordance for the status bar.
func (m Model) hint() (viewer.Hint, bool) {
	if !m.pointer.seen {
		return 0, false
	}
	return viewer.PointerHint(m.state, m.pointer.x, m.pointer.y, m.layout()), true
}
