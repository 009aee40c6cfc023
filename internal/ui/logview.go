package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/flipbook/internal/logtail"
)

// logModal tails the program log while it is open.
type logModal struct {
	path    string
	vp      viewport.Model
	entries []logtail.Entry
	err     error
	follow  bool
}

type logEntriesMsg struct {
	modal   *logModal
	entries []logtail.Entry
	err     error
}

type logTickMsg struct {
	modal *logModal
}

func newLogModal(path string, width, height int) *logModal {
	return &logModal{
		path:   path,
		vp:     viewport.New(logViewportSize(width, height)),
		follow: true,
	}
}

func logViewportSize(width, height int) (int, int) {
	return max(width-4, 1), max(height-4, 1)
}

// refresh reads the log tail off the update loop.
func (l *logModal) refresh() tea.Cmd {
	path := l.path
	return func() tea.Msg {
		if path == "" {
			return logEntriesMsg{modal: l}
		}
		entries, err := logtail.Tail(path, LogTailLines)
		return logEntriesMsg{modal: l, entries: entries, err: err}
	}
}

func (l *logModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case logEntriesMsg:
		if msg.modal != l {
			return l, nil, false
		}
		l.entries, l.err = msg.entries, msg.err
		return l, tea.Tick(LogRefreshInterval, func(time.Time) tea.Msg {
			return logTickMsg{modal: l}
		}), false

	case logTickMsg:
		if msg.modal != l {
			return l, nil, false
		}
		return l, l.refresh(), false

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Logs):
			return l, nil, true
		case key.Matches(msg, keys.Up):
			l.follow = false
			l.vp.ScrollUp(1)
		case key.Matches(msg, keys.Down):
			l.vp.ScrollDown(1)
		case key.Matches(msg, keys.Bottom):
			l.follow = true
			l.vp.GotoBottom()
		}
	}
	return l, nil, false
}

func (l *logModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	l.vp.Width, l.vp.Height = logViewportSize(width, height)
	l.vp.SetContent(l.render(styles))
	if l.follow {
		l.vp.GotoBottom()
	}

	title := styles.AccentText.Bold(true).Render("Log") + "  " + styles.FaintText.Render(l.path)
	body := styles.Modal.Width(width - 2).Render(title + "\n" + l.vp.View())
	return body
}

func (l *logModal) render(styles Styles) string {
	switch {
	case l.path == "":
		return styles.MutedText.Render("Logging is disabled.")
	case l.err != nil:
		return styles.DangerText.Render(l.err.Error())
	case len(l.entries) == 0:
		return styles.MutedText.Render("No log entries yet.")
	}

	var b strings.Builder
	for i, e := range l.entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		if e.Level == "" {
			b.WriteString(styles.MutedText.Render(e.Raw))
			continue
		}
		b.WriteString(styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
		b.WriteString(" ")
		b.WriteString(styles.LevelStyle(e.Level).Render(padRight(e.Level, 5)))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(e.Message))
		if e.Fields != "" {
			b.WriteString(" ")
			b.WriteString(styles.MutedText.Render(e.Fields))
		}
	}
	return b.String()
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
