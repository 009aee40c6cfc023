package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flipbook/internal/viewer"
)

// renderHeader renders the top bar: position in the book and load progress.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	b := m.engine.Book()
	parts := []string{bg.Render("flipbook", styles.Logo)}

	if spread, ok := b.At(m.state.Current); ok {
		parts = append(parts,
			bg.Render("Spread:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d/%d", m.state.Current+1, b.Len()), styles.Text),
			bg.Render(spread.Label(), styles.AccentText),
		)
	}

	stats := m.store.Stats(b.TotalPages())
	loaded := bg.Render("Pages:", styles.MutedText) + bg.Space() +
		bg.Render(fmt.Sprintf("%d/%d", stats.Ready, b.TotalPages()), styles.Text)
	if stats.Loading > 0 {
		loaded += bg.Space() + bg.Render(fmt.Sprintf("(%d loading)", stats.Loading), styles.WarningText)
	}
	if stats.Failed > 0 {
		loaded += bg.Space() + bg.Render(fmt.Sprintf("(%d missing)", stats.Failed), styles.DangerText)
	}
	parts = append(parts, loaded)

	// Wrapping would push the canvas down a row.
	return styles.Header.Width(m.width).MaxHeight(HeaderRows).Render(bg.Join(parts, "  "))
}

// renderStatusBar renders the bottom bar: mode, pointer hint and key hints.
func (m Model) renderStatusBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var parts []string
	parts = append(parts, bg.Render(modeLabel(m.state), styles.Text))

	if h, ok := m.hint(); ok {
		parts = append(parts, bg.Render(hintLabel(h), styles.AccentText))
	}

	if m.width >= LayoutCompactWidth {
		for _, b := range m.keys.ShortHelp() {
			h := b.Help()
			parts = append(parts, bg.Render(h.Key, styles.Key)+bg.Space()+bg.Render(h.Desc, styles.MutedText))
		}
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		MaxHeight(FooterRows).
		Render(styles.Footer.Render(bg.Join(parts, "  ")))
}

func modeLabel(s viewer.State) string {
	switch m := s.Mode.(type) {
	case viewer.Dragging:
		return "dragging"
	case viewer.Animating:
		return fmt.Sprintf("%s %3.0f%%", m.Animation.Kind, m.Animation.Progress*100)
	default:
		return "ready"
	}
}

func hintLabel(h viewer.Hint) string {
	switch h {
	case viewer.HintNext:
		return "click: next ▶"
	case viewer.HintGrab:
		return "✋ turning"
	default:
		return "◀ click: prev"
	}
}
