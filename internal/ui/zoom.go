package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gogpu/gg"

	"github.com/five82/flipbook/internal/asset"
	"github.com/five82/flipbook/internal/content"
	"github.com/five82/flipbook/internal/render"
)

// zoomModal shows one page filling the terminal.
type zoomModal struct {
	page    int
	snap    asset.PageSnapshot
	painter *render.Painter
	dc      *gg.Context

	canvas     string
	cols, rows int
}

func newZoomModal(page int, snap asset.PageSnapshot, painter *render.Painter) *zoomModal {
	return &zoomModal{page: page, snap: snap, painter: painter}
}

func (z *zoomModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return z, nil, false
	}
	if key.Matches(k, keys.Escape) || k.Type == tea.KeyEnter {
		return z, nil, true
	}
	return z, nil, false
}

func (z *zoomModal) View(theme Theme, width, height int) string {
	styles := theme.Styles().WithBackground(theme.Surface)
	bg := NewBgStyle(theme.Surface)
	title := styles.Header.Width(width).Render(
		bg.Render(fmt.Sprintf("Page %d", z.page), styles.Logo) + bg.Spaces(2) +
			bg.Render("esc", styles.Key) + bg.Space() + bg.Render("close", styles.MutedText),
	)

	cols, rows := width, height-HeaderRows
	if rows < 1 {
		rows = 1
	}
	if z.canvas == "" || cols != z.cols || rows != z.rows {
		z.paint(theme, cols, rows)
	}
	return title + "\n" + z.canvas
}

func (z *zoomModal) paint(theme Theme, cols, rows int) {
	w, h := pixelSize(cols, rows)
	if z.dc == nil {
		z.dc = gg.NewContext(w, h)
	} else if err := z.dc.Resize(w, h); err != nil {
		return
	}
	page := content.Image{PageNumber: z.page, Status: z.snap.Status, Handle: z.snap.Handle}
	z.painter.Background = parseHex(theme.Canvas)
	if err := z.painter.Paint(z.dc, render.Zoom(page, float64(w), float64(h))); err != nil {
		z.canvas = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Danger)).Render(err.Error())
		return
	}
	z.canvas = blit(z.dc.Image(), cols, rows)
	z.cols, z.rows = cols, rows
}
