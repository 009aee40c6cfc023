// Package ui is the terminal front end of flipbook, built on Bubble Tea.
//
// # Canvas
//
// The book is rasterized with the render package into a gg context sized
// one pixel per column and two pixels per row, then blitted as upper
// half-block cells whose foreground and background carry the two pixels.
// The header and status bar take one row each; everything between them is
// canvas. A frame is only re-rasterized when the viewer state, the asset
// store version, the theme or the terminal size changed since the last one.
//
// # Event Flow
//
//  1. tea.WindowSizeMsg sets the viewport; the page layout follows it.
//  2. tea.MouseMsg presses, motions and releases become viewer pointer
//     events in canvas pixels. The wheel turns one spread per notch.
//  3. tea.KeyMsg arrows map to the viewer's ArrowRight/ArrowLeft/Escape.
//  4. A frame tick at the configured fps advances any animation.
//
// Viewer callbacks cannot reach the Model directly because Bubble Tea passes
// the Model by value, so they land in a shared inbox the Model drains after
// every engine call. Activating a ready page opens the zoom overlay; Escape
// closes it.
//
// # Overlays
//
//   - Help: key reference, closed by any key.
//   - Zoom: the clicked page fitted to the terminal.
//   - Log: the tail of the log file, refreshed every second while open.
//
// # Key Bindings
//
//   - →, l, space, pgdown: next spread
//   - ←, backspace, pgup: previous spread
//   - g/G: front/back cover
//   - esc: close the zoomed page
//   - L: log overlay
//   - T: cycle theme (saved to prefs)
//   - h/?: help
//   - q or Ctrl+C: quit
package ui
