package ui

import "time"

// Chrome rows around the page canvas.
const (
	// HeaderRows is the number of terminal rows above the canvas.
	HeaderRows = 1

	// FooterRows is the number of terminal rows below the canvas.
	FooterRows = 1
)

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the status bar drops
	// the key hints.
	LayoutCompactWidth = 80
)

// Log overlay limits.
const (
	// LogTailLines is the number of log lines read for the overlay.
	LogTailLines = 500

	// LogRefreshInterval is how often the open overlay re-reads the log.
	LogRefreshInterval = time.Second
)

// DefaultFPS is the frame rate used when Options.FPS is unset.
const DefaultFPS = 30
