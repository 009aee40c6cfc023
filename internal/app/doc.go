// Package app is the composition root of flipbook.
//
// # Overview
//
// An Env is created empty and stored in the context before flags are parsed.
// Init fills it from the config file:
//
//  1. Load and validate ~/.config/flipbook/config.toml (or --config).
//  2. Open the zap file logger the config describes.
//  3. Build the immutable book, applying video overrides.
//  4. Pick the asset source (directory or http base URL) and create the
//     snapshot store, the loader and the video clock.
//
// Nothing is fetched until a command runs.
//
// # Commands
//
// Read starts background loading (StartAssets), wires the media controller
// to the viewer's spread-change callback and runs the terminal UI until the
// user quits. Pages appear as they finish loading; until then the renderer
// draws placeholders.
//
// Export loads every asset synchronously and writes one animated turn to
// disk. Video spreads are exported on their first frame because no clock
// runs.
//
// # Data Flow
//
//	Loader ──► Store ◄── Clock
//	              │  ▲
//	              ▼  │ Play/PauseAll
//	  ui.Model ─► viewer.Engine ─► media.Controller
//	              │
//	              ▼
//	    render.Compose ─► render.Painter ─► half-block canvas
package app
