// Package config loads flipbook's TOML configuration and builds its logger.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/flipbook/config.toml
//  3. If the file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing, keep the defaults for them
//
// # Default Values
//
//   - total_pages: 16
//   - turn_threshold: 50 (pixels of drag that commit a turn)
//   - assets: images/ (a directory, or an http(s) base URL)
//   - page_pattern: page%d.jpg
//   - max_dimension: 2048 (decoded pages are fit into this box, 0 keeps size)
//   - workers: 4
//   - fps: 30
//   - log_file: ~/.local/share/flipbook/flipbook.log
//   - log_level: normal (none, normal or debug)
//   - log_mode: append (append or overwrite)
//
// # Videos
//
// Each [[video]] table replaces one page pair with a looping clip:
//
//	[[video]]
//	left   = 10
//	right  = 11
//	key    = "spread5"
//	source = "page11.gif"
//
// Whether the pair is a real spread of the book is checked by book.Build,
// which receives Overrides().
//
// # Error Handling
//
// Validate collects every problem with multierr so a broken file is fixed in
// one pass. Missing config files are not an error.
//
// # Preferences
//
// LoadPrefs and SavePrefs keep settings changed from inside the UI (the
// theme) in ~/.config/flipbook/prefs.toml. The config file itself is never
// written.
//
// # Logging
//
// Logging.Prepare builds a zap logger writing to log_file only. The terminal
// belongs to the UI, so nothing is logged to stdout or stderr.
package config
