package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs are the settings the reader changes from inside the UI. They live
// apart from the config file so flipbook never rewrites a hand-edited
// config.
type Prefs struct {
	Theme string `toml:"theme"`
}

const (
	defaultPrefsPath = "~/.config/flipbook/prefs.toml"

	// DefaultTheme is the theme used until the reader picks another.
	DefaultTheme = "Nightfox"
)

// DefaultPrefsPath returns the default preferences file path.
func DefaultPrefsPath() string {
	return defaultPrefsPath
}

// LoadPrefs reads the preferences at path (the default path when empty).
// A missing file yields defaults. A file that cannot be read or parsed also
// yields defaults, together with the error so the caller can log it.
func LoadPrefs(path string) (Prefs, error) {
	p := Prefs{Theme: DefaultTheme}

	resolved, err := resolvePath(path, defaultPrefsPath)
	if err != nil {
		return p, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("read prefs: %w", err)
	}

	var raw Prefs
	if err := toml.Unmarshal(data, &raw); err != nil {
		return p, fmt.Errorf("parse prefs %s: %w", resolved, err)
	}
	if v := strings.TrimSpace(raw.Theme); v != "" {
		p.Theme = v
	}
	return p, nil
}

// SavePrefs writes p to path (the default path when empty). The file is
// replaced by rename so a crash never leaves half a file behind.
func SavePrefs(path string, p Prefs) error {
	resolved, err := resolvePath(path, defaultPrefsPath)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}
