package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"

	"github.com/five82/flipbook/internal/book"
)

// Video binds a page pair to a video stream.
type Video struct {
	Left   int    `toml:"left"`
	Right  int    `toml:"right"`
	Key    string `toml:"key"`
	Source string `toml:"source"`
}

// Config captures everything flipbook reads from its config file.
type Config struct {
	TotalPages    int
	TurnThreshold float64
	Assets        string
	PagePattern   string
	MaxDimension  int
	Workers       int
	FPS           int
	Logging       Logging
	Videos        []Video
}

const (
	defaultConfigPath    = "~/.config/flipbook/config.toml"
	defaultLogFile       = "~/.local/share/flipbook/flipbook.log"
	defaultTotalPages    = 16
	defaultTurnThreshold = 50
	defaultAssets        = "images/"
	defaultPagePattern   = "page%d.jpg"
	defaultMaxDimension  = 2048
	defaultWorkers       = 4
	defaultFPS           = 30
	maxFPS               = 120
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		TotalPages:    defaultTotalPages,
		TurnThreshold: defaultTurnThreshold,
		Assets:        defaultAssets,
		PagePattern:   defaultPagePattern,
		MaxDimension:  defaultMaxDimension,
		Workers:       defaultWorkers,
		FPS:           defaultFPS,
		Logging:       Logging{File: mustExpand(defaultLogFile), Level: LevelNormal, Mode: ModeAppend},
	}
}

// Load locates and parses the flipbook config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path, defaultConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.Assets = resolveAssets(cfg.Assets)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		TotalPages    *int     `toml:"total_pages"`
		TurnThreshold *float64 `toml:"turn_threshold"`
		Assets        string   `toml:"assets"`
		PagePattern   string   `toml:"page_pattern"`
		MaxDimension  *int     `toml:"max_dimension"`
		Workers       *int     `toml:"workers"`
		FPS           *int     `toml:"fps"`
		LogFile       string   `toml:"log_file"`
		LogLevel      string   `toml:"log_level"`
		LogMode       string   `toml:"log_mode"`
		Videos        []Video  `toml:"video"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.TotalPages != nil {
		cfg.TotalPages = *raw.TotalPages
	}
	if raw.TurnThreshold != nil {
		cfg.TurnThreshold = *raw.TurnThreshold
	}
	if raw.MaxDimension != nil {
		cfg.MaxDimension = *raw.MaxDimension
	}
	if raw.Workers != nil {
		cfg.Workers = *raw.Workers
	}
	if raw.FPS != nil {
		cfg.FPS = *raw.FPS
	}
	if v := strings.TrimSpace(raw.Assets); v != "" {
		cfg.Assets = v
	}
	cfg.Assets = resolveAssets(cfg.Assets)
	if v := strings.TrimSpace(raw.PagePattern); v != "" {
		cfg.PagePattern = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.Logging.File = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogMode); v != "" {
		cfg.Logging.Mode = strings.ToLower(v)
	}
	for _, v := range raw.Videos {
		v.Key = strings.TrimSpace(v.Key)
		v.Source = strings.TrimSpace(v.Source)
		cfg.Videos = append(cfg.Videos, v)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem in c at once.
func (c Config) Validate() error {
	var err error
	if c.TotalPages < 1 {
		err = multierr.Append(err, fmt.Errorf("total_pages must be at least 1, got %d", c.TotalPages))
	}
	if c.TurnThreshold <= 0 {
		err = multierr.Append(err, fmt.Errorf("turn_threshold must be positive, got %v", c.TurnThreshold))
	}
	if strings.Count(c.PagePattern, "%d") != 1 {
		err = multierr.Append(err, fmt.Errorf("page_pattern %q must contain exactly one %%d", c.PagePattern))
	}
	if c.MaxDimension < 0 {
		err = multierr.Append(err, fmt.Errorf("max_dimension must not be negative, got %d", c.MaxDimension))
	}
	if c.Workers < 1 {
		err = multierr.Append(err, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.FPS < 1 || c.FPS > maxFPS {
		err = multierr.Append(err, fmt.Errorf("fps must be between 1 and %d, got %d", maxFPS, c.FPS))
	}
	err = multierr.Append(err, c.Logging.validate())
	sources := make(map[string]string, len(c.Videos))
	for i, v := range c.Videos {
		if v.Key == "" {
			err = multierr.Append(err, fmt.Errorf("video %d: key is empty", i+1))
		}
		if v.Source == "" {
			err = multierr.Append(err, fmt.Errorf("video %d: source is empty", i+1))
		}
		if v.Key == "" {
			continue
		}
		// One key is one stream, so every spread sharing it plays the same source.
		if prev, ok := sources[v.Key]; ok && prev != v.Source {
			err = multierr.Append(err, fmt.Errorf("video %d: key %q already plays %q, got %q", i+1, v.Key, prev, v.Source))
		} else if !ok {
			sources[v.Key] = v.Source
		}
	}
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Overrides returns the page pairs replaced by video spreads.
func (c Config) Overrides() []book.Override {
	out := make([]book.Override, 0, len(c.Videos))
	for _, v := range c.Videos {
		out = append(out, book.Override{Left: v.Left, Right: v.Right, Key: v.Key})
	}
	return out
}

// VideoSources maps each video key to its asset name.
func (c Config) VideoSources() map[string]string {
	out := make(map[string]string, len(c.Videos))
	for _, v := range c.Videos {
		out[v.Key] = v.Source
	}
	return out
}

// resolveAssets expands local asset directories and leaves URLs untouched.
func resolveAssets(location string) string {
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return location
	}
	return mustExpand(location)
}

// resolvePath expands path, or fallback when path is blank.
func resolvePath(path, fallback string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(fallback)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
