package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TotalPages != defaultTotalPages || cfg.TurnThreshold != defaultTurnThreshold {
		t.Fatalf("pages/threshold = %d/%v, want defaults", cfg.TotalPages, cfg.TurnThreshold)
	}
	if cfg.FPS != defaultFPS || cfg.Workers != defaultWorkers || cfg.PagePattern != defaultPagePattern {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.Logging.File != wantLog || cfg.Logging.Level != LevelNormal {
		t.Fatalf("Logging = %+v, want %q at normal", cfg.Logging, wantLog)
	}
	if !filepath.IsAbs(cfg.Assets) {
		t.Fatalf("Assets = %q, want an absolute path", cfg.Assets)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestLoad_ParsesConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
total_pages    = 24
turn_threshold = 80
assets         = "  ~/books/sample  "
page_pattern   = "p%d.webp"
max_dimension  = 1024
workers        = 2
fps            = 60
log_file       = "~/logs/flipbook.log"
log_level      = "DEBUG"

[[video]]
left   = 10
right  = 11
key    = "spread5"
source = "page11.gif"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TotalPages != 24 || cfg.TurnThreshold != 80 || cfg.MaxDimension != 1024 || cfg.Workers != 2 || cfg.FPS != 60 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Assets != filepath.Join(home, "books/sample") {
		t.Fatalf("Assets = %q, want it under HOME", cfg.Assets)
	}
	if cfg.PagePattern != "p%d.webp" {
		t.Fatalf("PagePattern = %q", cfg.PagePattern)
	}
	if cfg.Logging.File != filepath.Join(home, "logs/flipbook.log") || cfg.Logging.Level != LevelDebug {
		t.Fatalf("Logging = %+v", cfg.Logging)
	}

	overrides := cfg.Overrides()
	if len(overrides) != 1 || overrides[0].Left != 10 || overrides[0].Right != 11 || overrides[0].Key != "spread5" {
		t.Fatalf("Overrides = %+v", overrides)
	}
	if got := cfg.VideoSources()["spread5"]; got != "page11.gif" {
		t.Fatalf("VideoSources[spread5] = %q, want page11.gif", got)
	}
}

func TestLoad_URLAssetsAreKept(t *testing.T) {
	path := writeConfig(t, `assets = "https://example.com/book/"`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Assets != "https://example.com/book/" {
		t.Fatalf("Assets = %q, want the URL unchanged", cfg.Assets)
	}
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	path := writeConfig(t, `
total_pages    = 0
turn_threshold = -1
page_pattern   = "page.jpg"
fps            = 500
log_level      = "loud"

[[video]]
left  = 10
right = 11
`)

	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error")
	}
	for _, want := range []string{"total_pages", "turn_threshold", "page_pattern", "fps", "log_level", "key is empty", "source is empty"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %q", err.Error(), want)
		}
	}
}

func TestValidate_VideoKeyWithTwoSources(t *testing.T) {
	_, err := Load(writeConfig(t, `
total_pages = 16

[[video]]
left   = 4
right  = 5
key    = "clip"
source = "a.gif"

[[video]]
left   = 10
right  = 11
key    = "clip"
source = "b.gif"
`))
	if err == nil {
		t.Fatalf("Load returned nil error for a key with two sources")
	}
	if !strings.Contains(err.Error(), `key "clip" already plays "a.gif"`) {
		t.Fatalf("error %q does not name the conflicting key", err.Error())
	}
}

func TestValidate_VideoKeySharedBySameSource(t *testing.T) {
	cfg := Default()
	cfg.Videos = []Video{
		{Left: 4, Right: 5, Key: "clip", Source: "a.gif"},
		{Left: 10, Right: 11, Key: "clip", Source: "a.gif"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if got := cfg.VideoSources(); len(got) != 1 || got["clip"] != "a.gif" {
		t.Fatalf("VideoSources = %v", got)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `total_pages = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLoggingPrepare_WritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "flipbook.log")
	logger, closer, err := Logging{File: file, Level: LevelNormal, Mode: ModeOverwrite}.Prepare()
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("turned page", zap.Int("to", 3))
	_ = logger.Sync()
	if err := closer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := closer.Close(); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("second Close = %v, want %v", err, os.ErrClosed)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "turned page") {
		t.Fatalf("log = %q, want the info entry", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Fatalf("log = %q, debug entry written at normal level", data)
	}
}

func TestLoggingPrepare_NoneIsNop(t *testing.T) {
	logger, closer, err := Logging{Level: LevelNone}.Prepare()
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if logger.Core().Enabled(zap.ErrorLevel) {
		t.Fatalf("none level logger is enabled")
	}
}
