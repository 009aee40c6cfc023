package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels accepted in log_level.
const (
	LevelNone   = "none"
	LevelNormal = "normal"
	LevelDebug  = "debug"
)

// Log file modes accepted in log_mode.
const (
	ModeAppend    = "append"
	ModeOverwrite = "overwrite"
)

// Logging describes the file logger. The terminal belongs to the UI, so
// there is no console logger.
type Logging struct {
	File  string
	Level string
	Mode  string
}

func (l Logging) validate() error {
	switch l.Level {
	case LevelNone, LevelNormal, LevelDebug:
	default:
		return fmt.Errorf("log_level must be one of none, normal, debug, got %q", l.Level)
	}
	switch l.Mode {
	case "", ModeAppend, ModeOverwrite:
	default:
		return fmt.Errorf("log_mode must be append or overwrite, got %q", l.Mode)
	}
	if l.Level != LevelNone && l.File == "" {
		return fmt.Errorf("log_file is empty")
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Prepare returns the program logger writing to the configured file, and the
// file itself for the caller to close once the logger is no longer used.
func (l Logging) Prepare() (*zap.Logger, io.Closer, error) {
	var level zapcore.Level
	switch l.Level {
	case LevelDebug:
		level = zap.DebugLevel
	case LevelNormal:
		level = zap.InfoLevel
	default:
		return zap.NewNop(), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(l.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	flags := os.O_CREATE | os.O_WRONLY
	if l.Mode == ModeOverwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(l.File, flags, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to access log file (%s): %w", l.File, err)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(f), zap.NewAtomicLevelAt(level))
	return zap.New(core), f, nil
}
