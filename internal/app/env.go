package app

import (
	"context"
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/five82/flipbook/internal/asset"
	"github.com/five82/flipbook/internal/book"
	"github.com/five82/flipbook/internal/config"
)

type envKey struct{}

// Env keeps everything a command needs in a single place. It is created
// empty when the program starts and filled by Init once flags are parsed.
type Env struct {
	Config config.Config
	Logger *zap.Logger
	Book   *book.Book
	Store  *asset.Store
	Clock  *asset.Clock
	Loader *asset.Loader

	logFile   io.Closer
	prefsPath string
	start     time.Time
}

func newEnv() *Env {
	return &Env{Logger: zap.NewNop(), start: time.Now()}
}

// ContextWithEnv returns ctx carrying a fresh Env.
func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newEnv())
}

// EnvFromContext returns the Env stored by ContextWithEnv.
func EnvFromContext(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey{}).(*Env); ok {
		return env
	}
	// this should never happen
	panic("env not found in context")
}

// Ready reports whether Init completed.
func (e *Env) Ready() bool {
	return e.Book != nil
}

// Uptime returns the time since the Env was created.
func (e *Env) Uptime() time.Duration {
	return time.Since(e.start)
}

// Close flushes and closes the log. Later calls are no-ops, and the
// logger is silenced once its file is gone.
func (e *Env) Close() error {
	err := e.Logger.Sync()
	if e.logFile != nil {
		err = multierr.Append(err, e.logFile.Close())
		e.logFile = nil
		e.Logger = zap.NewNop()
	}
	return err
}
