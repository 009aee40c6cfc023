package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/flipbook/internal/asset"
	"github.com/five82/flipbook/internal/book"
	"github.com/five82/flipbook/internal/config"
	"github.com/five82/flipbook/internal/export"
	"github.com/five82/flipbook/internal/gesture"
	"github.com/five82/flipbook/internal/media"
	"github.com/five82/flipbook/internal/ui"
)

// Options configure the flipbook application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/flipbook/prefs.toml
}

// Init loads the config, opens the log and builds the book and asset
// pipeline. Nothing is loaded until a command starts it.
func (e *Env) Init(opts Options) (err error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logFile, err := cfg.Logging.Prepare()
	if err != nil {
		return fmt.Errorf("prepare log: %w", err)
	}
	defer func() {
		if err != nil {
			_ = logFile.Close()
		}
	}()

	b, err := book.Build(cfg.TotalPages, cfg.Overrides())
	if err != nil {
		return err
	}

	src, err := asset.NewSource(cfg.Assets)
	if err != nil {
		return fmt.Errorf("init asset source: %w", err)
	}

	store := asset.NewStore()
	loader, err := asset.NewLoader(asset.LoaderOptions{
		Source:      src,
		Store:       store,
		PagePattern: cfg.PagePattern,
		MaxDim:      cfg.MaxDimension,
		Workers:     cfg.Workers,
		Logger:      logger.Named("asset"),
	})
	if err != nil {
		return fmt.Errorf("init asset loader: %w", err)
	}

	logger.Info("flipbook starting",
		zap.Int("pages", cfg.TotalPages),
		zap.Int("spreads", b.Len()),
		zap.Strings("videos", b.VideoKeys()),
		zap.Stringer("assets", src),
	)

	e.Config = cfg
	e.Logger = logger
	e.logFile = logFile
	e.Book = b
	e.Store = store
	e.Clock = asset.NewClock(store)
	e.Loader = loader
	e.prefsPath = opts.PrefsPath
	return nil
}

// Read runs the interactive reader until the user quits or ctx is cancelled.
func Read(ctx context.Context, env *Env) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	StartAssets(ctx, env)

	userPrefs, err := config.LoadPrefs(env.prefsPath)
	if err != nil {
		env.Logger.Warn("load prefs failed", zap.Error(err))
	}

	player := media.NewController(env.Book, env.Clock, env.Logger.Named("media"))
	logPath := ""
	if env.Config.Logging.Level != config.LevelNone {
		logPath = env.Config.Logging.File
	}

	return ui.Run(ui.Options{
		Context:        ctx,
		Book:           env.Book,
		Store:          env.Store,
		TurnThreshold:  env.Config.TurnThreshold,
		OnSpreadChange: player.OnSpreadChange,
		FPS:            env.Config.FPS,
		ThemeName:      userPrefs.Theme,
		PrefsPath:      env.prefsPath,
		LogPath:        logPath,
		Logger:         env.Logger.Named("viewer"),
	})
}

// ExportOptions select the turn to export.
type ExportOptions struct {
	From      int
	Direction gesture.Direction
	Width     int
	Height    int
	OutDir    string
	GIF       string
}

// Export loads every asset, then writes one turn to disk. Video spreads show
// their first frame.
func Export(ctx context.Context, env *Env, opts ExportOptions) (export.Result, error) {
	if err := env.Loader.Load(ctx, env.Config.TotalPages, env.Config.VideoSources(), nil); err != nil {
		return export.Result{}, fmt.Errorf("load assets: %w", err)
	}
	stats := env.Store.Stats(env.Config.TotalPages)
	if stats.Failed > 0 {
		env.Logger.Warn("exporting with missing pages", zap.Int("missing", stats.Failed))
	}
	return export.Run(ctx, export.Options{
		Book:      env.Book,
		Provider:  env.Store,
		From:      opts.From,
		Direction: opts.Direction,
		Width:     opts.Width,
		Height:    opts.Height,
		OutDir:    opts.OutDir,
		GIF:       opts.GIF,
		FPS:       env.Config.FPS,
		Logger:    env.Logger.Named("export"),
	})
}
