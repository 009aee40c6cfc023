package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/five82/flipbook/internal/app"
	"github.com/five82/flipbook/internal/gesture"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(app.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "flipbook: %v\n", err)
		return 1
	}
	return 0
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:            "flipbook",
		Usage:           "page through a picture book in the terminal",
		HideHelpCommand: true,
		Before:          initializeEnv,
		After:           destroyEnv,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (TOML)"},
			&cli.StringFlag{Name: "prefs", Usage: "read and save UI preferences in `FILE`"},
		},
		Action: readAction,
		Commands: []*cli.Command{
			{
				Name:   "read",
				Usage:  "Open the book in the terminal (default)",
				Action: readAction,
			},
			{
				Name:   "export",
				Usage:  "Render one page turn to PNG frames and/or an animated GIF",
				Action: exportAction,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "from", Usage: "spread `INDEX` to turn from (0 is the cover)"},
					&cli.StringFlag{Name: "direction", Value: "next", Usage: "turn `DIR`ection: next or prev"},
					&cli.IntFlag{Name: "width", Value: 1200, Usage: "frame width in pixels"},
					&cli.IntFlag{Name: "height", Value: 800, Usage: "frame height in pixels"},
					&cli.StringFlag{Name: "out", Usage: "write numbered PNG frames into `DIR`"},
					&cli.StringFlag{Name: "gif", Usage: "write an animated GIF to `FILE`"},
				},
			},
		},
	}
}

// initializeEnv prepares the env after the command line has been parsed.
func initializeEnv(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	env := app.EnvFromContext(ctx)
	if env.Ready() {
		return ctx, nil
	}
	if err := env.Init(app.Options{ConfigPath: cmd.String("config"), PrefsPath: cmd.String("prefs")}); err != nil {
		return ctx, err
	}
	env.Logger.Debug("program started", zap.Strings("args", os.Args))
	return ctx, nil
}

func destroyEnv(ctx context.Context, _ *cli.Command) error {
	env := app.EnvFromContext(ctx)
	env.Logger.Debug("program ended", zap.Duration("elapsed", env.Uptime()))
	if err := env.Close(); err != nil {
		return fmt.Errorf("flush log: %w", err)
	}
	return nil
}

// exitErrHandler records the failure in the log before the env is torn
// down. Printing to stderr is left to run.
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	app.EnvFromContext(ctx).Logger.Error("program ended with error", zap.Error(err))
}

func readAction(ctx context.Context, _ *cli.Command) error {
	return app.Read(ctx, app.EnvFromContext(ctx))
}

func exportAction(ctx context.Context, cmd *cli.Command) error {
	dir, err := parseDirection(cmd.String("direction"))
	if err != nil {
		return err
	}
	res, err := app.Export(ctx, app.EnvFromContext(ctx), app.ExportOptions{
		From:      cmd.Int("from"),
		Direction: dir,
		Width:     cmd.Int("width"),
		Height:    cmd.Int("height"),
		OutDir:    cmd.String("out"),
		GIF:       cmd.String("gif"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("spread %d -> %d: %d frames", res.From, res.To, len(res.Frames))
	if res.GIF != "" {
		fmt.Printf(", gif %s", res.GIF)
	}
	fmt.Println()
	return nil
}

func parseDirection(s string) (gesture.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "next", "forward":
		return gesture.Next, nil
	case "prev", "previous", "back":
		return gesture.Prev, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want next or prev)", s)
	}
}
