package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/synbar/internal/audio"
	"github.com/genricoloni/synbar/internal/chooser"
	"github.com/genricoloni/synbar/internal/command"
	"github.com/genricoloni/synbar/internal/config"
	"github.com/genricoloni/synbar/internal/domain"
	"github.com/genricoloni/synbar/internal/executor"
	"github.com/genricoloni/synbar/internal/fetcher"
	"github.com/genricoloni/synbar/internal/notify"
	"github.com/genricoloni/synbar/internal/palette"
	"github.com/genricoloni/synbar/internal/player"
	"github.com/genricoloni/synbar/internal/state"
	"github.com/genricoloni/synbar/internal/wallpaper"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const logLevelEnv = "SYNBAR_LOG_LEVEL"

// AppOptions wires every status-bar module
var AppOptions = fx.Options(
	// Logger configuration
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),

	// Provide dependencies
	fx.Provide(
		newLogger,
		config.NewAppConfig,
		config.WallpaperSection,
		config.PlayerSection,
		config.AudioSection,

		fx.Annotate(command.NewExecRunner, fx.As(new(domain.Runner))),
		fx.Annotate(executor.NewExecutor, fx.As(new(domain.Executor))),
		fx.Annotate(chooser.NewMenuChooser, fx.As(new(domain.Chooser))),
		fx.Annotate(state.NewFileStore, fx.As(new(domain.StateStore))),
		fx.Annotate(fetcher.NewArtFetcher, fx.As(new(domain.Fetcher))),
		fx.Annotate(palette.NewExtractor, fx.As(new(domain.ColorExtractor))),
		fx.Annotate(notify.NewDesktopNotifier, fx.As(new(domain.Notifier))),

		player.NewSessionDialer,
		wallpaper.NewController,
		player.NewModule,
		audio.NewPactl,
		audio.NewModule,
		newRootCommand,
	),

	// Lifecycle hooks
	fx.Invoke(registerHooks),
)

func main() {
	var (
		root   *cobra.Command
		logger *zap.Logger
	)

	app := fx.New(AppOptions, fx.Populate(&root, &logger))
	if err := app.Err(); err != nil {
		// The bar still expects a line
		fmt.Fprintln(os.Stderr, err)
		fmt.Println()
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		logger.Error("Startup failed", zap.Error(err))
		fmt.Println()
		return
	}

	execute(ctx, logger, root, os.Args[1:])

	if err := app.Stop(context.Background()); err != nil {
		logger.Debug("Shutdown failed", zap.Error(err))
	}
}

// execute runs the command line. Errors become an empty placeholder line so
// the status bar never shows a stack trace.
func execute(ctx context.Context, logger *zap.Logger, root *cobra.Command, args []string) {
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Warn("Command failed", zap.Strings("args", args), zap.Error(err))
		fmt.Fprintln(root.OutOrStdout())
	}
}

// newLogger creates a JSON logger on stderr, quiet unless SYNBAR_LOG_LEVEL says otherwise
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)

	if raw := os.Getenv(logLevelEnv); raw != "" {
		level, err := zap.ParseAtomicLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", logLevelEnv, err)
		}
		cfg.Level = level
	}

	return cfg.Build()
}

// registerHooks sets up application lifecycle hooks
func registerHooks(lc fx.Lifecycle, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Debug("synbar started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Sync on stderr fails with EINVAL on most terminals
			_ = logger.Sync()
			return nil
		},
	})
}
