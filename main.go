// Command launch-notifier sends a push notification when a SpaceX launch is
// less than an hour away, once per launch.
//
// Usage:
//
//	launch-notifier            # one pass, for cron or systemd timers
//	launch-notifier run
//	launch-notifier watch      # run on SCHEDULE until interrupted
//	launch-notifier notified   # print ids already notified
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"launch-notifier/config"
	"launch-notifier/launches"
	"launch-notifier/notify"
	"launch-notifier/pipeline"
	"launch-notifier/store"
)

func main() {
	_ = godotenv.Load(".env")

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "launch-notifier",
		Short:        "Push a notification for SpaceX launches lifting off within the hour",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), configFile)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./config.yaml if present)")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Check upcoming launches once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), configFile)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Check upcoming launches on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return watch(cmd.Context(), configFile)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "notified",
		Short: "Print the ids of launches already notified",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listNotified(cmd.Context(), cmd, configFile)
		},
	})
	return root
}

type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	store    store.Store
}

func newApp(ctx context.Context, configFile string) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("can't open store", slog.String("driver", cfg.StoreDriver), slog.String("error", err.Error()))
		return nil, err
	}
	notifier, err := notify.New(cfg, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	source := launches.NewClient(cfg.LaunchesURL, cfg.HTTPTimeout, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		pipeline: pipeline.New(source, notifier, st, logger),
		store:    st,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("can't close store", slog.String("error", err.Error()))
	}
}

func runOnce(ctx context.Context, configFile string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configFile)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.pipeline.Run(ctx); err != nil {
		a.logger.Error("run failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func watch(ctx context.Context, configFile string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configFile)
	if err != nil {
		return err
	}
	defer a.Close()

	cl := cronLogger{a.logger}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	if _, err := c.AddFunc(a.cfg.Schedule, func() {
		if _, err := a.pipeline.Run(ctx); err != nil {
			a.logger.Error("run failed", slog.String("error", err.Error()))
		}
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", a.cfg.Schedule, err)
	}

	a.logger.Info("watching launches", slog.String("schedule", a.cfg.Schedule))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	a.logger.Info("shutdown complete")
	return nil
}

func listNotified(ctx context.Context, cmd *cobra.Command, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.LogLevel)

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	set, err := st.Load(ctx)
	if err != nil {
		return err
	}
	for _, id := range set {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// setupLogger installs a tint handler as the default logger. Source locations
// are only attached at debug level.
func setupLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	if err := slogLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		log.Printf("unknown log level %q, falling back to debug", level)
		slogLevel = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(slogLevel)

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		AddSource: slogLevel <= slog.LevelDebug,
		Level:     slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if source, ok := a.Value.Any().(*slog.Source); ok && a.Key == slog.SourceKey {
				source.File = filepath.Base(source.File)
			}
			return a
		},
		TimeFormat: time.DateTime,
	}))

	slog.SetDefault(logger)
	logger.Debug("debug messages are enabled")

	return logger
}
