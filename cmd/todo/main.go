package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/notify"
	"github.com/sandeepkv93/todo/internal/scheduler"
	"github.com/sandeepkv93/todo/internal/storage"
	"github.com/sandeepkv93/todo/internal/update"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", config.ResolveConfigPath(), "path to config.toml")
	dbPath := flag.String("db", "", "task store path (overrides db_path)")
	daemon := flag.Bool("daemon", false, "run the reminder notification loop instead of the task list")
	flag.Parse()

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "todo",
	})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", "log_level", cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.OpenSQLite(ctx, cfg.DBDriver, cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open task store: %v\n", err)
		return 1
	}
	defer store.Close()

	if *daemon {
		return runDaemon(ctx, store, cfg, logger)
	}

	program := tea.NewProgram(
		update.NewModel(update.Options{Store: store, Config: cfg, Context: ctx}),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "todo failed: %v\n", err)
		return 1
	}
	return 0
}

func runDaemon(ctx context.Context, store *storage.SQLiteRepository, cfg config.Config, logger *log.Logger) int {
	var notifier notify.Notifier = notify.NoopNotifier{}
	if cfg.DesktopNotifications {
		notifier = notify.ExecNotifier{Command: cfg.NotifyCommand}
	}
	loop := scheduler.NewLoop(store, notifier,
		scheduler.WithInterval(cfg.PollInterval.Std()),
		scheduler.WithTitle(cfg.NotifyTitle),
		scheduler.WithNotifyTimeout(cfg.NotifyTimeout.Std()),
		scheduler.WithLogger(logger),
	)
	logger.Info("daemon started", "db", cfg.DBPath, "driver", cfg.DBDriver, "desktop_notifications", cfg.DesktopNotifications)
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("daemon stopped", "err", err)
		return 1
	}
	return 0
}
