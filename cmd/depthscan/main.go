package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"DepthScan/internal/collector"
	"DepthScan/internal/config"
	"DepthScan/internal/logger"
	"DepthScan/internal/notifier"
	"DepthScan/internal/recorder"
	"DepthScan/internal/report"
	"DepthScan/internal/scan"
	"DepthScan/internal/scheduler"
	"DepthScan/internal/strategy"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	only       = flag.String("only", "", "Comma-separated analyses to run (default: all)")
	list       = flag.Bool("list", false, "List the available analyses and exit")
	daemon     = flag.Bool("daemon", false, "Stay running and scan on the configured cron schedule")
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load() // best-effort: .env is optional
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("load config: %v", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("invalid configuration: %v", err)
		return 1
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Printf("init logger: %v", err)
		return 1
	}
	defer func() { _ = zl.Sync() }()

	engine := strategy.NewEngine(strategy.Params{
		DepthLevels:    cfg.Scan.DepthLevels,
		WallMultiplier: cfg.Scan.WallMultiplier,
		Institutions:   cfg.Scan.Institutions,
	}, zl)

	if *list {
		for _, a := range engine.Analyses() {
			fmt.Printf("%-20s %s\n", a.Name, a.Title)
		}
		return 0
	}

	names := cfg.Scan.Analyses
	if *only != "" {
		names = strategy.SplitNames(*only)
	}
	if _, err := engine.Select(names); err != nil {
		zl.Error("invalid analysis selection", zap.Error(err))
		return 1
	}

	rec := openRecorder(cfg.Recorder, zl)
	defer func() {
		if err := rec.Close(); err != nil {
			zl.Error("close recorder", zap.Error(err))
		}
	}()

	var tn *notifier.TelegramNotifier
	var sender scan.Sender
	if cfg.Telegram.Enabled {
		tn, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, zl)
		if err != nil {
			zl.Error("telegram disabled", zap.Error(err))
		} else {
			sender = tn
		}
	}

	runner := scan.NewRunner(scan.Options{
		Engine:     engine,
		Source:     source(cfg.Paths),
		Files:      cfg.Files.Map(),
		Writer:     report.NewWriter(cfg.Paths.OutputDir, zl),
		Console:    os.Stdout,
		Recorder:   rec,
		Sender:     sender,
		TopK:       cfg.Telegram.TopK,
		MaxRetries: cfg.Telegram.MaxRetries,
		Manifest:   cfg.Scan.Manifest,
		Log:        zl,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !*daemon {
		result, err := runner.Run(ctx, names)
		if err != nil {
			zl.Error("scan failed", zap.Error(err))
			return 1
		}
		if result.Failed() > 0 {
			return 1
		}
		return 0
	}

	job := func() {
		if _, err := runner.Run(ctx, names); err != nil {
			zl.Error("scheduled scan failed", zap.Error(err))
		}
	}
	sched := scheduler.NewScheduler(job, zl)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		zl.Error("register cron task", zap.Error(err))
		return 1
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, commands(sched, rec))
		zl.Info("telegram polling started")
	}
	if cfg.Schedule.RunOnStart {
		zl.Info("run_on_start enabled, scanning now")
		go sched.RunNow()
	}

	zl.Info("depthscan is running, press Ctrl+C to stop", zap.Time("next_run", sched.Next()))
	<-ctx.Done()
	zl.Info("shutdown signal received, stopping")
	return 0
}

func source(p config.PathsConfig) collector.Source {
	if p.InputURL != "" {
		return collector.NewHTTPSource(p.InputURL, p.APIKey, p.Proxy)
	}
	return collector.NewDirSource(p.InputDir)
}

// openRecorder falls back to the no-op recorder when the database is unavailable.
func openRecorder(cfg config.RecorderConfig, zl *zap.Logger) recorder.Recorder {
	switch cfg.Driver {
	case "sqlite":
		r, err := recorder.NewSQLiteRecorder(cfg.SQLitePath, zl)
		if err != nil {
			zl.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			return recorder.NewNoopRecorder()
		}
		return r
	case "postgres":
		r, err := recorder.NewPostgresRecorder(cfg.Postgres, zl)
		if err != nil {
			zl.Warn("init postgres recorder failed, using noop", zap.Error(err))
			return recorder.NewNoopRecorder()
		}
		return r
	default:
		return recorder.NewNoopRecorder()
	}
}

// commands answers bot commands in daemon mode.
func commands(sched *scheduler.Scheduler, rec recorder.Recorder) notifier.CommandHandler {
	return func(command string) string {
		switch command {
		case "run":
			go sched.RunNow()
			return "Scan started."
		case "last":
			history, ok := rec.(interface {
				RecentRuns(limit int) ([]recorder.RunSummary, error)
			})
			if !ok {
				return "Run history is not stored with this recorder."
			}
			runs, err := history.RecentRuns(5)
			if err != nil {
				return fmt.Sprintf("Could not read run history: %v", err)
			}
			return notifier.FormatRecentRuns(runs)
		default:
			return notifier.FormatHelp()
		}
	}
}
