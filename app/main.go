package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/lysyi3m/wxr-comb/app/assets"
	"github.com/lysyi3m/wxr-comb/app/cfg"
	"github.com/lysyi3m/wxr-comb/app/config"
	"github.com/lysyi3m/wxr-comb/app/tasks"
	"github.com/lysyi3m/wxr-comb/app/wxr"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	setupLogger(appCfg.Debug)

	if err := run(appCfg); err != nil {
		slog.Error("Conversion failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func run(appCfg *cfg.Cfg) error {
	slog.Info("Starting WXR Comb", "version", appCfg.Version, "config", appCfg.ConfigFile)

	conv, err := config.NewLoader(appCfg.ConfigFile).Load()
	if err != nil {
		return err
	}
	if err := appCfg.Apply(conv); err != nil {
		return err
	}

	opts, err := conv.ParserOptions()
	if err != nil {
		return err
	}

	exports, err := filepath.Glob(filepath.Join(conv.WPExports, "*.xml"))
	if err != nil {
		return fmt.Errorf("failed to list exports in %s: %w", conv.WPExports, err)
	}
	sort.Strings(exports)

	if len(exports) == 0 {
		slog.Warn("No exports found", "dir", conv.WPExports)
		return nil
	}

	parser := wxr.NewParser(opts)
	httpClient := &http.Client{}
	downloader := assets.NewDownloader(httpClient, appCfg.UserAgent, time.Duration(appCfg.HTTPTimeout)*time.Second)

	runner := tasks.NewRunner()
	for _, path := range exports {
		runner.Enqueue(tasks.NewConvertExportTask(path, conv, parser, downloader))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Converting exports",
		"count", runner.Len(),
		"build_dir", conv.BuildDir,
		"format", conv.TargetFormat,
		"download_images", conv.DownloadImages)

	failed, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	slog.Info("Conversion finished", "exports", runner.Len(), "failed", failed)
	return nil
}
