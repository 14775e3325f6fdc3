package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/lysyi3m/wxr-comb/app/tasks"
)

type options struct {
	AssetsDir string `long:"assets-dir" env:"ASSETS_DIR" required:"true" description:"Hierarchical assets directory to read"`
	FlatDir   string `long:"flat-dir" env:"FLAT_DIR" required:"true" description:"Directory receiving the flattened copies"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func main() {
	var opts options

	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	task := tasks.NewFlattenAssetsTask(opts.AssetsDir, opts.FlatDir)
	task.Start()
	if err := task.Execute(ctx); err != nil {
		slog.Error("Flatten failed", "error", err)
		os.Exit(1)
	}
}
