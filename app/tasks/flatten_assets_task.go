package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/wxr-comb/app/assets"
)

type FlattenAssetsTask struct {
	Task
	AssetsDir string
	FlatDir   string
}

func NewFlattenAssetsTask(assetsDir, flatDir string) *FlattenAssetsTask {
	return &FlattenAssetsTask{
		Task:      NewTask(TaskTypeFlattenAssets, assetsDir),
		AssetsDir: assetsDir,
		FlatDir:   flatDir,
	}
}

func (t *FlattenAssetsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	copied, err := assets.Flatten(t.AssetsDir, t.FlatDir)
	if err != nil {
		return fmt.Errorf("failed to flatten assets: %w", err)
	}

	slog.Info("Task completed",
		"type", "FlattenedAssets",
		"from", t.AssetsDir,
		"to", t.FlatDir,
		"duration", t.GetDuration(),
		"copied", copied)

	return nil
}
