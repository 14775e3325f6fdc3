package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/lysyi3m/wxr-comb/app/assets"
	"github.com/lysyi3m/wxr-comb/app/config"
	"github.com/lysyi3m/wxr-comb/app/content"
	"github.com/lysyi3m/wxr-comb/app/wxr"
)

// ErrExportUnreadable marks an export that could not be parsed. The run
// moves on to the next export.
var ErrExportUnreadable = errors.New("export unreadable")

type convertStats struct {
	posts       int
	pages       int
	skipped     int
	filtered    int
	unknownType int
	failed      int
}

type ConvertExportTask struct {
	Task
	Path    string
	config  *config.Config
	parser  *wxr.Parser
	fetcher assets.Fetcher
	infix   string
}

func NewConvertExportTask(path string, conf *config.Config, parser *wxr.Parser, fetcher assets.Fetcher) *ConvertExportTask {
	return &ConvertExportTask{
		Task:    NewTask(TaskTypeConvertExport, filepath.Base(path)),
		Path:    path,
		config:  conf,
		parser:  parser,
		fetcher: fetcher,
		infix:   content.DefaultInfix,
	}
}

// convertRun holds the per-export state shared by all items
type convertRun struct {
	index      content.ItemIndex
	identities *content.Identities
	paths      *content.Paths
	relocator  *assets.Relocator
	renderer   *content.Renderer
	filterer   *content.Filterer
}

func (t *ConvertExportTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	slog.Info("Reading export", "file", t.Path)

	export, err := t.parser.ParseFile(t.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExportUnreadable, err)
	}

	run, err := t.prepare(export)
	if err != nil {
		return err
	}

	var stats convertStats
	for i := range export.Items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.convertItem(ctx, run, &export.Items[i], &stats); err != nil {
			return err
		}
	}

	slog.Info("Task completed",
		"type", "ConvertedExport",
		"file", t.Name,
		"blog", export.Header.Title,
		"dir", run.paths.BlogDir(),
		"duration", t.GetDuration(),
		"total", len(export.Items),
		"posts", stats.posts,
		"pages", stats.pages,
		"skipped", stats.skipped,
		"filtered", stats.filtered,
		"unknown_type", stats.unknownType,
		"failed", stats.failed)

	return nil
}

func (t *ConvertExportTask) prepare(export *wxr.Export) (*convertRun, error) {
	layout, err := t.config.DateLayout()
	if err != nil {
		return nil, err
	}

	blogDir := content.BlogDir(t.config.BuildDir, t.infix, export.Header.Link)

	relocator := assets.NewRelocator(blogDir, export.Header.Link, t.fetcher, assets.Options{
		Download:        t.config.DownloadImages,
		Hierarchical:    t.config.UseHierarchicalFolders,
		ReplaceExisting: t.config.ReplaceExisting,
	})

	return &convertRun{
		index:      content.NewItemIndex(export.Items),
		identities: content.NewIdentities(layout),
		paths:      content.NewPaths(blogDir, string(t.config.TargetFormat)),
		relocator:  relocator,
		renderer:   content.NewRenderer(t.config.Taxonomies.NameMapping, content.NewConverter(t.config.TargetFormat)),
		filterer:   content.NewFilterer(t.config.ItemFieldFilter),
	}, nil
}

// convertItem writes a single item. Only fatal errors are returned;
// per-item problems are logged and counted.
func (t *ConvertExportTask) convertItem(ctx context.Context, run *convertRun, item *wxr.Item, stats *convertStats) error {
	if t.config.IsTypeFiltered(item.Type) {
		stats.skipped++
		return nil
	}

	if skip, reason := run.filterer.Skip(item); skip {
		slog.Debug("Item filtered", "title", item.Title, "reason", reason)
		stats.filtered++
		return nil
	}

	var (
		uid        string
		template   string
		parentPath string
	)

	switch item.Type {
	case wxr.TypePost:
		uid = run.identities.UID(item, content.NamespacePosts, true)
		template = content.TemplatePost
	case wxr.TypePage:
		parentPath = content.ParentPath(item, run.index, run.identities)
		uid = run.identities.UID(item, content.NamespacePages, false)
		template = content.TemplatePage
	default:
		slog.Warn("Unknown item type, skipping", "title", item.Title, "type", string(item.Type))
		stats.unknownType++
		return nil
	}

	featured, err := run.relocator.Run(ctx, item, uid)
	if err != nil {
		return fmt.Errorf("failed to relocate images of %q: %w", item.Title, err)
	}

	data, err := run.renderer.Run(content.Document{
		Item:          item,
		Template:      template,
		FeaturedImage: featured,
	})
	if err != nil {
		slog.Warn("Failed to convert item, skipping", "title", item.Title, "error", err)
		stats.failed++
		return nil
	}

	var path string
	if item.Type == wxr.TypePost {
		path, err = run.paths.PostPath(uid)
	} else {
		path, err = run.paths.PagePath(parentPath, uid)
	}
	if err != nil {
		return err
	}

	if err := content.WriteDocument(path, data); err != nil {
		return err
	}

	slog.Debug("Item written", "title", item.Title, "path", path)
	if item.Type == wxr.TypePost {
		stats.posts++
	} else {
		stats.pages++
	}
	return nil
}
