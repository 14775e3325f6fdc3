package assets

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lysyi3m/wxr-comb/app/wxr"
)

const DirName = "assets"

type scopeFiles struct {
	bySource map[string]string
	taken    map[string]bool
}

// Relocator assigns local file names to images referenced by items,
// downloads them and rewrites item bodies. One instance covers one export.
type Relocator struct {
	blogDir         string
	baseURL         *url.URL
	hierarchical    bool
	replaceExisting bool
	download        bool
	fetcher         Fetcher
	scopes          map[string]*scopeFiles
}

type Options struct {
	Download        bool
	Hierarchical    bool
	ReplaceExisting bool
}

func NewRelocator(blogDir, blogLink string, fetcher Fetcher, opts Options) *Relocator {
	base, err := url.Parse(blogLink)
	if err != nil {
		slog.Warn("Invalid blog link, image URLs will not be resolved", "link", blogLink, "error", err)
		base = nil
	}

	return &Relocator{
		blogDir:         blogDir,
		baseURL:         base,
		hierarchical:    opts.Hierarchical,
		replaceExisting: opts.ReplaceExisting,
		download:        opts.Download,
		fetcher:         fetcher,
		scopes:          make(map[string]*scopeFiles),
	}
}

// FileName returns the local name for src within scope. Repeated sources
// reuse their name; clashing names get a -N suffix before the extension.
func (r *Relocator) FileName(src, scope string) string {
	files, ok := r.scopes[scope]
	if !ok {
		files = &scopeFiles{
			bySource: make(map[string]string),
			taken:    make(map[string]bool),
		}
		r.scopes[scope] = files
	}

	if name, ok := files.bySource[src]; ok {
		return name
	}

	root, ext := splitName(src)
	name := root + ext
	for n := 1; files.taken[name]; n++ {
		name = root + "-" + strconv.Itoa(n) + ext
	}

	files.bySource[src] = name
	files.taken[name] = true
	return name
}

// TargetPath returns the on-disk location for src and creates its directory
func (r *Relocator) TargetPath(src, scope string) (string, error) {
	name := r.FileName(src, scope)

	var dir, file string
	if r.hierarchical {
		dir = filepath.Join(r.blogDir, DirName, scope)
		file = filepath.Join(dir, name)
	} else {
		dir = filepath.Join(r.blogDir, DirName)
		file = filepath.Join(dir, scope+"_"+name)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return file, nil
}

// RelativePath returns target relative to the blog directory, slash
// separated with a leading slash
func (r *Relocator) RelativePath(target string) string {
	rel, err := filepath.Rel(r.blogDir, target)
	if err != nil {
		rel = strings.TrimPrefix(target, r.blogDir)
	}
	return "/" + strings.TrimPrefix(filepath.ToSlash(rel), "/")
}

// ResolveURL resolves src against the blog link
func (r *Relocator) ResolveURL(src string) string {
	if r.baseURL == nil {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return r.baseURL.ResolveReference(ref).String()
}

// Run relocates the images of item under scope and returns the featured
// image reference. Without downloads the featured image is the absolute URL
// of the first image. A failed download is returned as an error.
func (r *Relocator) Run(ctx context.Context, item *wxr.Item, scope string) (string, error) {
	if len(item.ImageSources) == 0 {
		return "", nil
	}

	featured := r.ResolveURL(item.ImageSources[0])
	if !r.download {
		return featured, nil
	}

	seen := make(map[string]bool, len(item.ImageSources))
	for i, src := range item.ImageSources {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fullURL := r.ResolveURL(src)
		target, err := r.TargetPath(src, scope)
		if err != nil {
			return "", err
		}
		relPath := r.RelativePath(target)

		if !seen[src] {
			seen[src] = true
			if err := r.fetch(ctx, fullURL, target); err != nil {
				return "", err
			}
		}

		item.Body = replaceReference(item.Body, src, fullURL, relPath)
		if i == 0 {
			featured = relPath
		}
	}

	return featured, nil
}

func (r *Relocator) fetch(ctx context.Context, fullURL, target string) error {
	if _, err := os.Stat(target); err == nil {
		if !r.replaceExisting {
			slog.Debug("Skip existing image", "path", target)
			return nil
		}
		slog.Debug("Replacing image", "path", target)
	}

	downloadURL := DownloadURL(fullURL)
	slog.Debug("Downloading image", "url", downloadURL, "path", target)

	if err := r.fetcher.Fetch(ctx, downloadURL, target); err != nil {
		return fmt.Errorf("failed to download %s: %w", downloadURL, err)
	}
	return nil
}

// replaceReference points body references to src at relPath. The absolute
// URL is replaced everywhere; a differing original src only inside quoted
// attribute values.
func replaceReference(body, src, fullURL, relPath string) string {
	body = strings.ReplaceAll(body, fullURL, relPath)
	if src != fullURL {
		body = strings.ReplaceAll(body, `"`+src+`"`, `"`+relPath+`"`)
		body = strings.ReplaceAll(body, `'`+src+`'`, `'`+relPath+`'`)
	}
	return body
}

// splitName returns the base name of the URL path split into root and
// extension. An empty root becomes "1".
func splitName(src string) (string, string) {
	p := src
	if u, err := url.Parse(src); err == nil {
		p = u.Path
	}

	name := ""
	if p != "" && !strings.HasSuffix(p, "/") {
		name = path.Base(p)
	}

	ext := path.Ext(name)
	root := strings.TrimSuffix(name, ext)
	if root == "" {
		root = "1"
	}
	return root, ext
}
