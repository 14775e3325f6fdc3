package content

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/lysyi3m/wxr-comb/app/wxr"
)

const (
	DefaultInfix = "gatsby"
	PostsDir     = "_posts"
	pageIndex    = "index"
)

var (
	linkScheme      = regexp.MustCompile(`^https?`)
	unsafeLinkChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
)

// BlogDir returns <buildDir>/<infix>/<link without scheme or unsafe chars>
func BlogDir(buildDir, infix, link string) string {
	name := linkScheme.ReplaceAllString(link, "")
	name = unsafeLinkChars.ReplaceAllString(name, "")
	return filepath.Join(buildDir, infix, name)
}

// ItemIndex looks items up by their WordPress ID
type ItemIndex map[string]*wxr.Item

func NewItemIndex(items []wxr.Item) ItemIndex {
	index := make(ItemIndex, len(items))
	for i := range items {
		if items[i].ID == "" {
			continue
		}
		if _, exists := index[items[i].ID]; !exists {
			index[items[i].ID] = &items[i]
		}
	}
	return index
}

// ParentPath walks the parent chain of a page and returns the slash
// separated UIDs of its ancestors, outermost first, with a trailing slash.
// The walk stops at a missing parent or a cycle.
func ParentPath(item *wxr.Item, index ItemIndex, identities *Identities) string {
	prefix := ""
	visited := map[string]bool{item.ID: true}

	current := item
	for current.HasParent() {
		parent, ok := index[current.ParentID]
		if !ok {
			slog.Debug("Parent not found, stopping walk", "item", item.Title, "parent_id", current.ParentID)
			break
		}
		if visited[parent.ID] {
			slog.Warn("Parent cycle detected, stopping walk", "item", item.Title, "parent_id", parent.ID)
			break
		}
		visited[parent.ID] = true

		prefix = identities.UID(parent, NamespacePages, false) + "/" + prefix
		current = parent
	}

	return prefix
}

// Paths computes output file locations inside one blog directory
type Paths struct {
	blogDir string
	ext     string
}

func NewPaths(blogDir, ext string) *Paths {
	return &Paths{blogDir: blogDir, ext: ext}
}

func (p *Paths) BlogDir() string {
	return p.blogDir
}

// Dir returns blogDir/rel, creating it when missing
func (p *Paths) Dir(rel string) (string, error) {
	dir := filepath.Join(p.blogDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

// PostPath returns <blog>/_posts/<uid>.<ext>
func (p *Paths) PostPath(uid string) (string, error) {
	dir, err := p.Dir(PostsDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, uid+"."+p.ext), nil
}

// PagePath returns <blog>/<parentPath><uid>/index.<ext>
func (p *Paths) PagePath(parentPath, uid string) (string, error) {
	dir, err := p.Dir(parentPath + uid)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, pageIndex+"."+p.ext), nil
}
