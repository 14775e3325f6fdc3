package wxr

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed/rss"
)

var ErrNoChannel = errors.New("export has no channel")

const zeroDate = "0000-00-00 00:00:00"

// Replacement is a body substitution applied before any other processing
type Replacement struct {
	Pattern     *regexp.Regexp
	Replacement string
}

type Options struct {
	// TaxonomyFilter lists domains whose terms are dropped
	TaxonomyFilter map[string]bool
	// EntryFilter drops a single value of a domain
	EntryFilter map[string]string
	BodyReplace []Replacement
}

// Parser reads WordPress eXtended RSS exports
type Parser struct {
	rssParser *rss.Parser
	opts      Options
}

func NewParser(opts Options) *Parser {
	return &Parser{
		rssParser: &rss.Parser{},
		opts:      opts,
	}
}

func (p *Parser) ParseFile(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export %s: %w", path, err)
	}

	export, err := p.Run(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse export %s: %w", path, err)
	}

	return export, nil
}

func (p *Parser) Run(data []byte) (*Export, error) {
	feed, err := p.rssParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	if feed == nil {
		return nil, ErrNoChannel
	}

	export := &Export{
		Header: Header{
			Title:       strings.TrimSpace(feed.Title),
			Link:        strings.TrimSpace(feed.Link),
			Description: strings.TrimSpace(feed.Description),
		},
		Items: make([]Item, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		export.Items = append(export.Items, p.normalizeItem(item))
	}

	slog.Debug("Export parsed", "title", export.Header.Title, "items", len(export.Items))
	return export, nil
}

func (p *Parser) normalizeItem(item *rss.Item) Item {
	exts := item.Extensions

	body := lookupOr(exts, pathBody, item.Content)
	for _, r := range p.opts.BodyReplace {
		body = r.Pattern.ReplaceAllString(body, r.Replacement)
	}

	normalized := Item{
		Title:         strings.TrimSpace(item.Title),
		Link:          strings.TrimSpace(item.Link),
		Author:        lookupOr(exts, pathCreator, ""),
		Date:          p.itemDate(item),
		Description:   strings.TrimSpace(item.Description),
		Slug:          lookupOr(exts, pathSlug, ""),
		Status:        lookupOr(exts, pathStatus, ""),
		Type:          ItemType(lookupOr(exts, pathType, "")),
		ID:            lookupOr(exts, pathID, ""),
		ParentID:      lookupOr(exts, pathParent, RootParentID),
		AllowComments: lookupOr(exts, pathCommentMode, "") == "open",
		Taxonomies:    p.taxonomies(item.Categories),
		Body:          body,
		Excerpt:       lookupOr(exts, pathExcerpt, ""),
	}

	sources, err := ExtractImageSources(body)
	if err != nil {
		slog.Warn("Could not parse item HTML, ignoring images", "title", normalized.Title, "error", err)
	} else {
		normalized.ImageSources = sources
	}

	return normalized
}

func (p *Parser) itemDate(item *rss.Item) string {
	if date, ok := lookup(item.Extensions, pathDateGMT); ok && date != "" && date != zeroDate {
		return date
	}
	return lookupOr(item.Extensions, pathDateLocal, "")
}

func (p *Parser) taxonomies(categories []*rss.Category) Taxonomies {
	var taxonomies Taxonomies
	for _, category := range categories {
		if category == nil || category.Domain == "" {
			continue
		}
		value := strings.TrimSpace(category.Value)
		if p.keepTerm(category.Domain, value) {
			taxonomies.Add(category.Domain, value)
		}
	}
	return taxonomies
}

// keepTerm reports whether a (domain, value) pair survives the taxonomy
// filters: the domain must not be filtered and the pair must not match the
// domain's entry filter.
func (p *Parser) keepTerm(domain, value string) bool {
	if p.opts.TaxonomyFilter[domain] {
		return false
	}
	if excluded, ok := p.opts.EntryFilter[domain]; ok && excluded == value {
		return false
	}
	return true
}
