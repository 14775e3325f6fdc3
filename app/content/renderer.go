package content

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/wxr-comb/app/wxr"
)

const (
	TemplatePost = "blog-post"
	TemplatePage = "page"

	itemDateLayout        = "2006-01-02 15:04:05"
	frontMatterDateLayout = "2006-01-02T15:04:05-07:00"
	frontMatterDelimiter  = "---\n"
)

// Document is an item ready to be rendered
type Document struct {
	Item          *wxr.Item
	Template      string
	FeaturedImage string
}

// Renderer serializes front matter and converts the body of a document
type Renderer struct {
	nameMapping map[string]string
	converter   *Converter
	now         func() time.Time
}

func NewRenderer(nameMapping map[string]string, converter *Converter) *Renderer {
	return &Renderer{
		nameMapping: nameMapping,
		converter:   converter,
		now:         time.Now,
	}
}

// Run renders the whole file. A body conversion error is returned as is so
// callers can skip the item.
func (r *Renderer) Run(doc Document) ([]byte, error) {
	body, err := r.converter.Run(doc.Item.Body)
	if err != nil {
		return nil, err
	}

	header, err := r.FrontMatter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render front matter: %w", err)
	}

	taxonomies, err := r.Taxonomies(doc.Item)
	if err != nil {
		return nil, fmt.Errorf("failed to render taxonomies: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterDelimiter)
	buf.Write(header)
	buf.Write(taxonomies)
	buf.WriteString(frontMatterDelimiter)
	buf.WriteString("\n")
	buf.WriteString(body)

	return buf.Bytes(), nil
}

// FrontMatter renders the metadata block without delimiters
func (r *Renderer) FrontMatter(doc Document) ([]byte, error) {
	item := doc.Item

	fields := map[string]*yaml.Node{
		"title":         strNode(item.Title),
		"date":          timestampNode(r.itemDate(item)),
		"description":   strNode(item.Description),
		"slug":          strNode("/" + item.Slug),
		"template":      strNode(doc.Template),
		"featuredImage": strNode(doc.FeaturedImage),
	}
	if item.Excerpt != "" {
		fields["excerpt"] = strNode(item.Excerpt)
	}
	if item.Status != wxr.StatusPublish {
		fields["published"] = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "false"}
	}

	return encodeMapping(fields)
}

// Taxonomies renders the renamed taxonomy groups, or nothing when the item
// has none
func (r *Renderer) Taxonomies(item *wxr.Item) ([]byte, error) {
	groups := GroupTaxonomies(item.Taxonomies, r.nameMapping)
	if len(groups) == 0 {
		return nil, nil
	}

	fields := make(map[string]*yaml.Node, len(groups))
	for name, values := range groups {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, v := range values {
			seq.Content = append(seq.Content, strNode(v))
		}
		fields[name] = seq
	}

	return encodeMapping(fields)
}

// GroupTaxonomies applies the rename table and drops values already present
// in the renamed group
func GroupTaxonomies(taxonomies wxr.Taxonomies, nameMapping map[string]string) map[string][]string {
	groups := make(map[string][]string)
	for _, domain := range taxonomies.Domains() {
		name := domain
		if mapped, ok := nameMapping[domain]; ok {
			name = mapped
		}

		for _, value := range taxonomies.Values(domain) {
			if !slices.Contains(groups[name], value) {
				groups[name] = append(groups[name], value)
			}
		}
	}
	return groups
}

func (r *Renderer) itemDate(item *wxr.Item) time.Time {
	parsed := ParseDate(itemDateLayout, item.Date)
	if !parsed.OK {
		slog.Warn("Wrong date in item, using now", "title", item.Title, "date", item.Date)
		return r.now().UTC().Truncate(time.Second)
	}
	return parsed.Time.UTC()
}

func encodeMapping(fields map[string]*yaml.Node) ([]byte, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		node.Content = append(node.Content, strNode(k), fields[k])
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func strNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func timestampNode(t time.Time) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: t.Format(frontMatterDateLayout)}
}

