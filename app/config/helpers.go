package config

import (
	"fmt"
	"regexp"

	"github.com/ncruces/go-strftime"
	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/wxr-comb/app/wxr"
)

func (r *FieldRules) UnmarshalYAML(node *yaml.Node) error {
	pairs, err := orderedPairs(node)
	if err != nil {
		return fmt.Errorf("item_field_filter: %w", err)
	}
	rules := make(FieldRules, 0, len(pairs))
	for _, pair := range pairs {
		rules = append(rules, FieldRule{Field: pair[0], Value: pair[1]})
	}
	*r = rules
	return nil
}

func (r *BodyReplacements) UnmarshalYAML(node *yaml.Node) error {
	pairs, err := orderedPairs(node)
	if err != nil {
		return fmt.Errorf("body_replace: %w", err)
	}
	replacements := make(BodyReplacements, 0, len(pairs))
	for _, pair := range pairs {
		replacements = append(replacements, BodyReplacement{Pattern: pair[0], Replacement: pair[1]})
	}
	*r = replacements
	return nil
}

// orderedPairs reads a mapping of scalars in document order
func orderedPairs(node *yaml.Node) ([][2]string, error) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping at line %d", node.Line)
	}

	pairs := make([][2]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("expected scalar key and value at line %d", key.Line)
		}
		pairs = append(pairs, [2]string{key.Value, value.Value})
	}
	return pairs, nil
}

// DateLayout converts DateFormat into a Go time layout
func (c *Config) DateLayout() (string, error) {
	layout, err := strftime.Layout(c.DateFormat)
	if err != nil {
		return "", fmt.Errorf("invalid date format %q: %w", c.DateFormat, err)
	}
	return layout, nil
}

// ParserOptions compiles the taxonomy filters and body replacements
func (c *Config) ParserOptions() (wxr.Options, error) {
	opts := wxr.Options{
		TaxonomyFilter: make(map[string]bool, len(c.Taxonomies.Filter)),
		EntryFilter:    c.Taxonomies.EntryFilter,
	}

	for _, domain := range c.Taxonomies.Filter {
		opts.TaxonomyFilter[domain] = true
	}

	for _, r := range c.BodyReplace {
		pattern, err := regexp.Compile(r.Pattern)
		if err != nil {
			return wxr.Options{}, fmt.Errorf("invalid body_replace pattern %q: %w", r.Pattern, err)
		}
		opts.BodyReplace = append(opts.BodyReplace, wxr.Replacement{Pattern: pattern, Replacement: r.Replacement})
	}

	return opts, nil
}

// IsTypeFiltered reports whether items of this type are skipped silently
func (c *Config) IsTypeFiltered(itemType wxr.ItemType) bool {
	for _, t := range c.ItemTypeFilter {
		if t == string(itemType) {
			return true
		}
	}
	return false
}
