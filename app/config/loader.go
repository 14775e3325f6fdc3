package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/ncruces/go-strftime"
	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/wxr-comb/app/wxr"
)

var ErrUnknownFormat = errors.New("unknown target format")

// Loader handles loading and validation of the conversion config
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the config file. A missing file yields the defaults.
func (l *Loader) Load() (*Config, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("Config file not found, using defaults", "path", l.path)
		data = nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", l.path, err)
	}

	slog.Debug("Configuration loaded", "path", l.path, "format", config.TargetFormat)
	return config, nil
}

// Parse decodes YAML config data, applies defaults and validates the result
func Parse(data []byte) (*Config, error) {
	config := &Config{
		UseHierarchicalFolders: true,
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	setDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func setDefaults(config *Config) {
	if config.WPExports == "" {
		config.WPExports = "wordpress-xml"
	}
	if config.BuildDir == "" {
		config.BuildDir = "build"
	}
	if config.TargetFormat == "" {
		config.TargetFormat = FormatMarkdown
	}
	if config.DateFormat == "" {
		config.DateFormat = "%Y-%m-%d %H:%M:%S"
	}
	if config.ItemTypeFilter == nil {
		config.ItemTypeFilter = []string{"attachment", "nav_menu_item"}
	}
	if config.Taxonomies.EntryFilter == nil {
		config.Taxonomies.EntryFilter = map[string]string{"category": "Uncategorized"}
	}
	if config.Taxonomies.NameMapping == nil {
		config.Taxonomies.NameMapping = map[string]string{
			"category": "categories",
			"post_tag": "tags",
		}
	}
}

// Validate checks the settings that would otherwise fail mid-run
func (c *Config) Validate() error {
	if c.WPExports == "" {
		return fmt.Errorf("wp_exports is required")
	}
	if c.BuildDir == "" {
		return fmt.Errorf("build_dir is required")
	}

	if !c.TargetFormat.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, c.TargetFormat)
	}

	if _, err := strftime.Layout(c.DateFormat); err != nil {
		return fmt.Errorf("invalid date_format %q: %w", c.DateFormat, err)
	}

	validFields := make(map[string]bool, len(wxr.FieldNames))
	for _, name := range wxr.FieldNames {
		validFields[name] = true
	}

	for i, rule := range c.ItemFieldFilter {
		if !validFields[rule.Field] {
			return fmt.Errorf("invalid item_field_filter field at index %d: %s", i, rule.Field)
		}
	}

	for i, r := range c.BodyReplace {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("invalid body_replace pattern at index %d: %w", i, err)
		}
	}

	return nil
}
