package config

// Config holds the conversion settings read from config.yaml
type Config struct {
	WPExports              string           `yaml:"wp_exports"`
	BuildDir               string           `yaml:"build_dir"`
	DownloadImages         bool             `yaml:"download_images"`
	UseHierarchicalFolders bool             `yaml:"use_hierarchical_folders"`
	ReplaceExisting        bool             `yaml:"replace_existing"`
	TargetFormat           Format           `yaml:"target_format"`
	Taxonomies             Taxonomies       `yaml:"taxonomies"`
	ItemTypeFilter         []string         `yaml:"item_type_filter"`
	ItemFieldFilter        FieldRules       `yaml:"item_field_filter"`
	DateFormat             string           `yaml:"date_format"` // strftime, e.g. %Y-%m-%d %H:%M:%S
	BodyReplace            BodyReplacements `yaml:"body_replace"`
}

// Taxonomies controls which terms are exported and under which names
type Taxonomies struct {
	Filter      []string          `yaml:"filter"`
	EntryFilter map[string]string `yaml:"entry_filter"`
	NameMapping map[string]string `yaml:"name_mapping"`
}

// Format is the output text format, also used as the file extension
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatMD       Format = "md"
	FormatText     Format = "txt"
)

func (f Format) Valid() bool {
	switch f {
	case FormatHTML, FormatMarkdown, FormatMD, FormatText:
		return true
	}
	return false
}

// FieldRule drops items whose Field equals Value
type FieldRule struct {
	Field string
	Value string
}

// FieldRules keeps the order of the item_field_filter mapping
type FieldRules []FieldRule

// BodyReplacement is a regular expression substitution on item bodies
type BodyReplacement struct {
	Pattern     string
	Replacement string
}

// BodyReplacements keeps the order of the body_replace mapping
type BodyReplacements []BodyReplacement
