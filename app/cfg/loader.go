package cfg

import (
	"cmp"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/lysyi3m/wxr-comb/app/config"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" default:"config.yaml" description:"Conversion settings file"`

	ExportsDir     string `long:"exports-dir" env:"WP_EXPORTS" description:"Directory containing WordPress XML exports (overrides wp_exports)"`
	BuildDir       string `long:"build-dir" env:"BUILD_DIR" description:"Output directory (overrides build_dir)"`
	DownloadImages bool   `long:"download-images" env:"DOWNLOAD_IMAGES" description:"Download referenced images (overrides download_images)"`
	TargetFormat   string `long:"format" env:"TARGET_FORMAT" description:"Output format: html, markdown, md or txt (overrides target_format)"`

	UserAgent   string `long:"user-agent" env:"USER_AGENT" default:"WXR Comb/1.0" description:"User agent string for image downloads"`
	HTTPTimeout int    `long:"timeout" env:"HTTP_TIMEOUT" default:"30" description:"Image download timeout in seconds"`

	Debug       bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	ShowVersion bool `long:"version" description:"Print version and exit"`
}

// Load parses os.Args and the environment. A nil Cfg with a nil error means
// help or version was printed.
func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.ShowVersion {
		fmt.Println(GetVersion())
		return nil, nil
	}

	if raw.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %d", raw.HTTPTimeout)
	}

	return &Cfg{
		ConfigFile:     raw.ConfigFile,
		ExportsDir:     raw.ExportsDir,
		BuildDir:       raw.BuildDir,
		DownloadImages: raw.DownloadImages,
		TargetFormat:   raw.TargetFormat,
		UserAgent:      raw.UserAgent,
		HTTPTimeout:    raw.HTTPTimeout,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}, nil
}

// Apply copies command-line overrides onto the conversion config and
// validates the result
func (c *Cfg) Apply(conv *config.Config) error {
	if c.ExportsDir != "" {
		conv.WPExports = c.ExportsDir
	}
	if c.BuildDir != "" {
		conv.BuildDir = c.BuildDir
	}
	if c.DownloadImages {
		conv.DownloadImages = true
	}
	if c.TargetFormat != "" {
		conv.TargetFormat = config.Format(c.TargetFormat)
	}

	if err := conv.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
