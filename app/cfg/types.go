package cfg

type Cfg struct {
	ConfigFile string

	// Overrides for config.yaml
	ExportsDir     string
	BuildDir       string
	DownloadImages bool
	TargetFormat   string

	// Image downloads
	UserAgent   string
	HTTPTimeout int

	Debug   bool
	Version string
}
