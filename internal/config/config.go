package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for the storefront resolver.
type Config struct {
	Marketplace MarketplaceConfig `mapstructure:"marketplace" yaml:"marketplace"`
	Fetcher     FetcherConfig     `mapstructure:"fetcher"     yaml:"fetcher"`
	Browser     BrowserConfig     `mapstructure:"browser"     yaml:"browser"`
	AI          AIConfig          `mapstructure:"ai"          yaml:"ai"`
	Content     ContentConfig     `mapstructure:"content"     yaml:"content"`
	Storage     StorageConfig     `mapstructure:"storage"     yaml:"storage"`
	API         APIConfig         `mapstructure:"api"         yaml:"api"`
	Logging     LoggingConfig     `mapstructure:"logging"     yaml:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"     yaml:"metrics"`
}

// MarketplaceConfig identifies the target marketplace and the affiliate
// account used for outbound links.
type MarketplaceConfig struct {
	Domain          string   `mapstructure:"domain"           yaml:"domain"`
	HostAliases     []string `mapstructure:"host_aliases"     yaml:"host_aliases"`
	PartnerTag      string   `mapstructure:"partner_tag"      yaml:"partner_tag"`
	ImageHosts      []string `mapstructure:"image_hosts"      yaml:"image_hosts"`
	MaxImageURL     int      `mapstructure:"max_image_url"    yaml:"max_image_url"`
	PlaceholderBase string   `mapstructure:"placeholder_base" yaml:"placeholder_base"`
}

// FetcherConfig controls the HTTP page fetcher.
type FetcherConfig struct {
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	ProbeTimeout    time.Duration `mapstructure:"probe_timeout"     yaml:"probe_timeout"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	UserAgents      []string      `mapstructure:"user_agents"       yaml:"user_agents"`
}

// BrowserConfig controls the headless rendering tier.
type BrowserConfig struct {
	Enabled     bool          `mapstructure:"enabled"      yaml:"enabled"`
	Stealth     bool          `mapstructure:"stealth"      yaml:"stealth"`
	NavTimeout  time.Duration `mapstructure:"nav_timeout"  yaml:"nav_timeout"`
	StableWait  time.Duration `mapstructure:"stable_wait"  yaml:"stable_wait"`
	UserDataDir string        `mapstructure:"user_data_dir" yaml:"user_data_dir"`
}

// AIConfig controls the optional description generator.
type AIConfig struct {
	Enabled     bool    `mapstructure:"enabled"     yaml:"enabled"`
	Provider    string  `mapstructure:"provider"    yaml:"provider"`
	Model       string  `mapstructure:"model"       yaml:"model"`
	Endpoint    string  `mapstructure:"endpoint"    yaml:"endpoint"`
	APIKey      string  `mapstructure:"api_key"     yaml:"api_key"`
	MaxTokens   int     `mapstructure:"max_tokens"  yaml:"max_tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
}

// ContentConfig controls cleaning and validation behavior.
type ContentConfig struct {
	MaxTitleLength int    `mapstructure:"max_title_length" yaml:"max_title_length"`
	Profile        string `mapstructure:"profile"          yaml:"profile"` // standard or strict
}

// StorageConfig controls the record store backend.
type StorageConfig struct {
	Type       string `mapstructure:"type"        yaml:"type"` // mongo or json
	URI        string `mapstructure:"uri"         yaml:"uri"`
	Database   string `mapstructure:"database"    yaml:"database"`
	Collection string `mapstructure:"collection"  yaml:"collection"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
}

// APIConfig controls the HTTP command surface.
type APIConfig struct {
	Port      int    `mapstructure:"port"       yaml:"port"`
	ImportKey string `mapstructure:"import_key" yaml:"import_key"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig controls the metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Marketplace: MarketplaceConfig{
			Domain: "www.amazon.com",
			HostAliases: []string{
				"amazon.com",
				"amazon.",
				"amzn.to",
				"a.co",
			},
			ImageHosts: []string{
				"m.media-amazon.com",
				"images-na.ssl-images-amazon.com",
			},
			MaxImageURL:     500,
			PlaceholderBase: "https://via.placeholder.com/400x400/f8fafc/475569",
		},
		Fetcher: FetcherConfig{
			RequestTimeout:  30 * time.Second,
			ProbeTimeout:    10 * time.Second,
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		Browser: BrowserConfig{
			Enabled:    true,
			Stealth:    true,
			NavTimeout: 30 * time.Second,
			StableWait: 300 * time.Millisecond,
		},
		AI: AIConfig{
			Enabled:     false,
			Provider:    "openai",
			Model:       "gpt-3.5-turbo",
			MaxTokens:   180,
			Temperature: 0.75,
		},
		Content: ContentConfig{
			MaxTitleLength: 100,
			Profile:        "standard",
		},
		Storage: StorageConfig{
			Type:       "json",
			OutputPath: "./output/products.json",
			Database:   "storefront",
			Collection: "products",
		},
		API: APIConfig{
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
