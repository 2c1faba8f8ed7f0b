package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Backend identifiers.
const (
	BackendStatic  = "static"
	BackendDynamic = "dynamic"
	BackendAPI     = "api"
)

// Config is the root configuration for forumsent.
type Config struct {
	Scrape    ScrapeConfig    `mapstructure:"scrape"    yaml:"scrape"`
	Browser   BrowserConfig   `mapstructure:"browser"   yaml:"browser"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Sentiment SentimentConfig `mapstructure:"sentiment" yaml:"sentiment"`
	Output    OutputConfig    `mapstructure:"output"    yaml:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// ScrapeConfig controls thread fetching shared by the static and dynamic
// backends.
type ScrapeConfig struct {
	Backend        string        `mapstructure:"backend"         yaml:"backend"`
	MaxPages       int           `mapstructure:"max_pages"       yaml:"max_pages"`
	PageDelay      time.Duration `mapstructure:"page_delay"      yaml:"page_delay"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	MaxBodySize    int64         `mapstructure:"max_body_size"   yaml:"max_body_size"`
	UserAgents     []string      `mapstructure:"user_agents"     yaml:"user_agents"`
}

// BrowserConfig controls the dynamic (headless browser) backend.
type BrowserConfig struct {
	Headless     bool          `mapstructure:"headless"      yaml:"headless"`
	Stealth      bool          `mapstructure:"stealth"       yaml:"stealth"`
	WaitSelector string        `mapstructure:"wait_selector" yaml:"wait_selector"`
	ScrollMax    int           `mapstructure:"scroll_max"    yaml:"scroll_max"`
	ScrollLimit  int           `mapstructure:"scroll_limit"  yaml:"scroll_limit"`
	ScrollPause  time.Duration `mapstructure:"scroll_pause"  yaml:"scroll_pause"`
}

// APIConfig controls the structured message-feed backend.
type APIConfig struct {
	BaseURL     string `mapstructure:"base_url"     yaml:"base_url"`
	LimitCount  int    `mapstructure:"limit_count"  yaml:"limit_count"`
	MaxMessages int    `mapstructure:"max_messages" yaml:"max_messages"`
}

// SentimentConfig selects the scoring engine.
type SentimentConfig struct {
	Engine string `mapstructure:"engine" yaml:"engine"`
}

// OutputConfig controls the flat-file outputs.
type OutputConfig struct {
	PostsPath   string `mapstructure:"posts_path"   yaml:"posts_path"`
	SummaryPath string `mapstructure:"summary_path" yaml:"summary_path"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			Backend:        BackendStatic,
			MaxPages:       3,
			PageDelay:      1200 * time.Millisecond,
			RequestTimeout: 25 * time.Second,
			MaxBodySize:    10 * 1024 * 1024, // 10MB
			UserAgents: []string{
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		Browser: BrowserConfig{
			Headless:     true,
			Stealth:      false,
			WaitSelector: "div.postItem_text_paragraph__3XhZQ",
			ScrollMax:    6,
			ScrollLimit:  20,
			ScrollPause:  time.Second,
		},
		API: APIConfig{
			BaseURL:     "https://api.moneycontrol.com/mcapi/v2/mmb/get-messages/",
			LimitCount:  100,
			MaxMessages: 0,
		},
		Sentiment: SentimentConfig{
			Engine: "vader",
		},
		Output: OutputConfig{
			PostsPath:   "data/posts.csv",
			SummaryPath: "data/summary.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
