package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
// CLI flag overrides are applied by the command layer after Load.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("FORUMSENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("forumsent")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".forumsent"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("scrape.backend", cfg.Scrape.Backend)
	v.SetDefault("scrape.max_pages", cfg.Scrape.MaxPages)
	v.SetDefault("scrape.page_delay", cfg.Scrape.PageDelay)
	v.SetDefault("scrape.request_timeout", cfg.Scrape.RequestTimeout)
	v.SetDefault("scrape.max_body_size", cfg.Scrape.MaxBodySize)
	v.SetDefault("scrape.user_agents", cfg.Scrape.UserAgents)

	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.stealth", cfg.Browser.Stealth)
	v.SetDefault("browser.wait_selector", cfg.Browser.WaitSelector)
	v.SetDefault("browser.scroll_max", cfg.Browser.ScrollMax)
	v.SetDefault("browser.scroll_limit", cfg.Browser.ScrollLimit)
	v.SetDefault("browser.scroll_pause", cfg.Browser.ScrollPause)

	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.limit_count", cfg.API.LimitCount)
	v.SetDefault("api.max_messages", cfg.API.MaxMessages)

	v.SetDefault("sentiment.engine", cfg.Sentiment.Engine)

	v.SetDefault("output.posts_path", cfg.Output.PostsPath)
	v.SetDefault("output.summary_path", cfg.Output.SummaryPath)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
