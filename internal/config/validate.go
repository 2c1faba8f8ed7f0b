package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	switch cfg.Scrape.Backend {
	case BackendStatic, BackendDynamic, BackendAPI:
	default:
		return fmt.Errorf("scrape.backend must be static/dynamic/api, got %q", cfg.Scrape.Backend)
	}
	if cfg.Scrape.MaxPages < 1 {
		return fmt.Errorf("scrape.max_pages must be >= 1, got %d", cfg.Scrape.MaxPages)
	}
	if cfg.Scrape.PageDelay < 0 {
		return fmt.Errorf("scrape.page_delay must be >= 0")
	}
	if cfg.Scrape.RequestTimeout <= 0 {
		return fmt.Errorf("scrape.request_timeout must be > 0")
	}
	if cfg.Scrape.MaxBodySize <= 0 {
		return fmt.Errorf("scrape.max_body_size must be > 0")
	}

	if cfg.Browser.ScrollMax < 1 {
		return fmt.Errorf("browser.scroll_max must be >= 1, got %d", cfg.Browser.ScrollMax)
	}
	if cfg.Browser.ScrollLimit < 1 {
		return fmt.Errorf("browser.scroll_limit must be >= 1, got %d", cfg.Browser.ScrollLimit)
	}
	if cfg.Browser.ScrollPause < 0 {
		return fmt.Errorf("browser.scroll_pause must be >= 0")
	}
	if cfg.Browser.WaitSelector == "" {
		return fmt.Errorf("browser.wait_selector must not be empty")
	}

	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if _, err := url.Parse(cfg.API.BaseURL); err != nil {
		return fmt.Errorf("invalid api.base_url %q: %w", cfg.API.BaseURL, err)
	}
	if cfg.API.LimitCount < 1 {
		return fmt.Errorf("api.limit_count must be >= 1, got %d", cfg.API.LimitCount)
	}
	if cfg.API.MaxMessages < 0 {
		return fmt.Errorf("api.max_messages must be >= 0, got %d", cfg.API.MaxMessages)
	}

	if cfg.Sentiment.Engine != "vader" && cfg.Sentiment.Engine != "lexicon" {
		return fmt.Errorf("sentiment.engine must be 'vader' or 'lexicon', got %q", cfg.Sentiment.Engine)
	}

	if cfg.Output.PostsPath == "" {
		return fmt.Errorf("output.posts_path must not be empty")
	}
	if cfg.Output.SummaryPath == "" {
		return fmt.Errorf("output.summary_path must not be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidateURL checks if a URL string is a usable thread URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
