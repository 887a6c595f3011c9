package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Marketplace.Domain == "" {
		return fmt.Errorf("marketplace.domain must not be empty")
	}
	if len(cfg.Marketplace.HostAliases) == 0 {
		return fmt.Errorf("marketplace.host_aliases must not be empty")
	}
	if cfg.Marketplace.MaxImageURL <= 0 {
		return fmt.Errorf("marketplace.max_image_url must be > 0, got %d", cfg.Marketplace.MaxImageURL)
	}

	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.ProbeTimeout <= 0 {
		return fmt.Errorf("fetcher.probe_timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if cfg.AI.Enabled {
		if cfg.AI.Provider != "openai" && cfg.AI.Provider != "ollama" && cfg.AI.Provider != "custom" {
			return fmt.Errorf("ai.provider must be openai/ollama/custom, got %q", cfg.AI.Provider)
		}
		if cfg.AI.Model == "" {
			return fmt.Errorf("ai.model must not be empty when ai is enabled")
		}
	}

	if cfg.Content.MaxTitleLength < 10 {
		return fmt.Errorf("content.max_title_length must be >= 10, got %d", cfg.Content.MaxTitleLength)
	}
	if cfg.Content.Profile != "standard" && cfg.Content.Profile != "strict" {
		return fmt.Errorf("content.profile must be 'standard' or 'strict', got %q", cfg.Content.Profile)
	}

	if cfg.Storage.Type != "mongo" && cfg.Storage.Type != "json" {
		return fmt.Errorf("storage.type %q is not supported (valid: mongo, json)", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "mongo" && cfg.Storage.URI == "" {
		return fmt.Errorf("storage.uri must be set for mongo storage")
	}

	if cfg.API.Port < 1 || cfg.API.Port > 65535 {
		return fmt.Errorf("api.port must be 1-65535, got %d", cfg.API.Port)
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

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks that a raw URL is parseable and uses an http scheme.
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
