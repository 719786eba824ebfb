package analyze

import (
	"fmt"
	"time"

	"website-audit/internal/common/config"
)

type Config struct {
	PageSpeedAPIKey  string        `mapstructure:"pagespeed_api_key"`
	PageSpeedBaseURL string        `mapstructure:"pagespeed_base_url"`
	PageSpeedTimeout time.Duration `mapstructure:"pagespeed_timeout"`
	GenAIAPIKey      string        `mapstructure:"genai_api_key"`
	GenAIBaseURL     string        `mapstructure:"genai_base_url"`
	GenAIModel       string        `mapstructure:"genai_model"`
	GenAITimeout     time.Duration `mapstructure:"genai_timeout"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
}

func DefaultConfig() *Config {
	return &Config{
		PageSpeedTimeout: 45 * time.Second,
		GenAITimeout:     30 * time.Second,
		GenAIModel:       "gemini-2.0-flash",
		CacheTTL:         24 * time.Hour,
	}
}

func FromAppConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	c.PageSpeedAPIKey = cfg.APIs.PageSpeed.APIKey
	c.PageSpeedBaseURL = cfg.APIs.PageSpeed.BaseURL
	c.GenAIAPIKey = cfg.APIs.GenAI.APIKey
	c.GenAIBaseURL = cfg.APIs.GenAI.BaseURL
	if cfg.APIs.GenAI.Model != "" {
		c.GenAIModel = cfg.APIs.GenAI.Model
	}
	if cfg.APIs.PageSpeed.Timeout > 0 {
		c.PageSpeedTimeout = config.GetDuration(cfg.APIs.PageSpeed.Timeout)
	}
	if cfg.APIs.GenAI.Timeout > 0 {
		c.GenAITimeout = config.GetDuration(cfg.APIs.GenAI.Timeout)
	}
	return c
}

// Validate checks structural settings. API keys are deliberately excluded:
// their absence is a per-request configuration error, not a startup failure.
func (c *Config) Validate() error {
	if c.PageSpeedTimeout <= 0 {
		return fmt.Errorf("pagespeed_timeout must be positive")
	}
	if c.GenAITimeout <= 0 {
		return fmt.Errorf("genai_timeout must be positive")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive")
	}
	return nil
}
