package report

import (
	"fmt"
	"time"

	"website-audit/internal/common/config"
)

type Config struct {
	StripeSecretKey string        `mapstructure:"stripe_secret_key"`
	StripeBaseURL   string        `mapstructure:"stripe_base_url"`
	StripeTimeout   time.Duration `mapstructure:"stripe_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		StripeTimeout: 30 * time.Second,
	}
}

func FromAppConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	c.StripeSecretKey = cfg.Payments.Stripe.SecretKey
	c.StripeBaseURL = cfg.Payments.Stripe.BaseURL
	if cfg.Payments.Stripe.Timeout > 0 {
		c.StripeTimeout = config.GetDuration(cfg.Payments.Stripe.Timeout)
	}
	return c
}

func (c *Config) Validate() error {
	if c.StripeTimeout <= 0 {
		return fmt.Errorf("stripe_timeout must be positive")
	}
	return nil
}
