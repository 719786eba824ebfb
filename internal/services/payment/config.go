package payment

import (
	"fmt"
	"time"

	"website-audit/internal/common/config"
)

type Config struct {
	StripeSecretKey  string        `mapstructure:"stripe_secret_key"`
	StripeBaseURL    string        `mapstructure:"stripe_base_url"`
	StripeTimeout    time.Duration `mapstructure:"stripe_timeout"`
	SuccessURL       string        `mapstructure:"success_url"`
	CancelURL        string        `mapstructure:"cancel_url"`
	ReportPriceCents int           `mapstructure:"report_price_cents"`
	Currency         string        `mapstructure:"currency"`
}

func DefaultConfig() *Config {
	return &Config{
		StripeTimeout:    30 * time.Second,
		ReportPriceCents: 4900,
		Currency:         "usd",
	}
}

func FromAppConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	c.StripeSecretKey = cfg.Payments.Stripe.SecretKey
	c.StripeBaseURL = cfg.Payments.Stripe.BaseURL
	c.SuccessURL = cfg.Payments.Stripe.SuccessURL
	c.CancelURL = cfg.Payments.Stripe.CancelURL
	if cfg.Payments.Stripe.Timeout > 0 {
		c.StripeTimeout = config.GetDuration(cfg.Payments.Stripe.Timeout)
	}
	if cfg.Payments.ReportPriceCents > 0 {
		c.ReportPriceCents = cfg.Payments.ReportPriceCents
	}
	if cfg.Payments.Currency != "" {
		c.Currency = cfg.Payments.Currency
	}
	return c
}

func (c *Config) Validate() error {
	if c.StripeTimeout <= 0 {
		return fmt.Errorf("stripe_timeout must be positive")
	}
	if c.ReportPriceCents <= 0 {
		return fmt.Errorf("report_price_cents must be positive")
	}
	return nil
}
