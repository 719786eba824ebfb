package leadcapture

import (
	"fmt"
	"time"

	"website-audit/internal/common/config"
)

type Config struct {
	Timeout time.Duration `mapstructure:"timeout"`

	ZohoAPIKey     string `mapstructure:"zoho_api_key"`
	ZohoOAuthToken string `mapstructure:"zoho_oauth_token"`
	CRMWebhookURL  string `mapstructure:"crm_webhook_url"`

	AWSRegion string `mapstructure:"aws_region"`

	EmailEnabled bool   `mapstructure:"email_enabled"`
	FromEmail    string `mapstructure:"from_email"`
	TeamEmail    string `mapstructure:"team_email"`

	SMSEnabled        bool   `mapstructure:"sms_enabled"`
	TeamPhone         string `mapstructure:"team_phone"`
	SMSScoreThreshold int    `mapstructure:"sms_score_threshold"`
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:           30 * time.Second,
		SMSScoreThreshold: 80,
	}
}

func FromAppConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	c.ZohoAPIKey = cfg.Integrations.Zoho.APIKey
	c.ZohoOAuthToken = cfg.Integrations.Zoho.OAuthToken
	c.CRMWebhookURL = cfg.Integrations.CRMWebhookURL
	c.AWSRegion = cfg.Integrations.AWS.Region
	c.EmailEnabled = cfg.Notifications.Email.Enabled
	c.FromEmail = cfg.Notifications.Email.FromEmail
	c.TeamEmail = cfg.Notifications.Email.TeamEmail
	c.SMSEnabled = cfg.Notifications.SMS.Enabled
	c.TeamPhone = cfg.Notifications.SMS.TeamPhone
	if cfg.Notifications.SMS.ScoreThreshold > 0 {
		c.SMSScoreThreshold = cfg.Notifications.SMS.ScoreThreshold
	}
	return c
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.EmailEnabled && (c.FromEmail == "" || c.TeamEmail == "") {
		return fmt.Errorf("from_email and team_email are required when email notifications are enabled")
	}
	if c.SMSEnabled && c.TeamPhone == "" {
		return fmt.Errorf("team_phone is required when SMS notifications are enabled")
	}
	return nil
}
