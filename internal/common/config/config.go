// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	APIs          APIsConfig         `mapstructure:"apis"`
	Payments      PaymentsConfig     `mapstructure:"payments"`
	Integrations  IntegrationConfig  `mapstructure:"integrations"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// APIsConfig holds settings for the external analysis providers.
type APIsConfig struct {
	PageSpeed struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"pagespeed"`

	GenAI struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"genai"`
}

// PaymentsConfig holds Stripe checkout settings for the detailed report.
type PaymentsConfig struct {
	Stripe struct {
		SecretKey  string `mapstructure:"secret_key"`
		BaseURL    string `mapstructure:"base_url"`
		SuccessURL string `mapstructure:"success_url"`
		CancelURL  string `mapstructure:"cancel_url"`
		Timeout    int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"stripe"`

	ReportPriceCents int    `mapstructure:"report_price_cents"`
	Currency         string `mapstructure:"currency"`
}

// IntegrationConfig holds settings for CRM relay and AWS messaging.
type IntegrationConfig struct {
	Zoho struct {
		APIKey     string `mapstructure:"api_key"`
		OAuthToken string `mapstructure:"oauth_token"`
	} `mapstructure:"zoho"`

	// Generic CRM webhook used when Zoho credentials are absent. Optional.
	CRMWebhookURL string `mapstructure:"crm_webhook_url"`

	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// NotificationConfig holds settings for best-effort team alerts on new leads.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		TeamEmail string `mapstructure:"team_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled        bool   `mapstructure:"enabled"`
		TeamPhone      string `mapstructure:"team_phone"`
		ScoreThreshold int    `mapstructure:"score_threshold"`
	} `mapstructure:"sms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
