// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like PAGESPEED_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored if absent
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from multiple possible locations so the server can
// start from the repo root, cmd/server, or a test directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills credentials from well-known environment variables
// when the YAML left them empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.APIs.PageSpeed.APIKey == "" {
		if val := os.Getenv("PAGESPEED_API_KEY"); val != "" {
			cfg.APIs.PageSpeed.APIKey = val
		}
	}
	if cfg.APIs.GenAI.APIKey == "" {
		if val := os.Getenv("GEMINI_API_KEY"); val != "" {
			cfg.APIs.GenAI.APIKey = val
		}
	}

	if cfg.Payments.Stripe.SecretKey == "" {
		if val := os.Getenv("STRIPE_SECRET_KEY"); val != "" {
			cfg.Payments.Stripe.SecretKey = val
		}
	}

	if cfg.Integrations.Zoho.APIKey == "" {
		if val := os.Getenv("ZOHO_CRM_API_KEY"); val != "" {
			cfg.Integrations.Zoho.APIKey = val
		}
	}
	if cfg.Integrations.Zoho.OAuthToken == "" {
		if val := os.Getenv("ZOHO_CRM_OAUTH_TOKEN"); val != "" {
			cfg.Integrations.Zoho.OAuthToken = val
		}
	}
	if cfg.Integrations.CRMWebhookURL == "" {
		if val := os.Getenv("CRM_WEBHOOK_URL"); val != "" {
			cfg.Integrations.CRMWebhookURL = val
		}
	}

	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		// Analyze calls two providers sequentially, so the write window
		// must cover both timeouts.
		cfg.Server.WriteTimeout = 90000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	// Database defaults
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	// Provider defaults
	if cfg.APIs.PageSpeed.BaseURL == "" {
		cfg.APIs.PageSpeed.BaseURL = "https://www.googleapis.com/pagespeedonline/v5"
	}
	if cfg.APIs.PageSpeed.Timeout == 0 {
		cfg.APIs.PageSpeed.Timeout = 45000
	}
	if cfg.APIs.GenAI.BaseURL == "" {
		cfg.APIs.GenAI.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.APIs.GenAI.Model == "" {
		cfg.APIs.GenAI.Model = "gemini-2.0-flash"
	}
	if cfg.APIs.GenAI.Timeout == 0 {
		cfg.APIs.GenAI.Timeout = 30000
	}

	// Payment defaults
	if cfg.Payments.Stripe.BaseURL == "" {
		cfg.Payments.Stripe.BaseURL = "https://api.stripe.com/v1"
	}
	if cfg.Payments.Stripe.Timeout == 0 {
		cfg.Payments.Stripe.Timeout = 30000
	}
	if cfg.Payments.ReportPriceCents == 0 {
		cfg.Payments.ReportPriceCents = 4900
	}
	if cfg.Payments.Currency == "" {
		cfg.Payments.Currency = "usd"
	}

	// Notification defaults
	if cfg.Notifications.SMS.ScoreThreshold == 0 {
		cfg.Notifications.SMS.ScoreThreshold = 80
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields. Provider API keys
// are deliberately not required here: their absence is reported per-request
// as a configuration error, not a startup crash.
func validateConfig(cfg *Config) error {
	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}

	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
