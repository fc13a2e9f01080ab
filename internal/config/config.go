// Package config loads and validates monitor configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Monitor MonitorConfig `mapstructure:"monitor"`
	Product ProductConfig `mapstructure:"product"`
	Browser BrowserConfig `mapstructure:"browser"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// MonitorConfig governs the polling loop.
type MonitorConfig struct {
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

// ProductConfig identifies the product/store pair being watched.
type ProductConfig struct {
	PartNumber   string `mapstructure:"part_number"`
	StoreNumber  string `mapstructure:"store_number"`
	SearchNearby bool   `mapstructure:"search_nearby"`
	BaseURL      string `mapstructure:"base_url"`
}

// BrowserConfig configures the headless browser session.
type BrowserConfig struct {
	UserAgent       string  `mapstructure:"user_agent"`
	Headless        bool    `mapstructure:"headless"`
	NavTimeoutSec   int     `mapstructure:"nav_timeout_seconds"`
	NavQPS          float64 `mapstructure:"nav_qps"`
	WarmupSettleMs  int     `mapstructure:"warmup_settle_ms"`
	ProductSettleMs int     `mapstructure:"product_settle_ms"`
}

// SMTPConfig holds mail relay settings and credentials. Credentials are
// normally supplied through PICKUPWATCH_SMTP_USERNAME / PICKUPWATCH_SMTP_PASSWORD.
type SMTPConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	Recipient string `mapstructure:"recipient"`
}

// ServerConfig controls the optional status/metrics HTTP endpoint.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig toggles zap development features and the log file sink.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PICKUPWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.SMTP.Recipient == "" {
		cfg.SMTP.Recipient = cfg.SMTP.Username
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("monitor.interval_minutes", 30)
	v.SetDefault("product.part_number", "MFXG4LL/A")
	v.SetDefault("product.store_number", "R354")
	v.SetDefault("product.search_nearby", false)
	v.SetDefault("product.base_url", "https://www.apple.com")
	v.SetDefault("browser.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.nav_timeout_seconds", 45)
	v.SetDefault("browser.nav_qps", 0.5)
	v.SetDefault("browser.warmup_settle_ms", 2000)
	v.SetDefault("browser.product_settle_ms", 3000)
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	// Placeholder credentials so the keys are known to Viper and the
	// PICKUPWATCH_SMTP_* env vars bind; real values come from the environment.
	v.SetDefault("smtp.username", "test@gmail.com")
	v.SetDefault("smtp.password", "test")
	v.SetDefault("smtp.recipient", "")
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.port", 9090)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.file", "pickupwatch.log")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Monitor.IntervalMinutes <= 0 {
		return fmt.Errorf("monitor.interval_minutes must be > 0")
	}
	if c.Product.PartNumber == "" {
		return fmt.Errorf("product.part_number must be set")
	}
	if c.Product.StoreNumber == "" {
		return fmt.Errorf("product.store_number must be set")
	}
	if c.Product.BaseURL == "" {
		return fmt.Errorf("product.base_url must be set")
	}
	if c.Browser.UserAgent == "" {
		return fmt.Errorf("browser.user_agent must be set")
	}
	if c.Browser.NavTimeoutSec <= 0 {
		return fmt.Errorf("browser.nav_timeout_seconds must be > 0")
	}
	if c.Browser.NavQPS < 0 {
		return fmt.Errorf("browser.nav_qps must be >= 0")
	}
	if c.SMTP.Host == "" || c.SMTP.Port <= 0 {
		return fmt.Errorf("smtp.host and smtp.port must be set")
	}
	if c.Server.Enabled && c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0 when server is enabled")
	}
	return nil
}

// Interval converts the configured polling interval into a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.Monitor.IntervalMinutes) * time.Minute
}

// NavTimeout converts the navigation timeout into a duration.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Browser.NavTimeoutSec) * time.Second
}
