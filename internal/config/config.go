package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"gearhouse-backend/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Policy    PolicyConfig    `yaml:"policy"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// PolicyConfig is the typed policy configuration. Each rule lives in an
// explicit field; there is no dotted-path mutation of settings at runtime.
type PolicyConfig struct {
	LateFees  LateFeeConfig   `yaml:"late_fees"`
	Waiver    WaiverConfig    `yaml:"waiver"`
	Insurance InsuranceConfig `yaml:"insurance"`
}

// LateFeeConfig contains late-fee accrual settings
type LateFeeConfig struct {
	Enabled    bool    `yaml:"enabled"`
	GraceHours int     `yaml:"grace_hours"`
	HourlyRate float64 `yaml:"hourly_rate"`
	MaxFee     float64 `yaml:"max_fee"`
}

// WaiverConfig contains per-activity-type waiver rules
type WaiverConfig struct {
	Rental WaiverRuleConfig `yaml:"rental"`
	Lesson WaiverRuleConfig `yaml:"lesson"`
}

// WaiverRuleConfig contains the waiver rules for one activity type
type WaiverRuleConfig struct {
	ExpiryPeriodDays      int  `yaml:"expiry_period_days"`
	RequireNewPerActivity bool `yaml:"require_new_per_activity"`
}

// InsuranceConfig contains damage-insurance pricing
type InsuranceConfig struct {
	UnitCostPerDay float64 `yaml:"unit_cost_per_day"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ReconcileInventory   string `yaml:"reconcile_inventory"`
	ReportOverdueRentals string `yaml:"report_overdue_rentals"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Policy.LateFees.HourlyRate < 0 {
		return fmt.Errorf("late fee hourly rate must not be negative")
	}
	if c.Policy.LateFees.MaxFee < 0 {
		return fmt.Errorf("late fee maximum must not be negative")
	}
	if c.Policy.Insurance.UnitCostPerDay < 0 {
		return fmt.Errorf("insurance unit cost must not be negative")
	}

	// Waiver defaults
	if c.Policy.Waiver.Rental.ExpiryPeriodDays == 0 {
		c.Policy.Waiver.Rental.ExpiryPeriodDays = 365
	}
	if c.Policy.Waiver.Lesson.ExpiryPeriodDays == 0 {
		c.Policy.Waiver.Lesson.ExpiryPeriodDays = 30
	}

	// Scheduler defaults
	if c.Scheduler.ReconcileInventory == "" {
		c.Scheduler.ReconcileInventory = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.ReportOverdueRentals == "" {
		c.Scheduler.ReportOverdueRentals = "0 0 2 * * *" // 2 AM UTC
	}

	return nil
}

// Policies converts the raw policy configuration into the typed, read-only
// policy set consumed by the engine.
func (c *Config) Policies() domain.PolicySet {
	return domain.PolicySet{
		LateFees: domain.LateFeePolicy{
			Enabled:    c.Policy.LateFees.Enabled,
			GraceHours: c.Policy.LateFees.GraceHours,
			HourlyRate: decimal.NewFromFloat(c.Policy.LateFees.HourlyRate),
			MaxFee:     decimal.NewFromFloat(c.Policy.LateFees.MaxFee),
		},
		Waiver: map[domain.ActivityType]domain.WaiverPolicy{
			domain.ActivityTypeRental: {
				ExpiryPeriodDays:      c.Policy.Waiver.Rental.ExpiryPeriodDays,
				RequireNewPerActivity: c.Policy.Waiver.Rental.RequireNewPerActivity,
			},
			domain.ActivityTypeLesson: {
				ExpiryPeriodDays:      c.Policy.Waiver.Lesson.ExpiryPeriodDays,
				RequireNewPerActivity: c.Policy.Waiver.Lesson.RequireNewPerActivity,
			},
		},
		Insurance: domain.InsurancePolicy{
			UnitCostPerDay: decimal.NewFromFloat(c.Policy.Insurance.UnitCostPerDay),
		},
	}
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
