// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Governance GovernanceConfig `mapstructure:"governance"`
	Alerts     AlertsConfig     `mapstructure:"alerts"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds settings for the operational HTTP listener
// (health and Prometheus metrics only; the decision API is a collaborator).
type ServerConfig struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
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

// GetDSN returns the PostgreSQL connection string.
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

// CacheConfig controls the shared TTL cache. Backend is "memory" or "redis".
type CacheConfig struct {
	Backend         string `mapstructure:"backend"`
	DefaultTTLSec   int    `mapstructure:"default_ttl_seconds"`
	AuditTTLSec     int    `mapstructure:"audit_ttl_seconds"`
	LeadsTTLSec     int    `mapstructure:"leads_ttl_seconds"`
	KeyPrefix       string `mapstructure:"key_prefix"`
	DisableOnErrors bool   `mapstructure:"disable_on_errors"`
}

// GovernanceConfig holds the thresholds gating captured decisions.
type GovernanceConfig struct {
	// Snapshots below this confidence are marked REQUIRES_REVIEW.
	ReviewThreshold float64 `mapstructure:"review_threshold"`
	// Personas rejecting strictly more than this fraction of their
	// decisions are flagged in the bias report.
	BiasThreshold float64 `mapstructure:"bias_threshold"`
	ModelVersion  string  `mapstructure:"model_version"`
}

// AlertsConfig holds the thresholds consumed by the alert rule table.
type AlertsConfig struct {
	CompletenessThreshold float64 `mapstructure:"completeness_threshold"` // percent
	StalenessMinutes      int     `mapstructure:"staleness_minutes"`
	ConfidenceFloor       float64 `mapstructure:"confidence_floor"` // score
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
