package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/nvqpham/tally/internal/common"
)

// Defaults used when neither config file, environment, nor flags say
// otherwise. The original deployment tracked Vietnamese đồng.
const (
	DefaultCurrency = "VND"
	DefaultLimit    = 10
	DefaultPeriod   = "this_month"
)

// Config carries all runtime settings. Executor defaults are explicit
// configuration, not ambient constants, so alternate defaults are a
// construction-time decision.
type Config struct {
	DatabasePath    string
	AuditLogPath    string
	ReportsDir      string
	DefaultCurrency string
	DefaultPeriod   string

	Planner PlannerConfig

	DefaultLimit int
}

// PlannerConfig configures the external planner boundary.
type PlannerConfig struct {
	Provider   string
	APIKey     string
	Model      string
	MaxRetries int
	RetryDelay time.Duration
	RateLimit  int
}

// Load assembles the configuration from viper (config file, TALLY_*
// environment variables, bound flags) with sensible defaults.
func Load() (Config, error) {
	viper.SetDefault("database.path", "~/.local/share/tally/tally.db")
	viper.SetDefault("audit.path", "~/.local/share/tally/agent.log")
	viper.SetDefault("reports.dir", "~/.local/share/tally/reports")
	viper.SetDefault("defaults.currency", DefaultCurrency)
	viper.SetDefault("defaults.limit", DefaultLimit)
	viper.SetDefault("defaults.period", DefaultPeriod)
	viper.SetDefault("planner.provider", "gemini")
	viper.SetDefault("planner.max_retries", 3)
	viper.SetDefault("planner.retry_delay", "2s")
	viper.SetDefault("planner.rate_limit", 30)

	cfg := Config{
		DatabasePath:    ExpandPath(viper.GetString("database.path")),
		AuditLogPath:    ExpandPath(viper.GetString("audit.path")),
		ReportsDir:      ExpandPath(viper.GetString("reports.dir")),
		DefaultCurrency: viper.GetString("defaults.currency"),
		DefaultLimit:    viper.GetInt("defaults.limit"),
		DefaultPeriod:   viper.GetString("defaults.period"),
		Planner: PlannerConfig{
			Provider:   viper.GetString("planner.provider"),
			APIKey:     viper.GetString("planner.api_key"),
			Model:      viper.GetString("planner.model"),
			MaxRetries: viper.GetInt("planner.max_retries"),
			RetryDelay: viper.GetDuration("planner.retry_delay"),
			RateLimit:  viper.GetInt("planner.rate_limit"),
		},
	}

	if cfg.DefaultCurrency == "" {
		return Config{}, fmt.Errorf("%w: defaults.currency", common.ErrInvalidConfig)
	}
	if cfg.DefaultLimit <= 0 {
		return Config{}, fmt.Errorf("%w: defaults.limit must be positive", common.ErrInvalidConfig)
	}

	return cfg, nil
}
