package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	GitHub   GitHubConfig   `mapstructure:"github"`
	Source   SourceConfig   `mapstructure:"source"`
	Alert    AlertConfig    `mapstructure:"alert"`
	Store    StoreConfig    `mapstructure:"store"`
	Log      LogConfig      `mapstructure:"log"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// GitHubConfig addresses the issue thread that receives comments.
type GitHubConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Token          string        `mapstructure:"token"`
	TokenParameter string        `mapstructure:"token_parameter"` // SSM parameter holding the token (optional)
	Repository     string        `mapstructure:"repository"`      // "owner/name"
	IssueNumber    int           `mapstructure:"issue_number"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type SourceConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	Gold      PageConfig    `mapstructure:"gold"`
	Silver    PageConfig    `mapstructure:"silver"`
}

// PageConfig locates one commodity's price table on a web page.
type PageConfig struct {
	URL               string `mapstructure:"url"`
	Title             string `mapstructure:"title"`              // title attribute of the section holding the table
	ReferenceQuantity string `mapstructure:"reference_quantity"` // literal first-cell text of the wanted row
}

type AlertConfig struct {
	CrashThreshold float64 `mapstructure:"crash_threshold"` // percentage points
}

type StoreConfig struct {
	Driver   string `mapstructure:"driver"` // "file", "postgres" or "redis"
	Path     string `mapstructure:"path"`
	RedisKey string `mapstructure:"redis_key"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Options defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

// Load loads application configuration using Viper.
// It reads from path (or config.yaml in ./ and ./config when path is empty)
// and overrides with environment variables. A missing config file is fine,
// every setting has a default except the GitHub coordinates.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config") // config.yaml
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Support environment variables with dot notation (e.g., STORE_DRIVER)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Names used by the GitHub Actions workflow that schedules the tracker
	_ = v.BindEnv("github.token", "GITHUB_TOKEN")
	_ = v.BindEnv("github.repository", "GITHUB_REPOSITORY")
	_ = v.BindEnv("github.issue_number", "ISSUE_NUMBER")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports the first missing or malformed required setting.
func (cfg *Config) Validate() error {
	if cfg.GitHub.Token == "" && cfg.GitHub.TokenParameter == "" {
		return errors.New("config: GITHUB_TOKEN is required")
	}
	if owner, name, ok := strings.Cut(cfg.GitHub.Repository, "/"); !ok || owner == "" || name == "" {
		return fmt.Errorf("config: GITHUB_REPOSITORY must be owner/name, got %q", cfg.GitHub.Repository)
	}
	if cfg.GitHub.IssueNumber <= 0 {
		return fmt.Errorf("config: ISSUE_NUMBER must be positive, got %d", cfg.GitHub.IssueNumber)
	}
	if cfg.Alert.CrashThreshold <= 0 {
		return fmt.Errorf("config: alert.crash_threshold must be positive, got %v", cfg.Alert.CrashThreshold)
	}

	switch cfg.Store.Driver {
	case "file", "postgres", "redis":
	default:
		return fmt.Errorf("config: unknown store driver %q", cfg.Store.Driver)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.base_url", "https://api.github.com")
	v.SetDefault("github.token", "")
	v.SetDefault("github.token_parameter", "")
	v.SetDefault("github.repository", "")
	v.SetDefault("github.issue_number", 0)
	v.SetDefault("github.timeout", 10*time.Second)

	v.SetDefault("source.timeout", 10*time.Second)
	v.SetDefault("source.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	v.SetDefault("source.gold.url", "https://www.goodreturns.in/gold-rates/")
	v.SetDefault("source.gold.title", "24 Carat Gold Rate in India Today")
	v.SetDefault("source.gold.reference_quantity", "10")
	v.SetDefault("source.silver.url", "https://www.goodreturns.in/silver-rates/")
	v.SetDefault("source.silver.title", "Silver Rate in India Today")
	v.SetDefault("source.silver.reference_quantity", "1000")

	v.SetDefault("alert.crash_threshold", 10.0)

	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", "last_prices.json")
	v.SetDefault("store.redis_key", "metalwatch:last_prices")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "metalwatch")
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_file", "")
	v.SetDefault("log.environment", "dev")
}
