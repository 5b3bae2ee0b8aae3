package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/choraleia/collectly/pkg/costs"
)

// AppConfig is read from a YAML file under the user's home directory.
// All fields are optional; defaults are applied by the accessor methods.
//
// Example (~/.collectly/config.yaml):
//
// server:
//   host: 127.0.0.1
//   port: 8088
// database:
//   driver: postgres
//   dsn: postgres://collectly@localhost/collectly?sslmode=disable
// ai:
//   timeout: 45s
//   premium:
//     provider: openai
//     model: gpt-4o
//     api_key_env: OPENAI_API_KEY
//   low_cost:
//     provider: google
//     model: gemini-1.5-flash
//     api_key_env: GEMINI_API_KEY
//
// Notes:
// - If the config file does not exist, Load returns defaults without error.
// - If the config file exists but cannot be parsed, Load returns an error.
// - API keys are never stored in the file; api_key_env names the variable.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Costs    CostsConfig    `yaml:"costs"`
	Crypto   CryptoConfig   `yaml:"crypto"`
}

type ServerConfig struct {
	Host *string `yaml:"host"`
	Port *int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Premium BackendConfig `yaml:"premium"`
	LowCost BackendConfig `yaml:"low_cost"`
}

// BackendConfig describes one AI backend. Prices are USD per 1M tokens for
// the premium tier and per 1K tokens for the low-cost tier.
type BackendConfig struct {
	Provider      string                 `yaml:"provider"`
	Model         string                 `yaml:"model"`
	BaseURL       string                 `yaml:"base_url"`
	APIKeyEnv     string                 `yaml:"api_key_env"`
	InputPrice    *float64               `yaml:"input_price"`
	OutputPrice   *float64               `yaml:"output_price"`
	RatePerSecond float64                `yaml:"rate_per_second"`
	Extra         map[string]interface{} `yaml:"extra"`
}

type CostsConfig struct {
	MonthlyLimitUSD       *float64 `yaml:"monthly_limit_usd"`
	DailyLimitUSD         *float64 `yaml:"daily_limit_usd"`
	AlertThresholdPercent *float64 `yaml:"alert_threshold_percent"`
	EnforceBudget         bool     `yaml:"enforce_budget"`
}

type CryptoConfig struct {
	KeyEnv string `yaml:"key_env"`
}

const (
	DefaultHost          = "127.0.0.1"
	DefaultPort          = 8088
	DefaultDriver        = "sqlite"
	DefaultAITimeout     = 60 * time.Second
	DefaultRedisTTL      = 5 * time.Minute
	DefaultCryptoKeyEnv  = "COLLECTLY_FIELD_KEY"
	DefaultPremiumModel  = "gpt-4o"
	DefaultLowCostModel  = "gemini-1.5-flash"
	DefaultPremiumKeyEnv = "OPENAI_API_KEY"
	DefaultLowCostKeyEnv = "GEMINI_API_KEY"
	DefaultPremiumInput  = 2.50     // USD per 1M tokens
	DefaultPremiumOutput = 10.00    // USD per 1M tokens
	DefaultLowCostInput  = 0.000075 // USD per 1K tokens
	DefaultLowCostOutput = 0.0003   // USD per 1K tokens
)

// DefaultPaths returns the config dir and config file path.
func DefaultPaths() (configDir string, configFile string, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("get user home dir: %w", err)
	}
	configDir = filepath.Join(home, ".collectly")
	configFile = filepath.Join(configDir, "config.yaml")
	return configDir, configFile, nil
}

// Load reads ~/.collectly/config.yaml.
// If the file doesn't exist, it returns a default config and nil error.
func Load() (*AppConfig, string, error) {
	_, configFile, err := DefaultPaths()
	if err != nil {
		return nil, "", err
	}
	return LoadFile(configFile)
}

// LoadFile reads and validates the config at path.
func LoadFile(configFile string) (*AppConfig, string, error) {
	cfg := &AppConfig{}

	b, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, configFile, nil
		}
		return nil, "", fmt.Errorf("read config file %s: %w", configFile, err)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, "", fmt.Errorf("parse yaml config %s: %w", configFile, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("%w in %s", err, configFile)
	}

	return cfg, configFile, nil
}

// Validate checks value ranges that cannot be defaulted away.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.Host()) == "" {
		return fmt.Errorf("invalid server.host (empty)")
	}
	if port := c.Port(); port < 1 || port > 65535 {
		return fmt.Errorf("invalid server.port %d", port)
	}
	switch c.DatabaseDriver() {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("invalid database.driver %q", c.Database.Driver)
	}
	if t := c.AlertThresholdPercent(); t < 0 || t > 100 {
		return fmt.Errorf("invalid costs.alert_threshold_percent %.2f", t)
	}
	if c.MonthlyLimitUSD() < 0 || c.DailyLimitUSD() < 0 {
		return fmt.Errorf("invalid costs limits (negative)")
	}
	return nil
}

// EnsureDefaultConfig writes a default config file if it doesn't already exist.
// It is safe to call on startup.
func EnsureDefaultConfig() (string, error) {
	configDir, configFile, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configFile); err == nil {
		return configFile, nil
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir %s: %w", configDir, err)
	}

	limits := costs.DefaultLimits()
	defaultCfg := AppConfig{
		Server:   ServerConfig{Host: ptr(DefaultHost), Port: ptr(DefaultPort)},
		Database: DatabaseConfig{Driver: DefaultDriver},
		AI: AIConfig{
			Timeout: DefaultAITimeout,
			Premium: BackendConfig{Provider: "openai", Model: DefaultPremiumModel, APIKeyEnv: DefaultPremiumKeyEnv},
			LowCost: BackendConfig{Provider: "google", Model: DefaultLowCostModel, APIKeyEnv: DefaultLowCostKeyEnv},
		},
		Costs: CostsConfig{
			MonthlyLimitUSD:       ptr(limits.MonthlyUSD),
			DailyLimitUSD:         ptr(limits.DailyUSD),
			AlertThresholdPercent: ptr(limits.AlertThresholdPercent),
		},
	}
	b, err := yaml.Marshal(&defaultCfg)
	if err != nil {
		return "", fmt.Errorf("marshal default config: %w", err)
	}

	// Write with restrictive permissions.
	if err := os.WriteFile(configFile, b, 0o600); err != nil {
		return "", fmt.Errorf("write default config file %s: %w", configFile, err)
	}

	return configFile, nil
}

func (c *AppConfig) Host() string {
	if c == nil || c.Server.Host == nil {
		return DefaultHost
	}
	v := strings.TrimSpace(*c.Server.Host)
	if v == "" {
		return DefaultHost
	}
	return v
}

// Port returns COLLECTLY_PORT when it holds a valid port, then the file value.
func (c *AppConfig) Port() int {
	if v := os.Getenv("COLLECTLY_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p <= 65535 {
			return p
		}
	}
	if c == nil || c.Server.Port == nil {
		return DefaultPort
	}
	return *c.Server.Port
}

func (c *AppConfig) LogLevel() string {
	if c == nil || c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}

func (c *AppConfig) DatabaseDriver() string {
	if c == nil || strings.TrimSpace(c.Database.Driver) == "" {
		return DefaultDriver
	}
	return strings.ToLower(strings.TrimSpace(c.Database.Driver))
}

// DatabaseDSN returns the configured DSN, or the sqlite file under the config dir.
func (c *AppConfig) DatabaseDSN() string {
	if c != nil && strings.TrimSpace(c.Database.DSN) != "" {
		return c.Database.DSN
	}
	configDir, _, err := DefaultPaths()
	if err != nil {
		return "collectly.db"
	}
	return filepath.Join(configDir, "collectly.db")
}

func (c *AppConfig) RedisTTL() time.Duration {
	if c == nil || c.Redis.TTL <= 0 {
		return DefaultRedisTTL
	}
	return c.Redis.TTL
}

func (c *AppConfig) AITimeout() time.Duration {
	if c == nil || c.AI.Timeout <= 0 {
		return DefaultAITimeout
	}
	return c.AI.Timeout
}

// PremiumBackend returns the premium backend config with defaults filled in.
func (c *AppConfig) PremiumBackend() BackendConfig {
	var b BackendConfig
	if c != nil {
		b = c.AI.Premium
	}
	return b.withDefaults("openai", DefaultPremiumModel, DefaultPremiumKeyEnv, DefaultPremiumInput, DefaultPremiumOutput)
}

// LowCostBackend returns the low-cost backend config with defaults filled in.
func (c *AppConfig) LowCostBackend() BackendConfig {
	var b BackendConfig
	if c != nil {
		b = c.AI.LowCost
	}
	return b.withDefaults("google", DefaultLowCostModel, DefaultLowCostKeyEnv, DefaultLowCostInput, DefaultLowCostOutput)
}

func (b BackendConfig) withDefaults(provider, model, keyEnv string, in, out float64) BackendConfig {
	if b.Provider == "" {
		b.Provider = provider
	}
	if b.Model == "" {
		b.Model = model
	}
	if b.APIKeyEnv == "" {
		b.APIKeyEnv = keyEnv
	}
	if b.InputPrice == nil {
		b.InputPrice = ptr(in)
	}
	if b.OutputPrice == nil {
		b.OutputPrice = ptr(out)
	}
	return b
}

// APIKey resolves the backend's API key from the environment.
func (b BackendConfig) APIKey() string {
	if b.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(b.APIKeyEnv)
}

func (c *AppConfig) MonthlyLimitUSD() float64 {
	if c == nil || c.Costs.MonthlyLimitUSD == nil {
		return costs.DefaultLimits().MonthlyUSD
	}
	return *c.Costs.MonthlyLimitUSD
}

func (c *AppConfig) DailyLimitUSD() float64 {
	if c == nil || c.Costs.DailyLimitUSD == nil {
		return costs.DefaultLimits().DailyUSD
	}
	return *c.Costs.DailyLimitUSD
}

func (c *AppConfig) AlertThresholdPercent() float64 {
	if c == nil || c.Costs.AlertThresholdPercent == nil {
		return costs.DefaultLimits().AlertThresholdPercent
	}
	return *c.Costs.AlertThresholdPercent
}

// CostLimits is the organization default used when no settings are stored.
func (c *AppConfig) CostLimits() costs.Limits {
	return costs.Limits{
		MonthlyUSD:            c.MonthlyLimitUSD(),
		DailyUSD:              c.DailyLimitUSD(),
		AlertThresholdPercent: c.AlertThresholdPercent(),
	}
}

// FieldKey resolves the field-encryption secret from the environment.
func (c *AppConfig) FieldKey() string {
	env := DefaultCryptoKeyEnv
	if c != nil && c.Crypto.KeyEnv != "" {
		env = c.Crypto.KeyEnv
	}
	return os.Getenv(env)
}

func ptr[T any](v T) *T { return &v }
