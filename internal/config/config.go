package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider names accepted in the market, analyst and payment sections.
const (
	ProviderFake      = "fake"
	ProviderLive      = "live"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderSolanaPay = "solanapay"
)

// Config holds the simglobe API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
	Cache   CacheConfig   `yaml:"cache"`
	Market  MarketConfig  `yaml:"market"`
	Analyst AnalystConfig `yaml:"analyst"`
	Payment PaymentConfig `yaml:"payment"`
	Engine  EngineConfig  `yaml:"engine"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"` // extra allowed origins
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis (default: memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	MaxCostMB        int64    `yaml:"max_cost_mb"`
	RisksTTLSec      int      `yaml:"risks_ttl_sec"`
	BriefingTTLSec   int      `yaml:"briefing_ttl_sec"`
}

// MarketConfig holds prediction market provider settings.
type MarketConfig struct {
	Provider           string   `yaml:"provider"` // live, fake (default: live when api_key is set)
	BaseURL            string   `yaml:"base_url"`
	APIKey             string   `yaml:"api_key"`
	TimeoutSec         int      `yaml:"timeout_sec"`
	FetchLimit         int      `yaml:"fetch_limit"`
	RelevantCategories []string `yaml:"relevant_categories"`
	RelevantKeywords   []string `yaml:"relevant_keywords"`
}

// AnalystConfig holds generative text provider settings.
type AnalystConfig struct {
	Provider   string       `yaml:"provider"` // gemini, openai, fake (default: gemini when api_key is set)
	APIKey     string       `yaml:"api_key"`
	BaseURL    string       `yaml:"base_url"`
	Model      string       `yaml:"model"`
	TimeoutSec int          `yaml:"timeout_sec"`
	Budget     BudgetConfig `yaml:"budget"`
}

// BudgetConfig caps model requests per UTC day and month. Zero limits are unlimited.
type BudgetConfig struct {
	DailyRequestLimit   int64  `yaml:"daily_request_limit"`
	MonthlyRequestLimit int64  `yaml:"monthly_request_limit"`
	Action              string `yaml:"action"` // warn, reject (default: warn)
}

// PaymentConfig holds Solana Pay settings.
type PaymentConfig struct {
	Provider        string `yaml:"provider"` // solanapay, fake (default: solanapay when recipient is set)
	Recipient       string `yaml:"recipient"`
	SPLToken        string `yaml:"spl_token"`
	ExpiryMin       int    `yaml:"expiry_min"`
	ConfirmDelaySec int    `yaml:"confirm_delay_sec"`
	QRSize          int    `yaml:"qr_size"`
}

// EngineConfig holds the relevance engine heuristics.
type EngineConfig struct {
	KeywordWeight  int     `yaml:"keyword_weight"`
	CategoryWeight int     `yaml:"category_weight"`
	DirectWeight   int     `yaml:"direct_weight"`
	HedgeBase      float64 `yaml:"hedge_base"`
	HedgeSpan      float64 `yaml:"hedge_span"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references, applying defaults and validating.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 3001
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Cache.MaxCostMB <= 0 {
		c.Cache.MaxCostMB = 64
	}
	if c.Cache.RisksTTLSec <= 0 {
		c.Cache.RisksTTLSec = 60
	}
	if c.Cache.BriefingTTLSec <= 0 {
		c.Cache.BriefingTTLSec = 300
	}

	c.applyMarketDefaults()
	c.applyAnalystDefaults()
	c.applyPaymentDefaults()

	if c.Engine.KeywordWeight <= 0 {
		c.Engine.KeywordWeight = 10
	}
	if c.Engine.CategoryWeight <= 0 {
		c.Engine.CategoryWeight = 15
	}
	if c.Engine.DirectWeight <= 0 {
		c.Engine.DirectWeight = 5
	}
	if c.Engine.HedgeBase == 0 && c.Engine.HedgeSpan == 0 {
		c.Engine.HedgeBase = 0.2
		c.Engine.HedgeSpan = 0.3
	}
}

func (c *Config) applyMarketDefaults() {
	m := &c.Market
	if m.Provider == "" {
		m.Provider = ProviderFake
		if isSet(m.APIKey) {
			m.Provider = ProviderLive
		}
	}
	if m.BaseURL == "" {
		m.BaseURL = "https://gamma-api.polymarket.com"
	}
	if m.TimeoutSec <= 0 {
		m.TimeoutSec = 10
	}
	if m.FetchLimit <= 0 {
		m.FetchLimit = 50
	}
	if len(m.RelevantCategories) == 0 {
		m.RelevantCategories = []string{"Economics", "Business", "Politics", "World Events", "Finance"}
	}
	if len(m.RelevantKeywords) == 0 {
		m.RelevantKeywords = []string{
			"port", "shipping", "supply chain", "inflation", "tariff",
			"trade", "strike", "oil", "gas", "recession", "fed",
			"interest rate", "dollar", "china", "manufacturing",
		}
	}
}

func (c *Config) applyAnalystDefaults() {
	a := &c.Analyst
	if a.Provider == "" {
		a.Provider = ProviderFake
		if isSet(a.APIKey) {
			a.Provider = ProviderGemini
		}
	}
	if a.Model == "" {
		switch a.Provider {
		case ProviderOpenAI:
			a.Model = "gpt-4o-mini"
		default:
			a.Model = "gemini-2.0-flash"
		}
	}
	if a.TimeoutSec <= 0 {
		a.TimeoutSec = 30
	}
	if a.Budget.Action == "" {
		a.Budget.Action = "warn"
	}
}

func (c *Config) applyPaymentDefaults() {
	p := &c.Payment
	if p.Provider == "" {
		p.Provider = ProviderFake
		if p.Recipient != "" {
			p.Provider = ProviderSolanaPay
		}
	}
	if p.SPLToken == "" {
		p.SPLToken = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v" // USDC mint
	}
	if p.ExpiryMin <= 0 {
		p.ExpiryMin = 10
	}
	if p.ConfirmDelaySec <= 0 {
		p.ConfirmDelaySec = 3
	}
	if p.QRSize <= 0 {
		p.QRSize = 256
	}
}

// isSet treats the .env.example placeholders as unset.
func isSet(key string) bool {
	return key != "" && !strings.HasPrefix(key, "your_")
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Cache.Driver {
	case "memory":
	case "redis":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("cache.driver must be \"memory\" or \"redis\", got %q", c.Cache.Driver)
	}

	if err := oneOf("market.provider", c.Market.Provider, ProviderLive, ProviderFake); err != nil {
		return err
	}
	if err := oneOf("analyst.provider", c.Analyst.Provider, ProviderGemini, ProviderOpenAI, ProviderFake); err != nil {
		return err
	}
	if c.Analyst.Provider != ProviderFake && !isSet(c.Analyst.APIKey) {
		return fmt.Errorf("analyst.api_key is required for provider %q", c.Analyst.Provider)
	}
	if err := oneOf("analyst.budget.action", c.Analyst.Budget.Action, "warn", "reject"); err != nil {
		return err
	}
	if c.Analyst.Budget.DailyRequestLimit < 0 || c.Analyst.Budget.MonthlyRequestLimit < 0 {
		return fmt.Errorf("analyst.budget limits must not be negative")
	}
	if err := oneOf("payment.provider", c.Payment.Provider, ProviderSolanaPay, ProviderFake); err != nil {
		return err
	}
	if c.Payment.Provider == ProviderSolanaPay && c.Payment.Recipient == "" {
		return fmt.Errorf("payment.recipient is required for provider %q", ProviderSolanaPay)
	}

	if c.Engine.HedgeBase < 0 || c.Engine.HedgeSpan < 0 || c.Engine.HedgeBase+c.Engine.HedgeSpan > 1 {
		return fmt.Errorf("engine.hedge_base and engine.hedge_span must be non-negative and sum to at most 1")
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
