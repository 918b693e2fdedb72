package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Calendar struct {
		CSVPath string `yaml:"csv_path"`
	} `yaml:"calendar"`
	Market struct {
		Timezone      string            `yaml:"timezone"`
		CutoffHour    int               `yaml:"cutoff_hour"`
		Benchmark     string            `yaml:"benchmark"`
		Symbols       []string          `yaml:"symbols"`
		SymbolAliases map[string]string `yaml:"symbol_aliases"`
		PriceSuffix   string            `yaml:"price_suffix"`
	} `yaml:"market"`
	Feed struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"feed"`
	Sentiment struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
	} `yaml:"sentiment"`
	Window struct {
		Length int `yaml:"length"`
	} `yaml:"window"`
	Schedule struct {
		NewsCron     string `yaml:"news_cron"`
		PricesCron   string `yaml:"prices_cron"`
		LookbackDays int    `yaml:"lookback_days"`
	} `yaml:"schedule"`
	Output struct {
		CSVPath string `yaml:"csv_path"`
	} `yaml:"output"`
	LogLevel string `yaml:"log_level"`
	Proxy    string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A .env file in the working directory is honored first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CALENDAR_CSV"); v != "" {
		cfg.Calendar.CSVPath = v
	}
	if v := os.Getenv("MARKET_TIMEZONE"); v != "" {
		cfg.Market.Timezone = v
	}
	if v := os.Getenv("BENCHMARK_SYMBOL"); v != "" {
		cfg.Market.Benchmark = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.Market.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("FEED_BASE_URL"); v != "" {
		cfg.Feed.BaseURL = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.Sentiment.BaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Sentiment.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Sentiment.Model = v
	}
	if v := os.Getenv("WINDOW_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Window.Length = n
		}
	}
	if v := os.Getenv("OUTPUT_CSV"); v != "" {
		cfg.Output.CSVPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/investments.db"
	}
	if cfg.Calendar.CSVPath == "" {
		cfg.Calendar.CSVPath = "data/tsx_holidays.csv"
	}
	if cfg.Market.Timezone == "" {
		cfg.Market.Timezone = "America/New_York"
	}
	if cfg.Market.CutoffHour == 0 {
		cfg.Market.CutoffHour = 16
	}
	if cfg.Market.Benchmark == "" {
		cfg.Market.Benchmark = "^GSPTSE"
	}
	if cfg.Market.PriceSuffix == "" {
		cfg.Market.PriceSuffix = ".TO"
	}
	if cfg.Window.Length == 0 {
		cfg.Window.Length = 5
	}
	if cfg.Schedule.NewsCron == "" {
		cfg.Schedule.NewsCron = "0 30 17 * * 1-5"
	}
	if cfg.Schedule.PricesCron == "" {
		cfg.Schedule.PricesCron = "0 0 18 * * 1-5"
	}
	if cfg.Schedule.LookbackDays == 0 {
		cfg.Schedule.LookbackDays = 30
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and sane.
func (c *Config) Validate() error {
	if c.Calendar.CSVPath == "" {
		return fmt.Errorf("calendar.csv_path is required")
	}
	if len(c.Market.Symbols) == 0 {
		return fmt.Errorf("market.symbols must not be empty")
	}
	if c.Market.Benchmark == "" {
		return fmt.Errorf("market.benchmark is required")
	}
	if c.Market.CutoffHour < 1 || c.Market.CutoffHour > 23 {
		return fmt.Errorf("market.cutoff_hour must be between 1 and 23")
	}
	if c.Window.Length < 1 {
		return fmt.Errorf("window.length must be positive")
	}
	return nil
}

func splitSymbols(v string) []string {
	parts := strings.Split(v, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}
