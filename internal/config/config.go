package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

// Modes accepted by Validate.
const (
	ModeCheck = "check"
	ModeServe = "serve"
	ModeWatch = "watch"
)

// Config holds all application configuration.
type Config struct {
	Quote     QuoteConfig     `yaml:"quote"`
	News      NewsConfig      `yaml:"news"`
	Messaging MessagingConfig `yaml:"messaging"`
	Output    OutputConfig    `yaml:"output"`
	Database  DatabaseConfig  `yaml:"database"`
	Server    ServerConfig    `yaml:"server"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Watchlist []WatchEntry    `yaml:"watchlist"`
	Log       LogConfig       `yaml:"log"`
}

type QuoteConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Proxy    string `yaml:"proxy"`
}

type NewsConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
}

type MessagingConfig struct {
	Channel string `yaml:"channel"`
	Twilio  struct {
		AccountSID string `yaml:"account_sid"`
		AuthToken  string `yaml:"auth_token"`
		FromNumber string `yaml:"from_number"`
	} `yaml:"twilio"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
}

type OutputConfig struct {
	CSVPath   string `yaml:"csv_path"`
	Format    string `yaml:"format"`
	ChartPath string `yaml:"chart_path"`
}

type DatabaseConfig struct {
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type ScheduleConfig struct {
	DailyCron string `yaml:"daily_cron"`
}

// WatchEntry is one symbol evaluated by the daily job.
type WatchEntry struct {
	Symbol  string `yaml:"symbol"`
	Company string `yaml:"company"`
	Phone   string `yaml:"phone"`
	Action  string `yaml:"action"`
}

// LogConfig drives logger.New.
type LogConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	OutputFile  string `yaml:"output_file"`
	Environment string `yaml:"environment"`
}

// ResolvePath returns CONFIG_PATH or the default location.
func ResolvePath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads config from a YAML file, loads .env, then applies environment
// variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
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

	// .env never overrides variables already present in the process.
	_ = godotenv.Load()

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	override := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}

	override(&cfg.Quote.Provider, "QUOTE_PROVIDER")
	override(&cfg.Quote.APIKey, "STOCK_API_KEY")
	override(&cfg.Quote.BaseURL, "QUOTE_BASE_URL")
	override(&cfg.Quote.Proxy, "HTTPS_PROXY")
	override(&cfg.News.Provider, "NEWS_PROVIDER")
	override(&cfg.News.APIKey, "NEWS_API_KEY")
	override(&cfg.News.BaseURL, "NEWS_BASE_URL")
	override(&cfg.Messaging.Channel, "MESSAGING_CHANNEL")
	override(&cfg.Messaging.Twilio.AccountSID, "TWILIO_SID")
	override(&cfg.Messaging.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	override(&cfg.Messaging.Twilio.FromNumber, "TWILIO_FROM_NUMBER")
	override(&cfg.Messaging.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	override(&cfg.Messaging.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	override(&cfg.Output.CSVPath, "CSV_PATH")
	override(&cfg.Output.ChartPath, "CHART_PATH")
	override(&cfg.Database.Driver, "DB_DRIVER")
	override(&cfg.Database.SQLitePath, "SQLITE_PATH")
	override(&cfg.Database.PostgresDSN, "POSTGRES_DSN")
	override(&cfg.Server.Addr, "SERVER_ADDR")
	override(&cfg.Schedule.DailyCron, "CRON_DAILY")
	override(&cfg.Log.Level, "LOG_LEVEL")
	override(&cfg.Log.Environment, "APP_ENV")
}

func applyDefaults(cfg *Config) {
	for _, v := range []*string{
		&cfg.Quote.Provider,
		&cfg.News.Provider,
		&cfg.Messaging.Channel,
		&cfg.Output.Format,
		&cfg.Database.Driver,
	} {
		*v = strings.ToLower(strings.TrimSpace(*v))
	}

	if cfg.Quote.Provider == "" {
		cfg.Quote.Provider = "alphavantage"
	}
	if cfg.News.Provider == "" {
		cfg.News.Provider = "newsapi"
	}
	if cfg.Messaging.Channel == "" {
		cfg.Messaging.Channel = "sms"
	}
	if cfg.Output.CSVPath == "" {
		cfg.Output.CSVPath = "stock_data.csv"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "csv"
	}
	if cfg.Output.ChartPath == "" {
		cfg.Output.ChartPath = "stock_chart.png"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "none"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockpulse.db"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 22 * * 1-5"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Environment == "" {
		cfg.Log.Environment = "dev"
	}
}

// Validate checks that the fields required by mode are set.
func (c *Config) Validate(mode string) error {
	switch c.Quote.Provider {
	case "alphavantage":
		if c.Quote.APIKey == "" {
			return fmt.Errorf("quote.api_key is required (STOCK_API_KEY)")
		}
	case "yahoo", "mock":
	default:
		return fmt.Errorf("quote.provider %q is not supported", c.Quote.Provider)
	}
	if c.News.APIKey == "" {
		return fmt.Errorf("news.api_key is required (NEWS_API_KEY)")
	}
	if c.Output.Format != "csv" && c.Output.Format != "parquet" {
		return fmt.Errorf("output.format must be csv or parquet")
	}

	switch strings.ToLower(c.Messaging.Channel) {
	case "sms", "whatsapp":
		t := c.Messaging.Twilio
		if t.AccountSID == "" || t.AuthToken == "" || t.FromNumber == "" {
			return fmt.Errorf("messaging.twilio account_sid, auth_token and from_number are required for channel %s", c.Messaging.Channel)
		}
	case "telegram":
		if c.Messaging.Telegram.BotToken == "" || c.Messaging.Telegram.ChatID == "" {
			return fmt.Errorf("messaging.telegram bot_token and chat_id are required for channel telegram")
		}
	default:
		return fmt.Errorf("messaging.channel %q is not supported", c.Messaging.Channel)
	}

	switch c.Database.Driver {
	case "none", "sqlite":
	case "postgres":
		if c.Database.PostgresDSN == "" {
			return fmt.Errorf("database.postgres_dsn is required for driver postgres")
		}
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}

	if mode == ModeWatch {
		if len(c.Watchlist) == 0 {
			return fmt.Errorf("watchlist must contain at least one entry")
		}
		for i, w := range c.Watchlist {
			if w.Symbol == "" || w.Company == "" {
				return fmt.Errorf("watchlist[%d]: symbol and company are required", i)
			}
		}
	}
	return nil
}
