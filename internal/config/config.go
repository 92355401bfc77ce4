package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Data source modes.
const (
	SourceAlchemy = "alchemy"
	SourceMock    = "mock"
)

// Repayment match policies.
const (
	MatchExclusive  = "exclusive"
	MatchFirstLater = "first_later"
)

// Config holds all application configuration.
type Config struct {
	DataSource string `yaml:"data_source"`
	Alchemy    struct {
		APIKey  string `yaml:"api_key"`
		Network string `yaml:"network"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"alchemy"`
	Etherscan struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
		ChainID int    `yaml:"chain_id"`
	} `yaml:"etherscan"`
	CoinGecko struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"coingecko"`
	HTTP struct {
		RateLimitRPS   float64 `yaml:"rate_limit_rps"`
		Burst          int     `yaml:"burst"`
		MaxRetries     int     `yaml:"max_retries"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"http"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		WatchCron string `yaml:"watch_cron"`
	} `yaml:"schedule"`
	Watchlist struct {
		StateFile string   `yaml:"state_file"`
		Wallets   []string `yaml:"wallets"`
	} `yaml:"watchlist"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Scoring struct {
		ETHPriceUSD    float64 `yaml:"eth_price_usd"`
		RepaymentMatch string  `yaml:"repayment_match"`
	} `yaml:"scoring"`
	Registry Registry `yaml:"registry"`
	Proxy    string   `yaml:"proxy"`
}

// DefaultMaxRetries applies when http.max_retries is absent from the config.
const DefaultMaxRetries = 3

// Load reads an optional .env file and the YAML config, then applies
// environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	// Seeded before decoding so an explicit max_retries: 0 disables retries.
	cfg.HTTP.MaxRetries = DefaultMaxRetries

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		c.DataSource = v
	}
	if v := os.Getenv("ALCHEMY_API_KEY"); v != "" {
		c.Alchemy.APIKey = v
	}
	if v := os.Getenv("ALCHEMY_NETWORK"); v != "" {
		c.Alchemy.Network = v
	}
	if v := os.Getenv("ETHERSCAN_API_KEY"); v != "" {
		c.Etherscan.APIKey = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		c.CoinGecko.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("WATCH_CRON"); v != "" {
		c.Schedule.WatchCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("ETH_PRICE_USD"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			c.Scoring.ETHPriceUSD = price
		}
	}
}

func (c *Config) applyDefaults() {
	if c.DataSource == "" {
		c.DataSource = SourceAlchemy
	}
	if c.Alchemy.Network == "" {
		c.Alchemy.Network = "eth-mainnet"
	}
	if c.Etherscan.BaseURL == "" {
		c.Etherscan.BaseURL = "https://api.etherscan.io/v2/api"
	}
	if c.Etherscan.ChainID == 0 {
		c.Etherscan.ChainID = 1
	}
	if c.CoinGecko.BaseURL == "" {
		c.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.HTTP.RateLimitRPS == 0 {
		c.HTTP.RateLimitRPS = 5
	}
	if c.HTTP.Burst == 0 {
		c.HTTP.Burst = 5
	}
	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = 30
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Schedule.WatchCron == "" {
		c.Schedule.WatchCron = "0 0 */6 * * *"
	}
	if c.Watchlist.StateFile == "" {
		c.Watchlist.StateFile = "data/watchlist.json"
	}
	if c.Scoring.ETHPriceUSD == 0 {
		c.Scoring.ETHPriceUSD = 2800
	}
	if c.Scoring.RepaymentMatch == "" {
		c.Scoring.RepaymentMatch = MatchExclusive
	}
	c.Registry.fillDefaults()
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceAlchemy:
		if c.Alchemy.APIKey == "" {
			return fmt.Errorf("alchemy.api_key is required for data_source %q", SourceAlchemy)
		}
	case SourceMock:
	default:
		return fmt.Errorf("data_source must be %q or %q, got %q", SourceAlchemy, SourceMock, c.DataSource)
	}
	if c.Scoring.ETHPriceUSD <= 0 {
		return fmt.Errorf("scoring.eth_price_usd must be positive")
	}
	if c.Scoring.RepaymentMatch != MatchExclusive && c.Scoring.RepaymentMatch != MatchFirstLater {
		return fmt.Errorf("scoring.repayment_match must be %q or %q", MatchExclusive, MatchFirstLater)
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must not be negative")
	}
	if c.Registry.POAPContract == "" || c.Registry.ENSNameWrapper == "" {
		return fmt.Errorf("registry.poap_contract and registry.ens_name_wrapper are required")
	}
	return nil
}

// TelegramEnabled reports whether chat delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
