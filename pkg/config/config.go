// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// PathEnv names the environment variable holding an optional YAML config path.
const PathEnv = "ADMARKET_CONFIG_PATH"

const DefaultBotURL = "https://t.me/build_contest_ads_bot"

// TON networks understood by the payment flow.
const (
	NetworkTestnet = "testnet"
	NetworkMainnet = "mainnet"
)

var (
	ErrInvalidBaseURL = errors.New("api base url must be an absolute http(s) url")
	ErrInvalidNetwork = errors.New("ton network must be testnet or mainnet")
	ErrInvalidStorage = errors.New("storage type must be memory or badger")
)

type Config struct {
	Env        string    `yaml:"env" env:"ADMARKET_ENV" env-default:"development"`
	API        API       `yaml:"api"`
	BotURL     string    `yaml:"bot_url" env:"ADMARKET_BOT_URL" env-default:"https://t.me/build_contest_ads_bot"`
	TONNetwork string    `yaml:"ton_network" env:"ADMARKET_TON_NETWORK" env-default:"testnet"`
	InitData   string    `yaml:"init_data" env:"ADMARKET_INIT_DATA"`
	Log        LogConfig `yaml:"log"`
	Storage    Storage   `yaml:"storage"`
	Metrics    Metrics   `yaml:"metrics"`
}

type API struct {
	BaseURL string `yaml:"base_url" env:"ADMARKET_API_BASE" env-required:"true"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"ADMARKET_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"ADMARKET_LOG_FORMAT" env-default:"console"`
}

type Storage struct {
	Type string `yaml:"type" env:"ADMARKET_STORAGE_TYPE" env-default:"badger"`
	Path string `yaml:"path" env:"ADMARKET_STORAGE_PATH" env-default:".admarket"`
}

type Metrics struct {
	Addr string `yaml:"addr" env:"ADMARKET_METRICS_ADDR"`
}

// Load reads a .env file when one exists, then the YAML file at path (if
// non-empty) overlaid with the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad loads the configuration from ADMARKET_CONFIG_PATH or the environment
// and panics on failure.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv(PathEnv))
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate checks the values that cannot be expressed as struct tags.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}
	switch c.TONNetwork {
	case NetworkTestnet, NetworkMainnet:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidNetwork, c.TONNetwork)
	}
	switch c.Storage.Type {
	case "memory", "badger":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStorage, c.Storage.Type)
	}
	if c.BotURL == "" {
		c.BotURL = DefaultBotURL
	}
	return nil
}

// Usage returns a description of the environment variables for -help output.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
