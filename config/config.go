// Package config loads indexer settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInvalidExecutor  = errors.New("EXECUTE_CONTRACT is not a hex address")
	ErrInvalidLogFormat = errors.New("LOG_FORMAT must be text or json")
	ErrInvalidInterval  = errors.New("POLL_INTERVAL must be positive")
)

type Config struct {
	ChainURL       string        `env:"CHAIN_URL"        envDefault:"https://emerald.oasis.dev"`
	StartBlock     uint64        `env:"START_BLOCK"      envDefault:"0"`
	PollInterval   time.Duration `env:"POLL_INTERVAL"    envDefault:"3s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"30s"`
	// ExecuteContract restricts execute events to one emitter; empty accepts any.
	ExecuteContract string `env:"EXECUTE_CONTRACT"`
	MetricsAddr     string `env:"METRICS_ADDR"`

	Log LogConfig
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL"        envDefault:"info"`
	Format     string `env:"LOG_FORMAT"       envDefault:"text"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB"  envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS"  envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ExecuteContract != "" && !common.IsHexAddress(c.ExecuteContract) {
		return fmt.Errorf("%w: %q", ErrInvalidExecutor, c.ExecuteContract)
	}
	if c.PollInterval <= 0 {
		return ErrInvalidInterval
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}
	return nil
}

// Executor returns the configured executor contract, or the zero address.
func (c Config) Executor() common.Address {
	if c.ExecuteContract == "" {
		return common.Address{}
	}
	return common.HexToAddress(c.ExecuteContract)
}
