// Package config loads application configuration from a YAML file with
// environment-variable overrides. The wallet key never lives in the file.
package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration, read-only after load.
type Config struct {
	// Backend is the REST host, e.g. "localhost:8080".
	Backend string `yaml:"backend"`

	Chain ChainConfig `yaml:"chain"`
	Log   LogConfig   `yaml:"log"`

	// WalletAddress identifies the session's wallet. The signing key is
	// taken from TRIVEX_PRIVATE_KEY and never written to disk here.
	WalletAddress string `yaml:"wallet_address"`
	PrivateKey    string `yaml:"-"`
	Whitelisted   bool   `yaml:"whitelisted"`
}

// ChainConfig locates the settlement deployment.
type ChainConfig struct {
	RPCURL            string `yaml:"rpc_url"`
	ChainID           int64  `yaml:"chain_id"`
	SettlementAddress string `yaml:"settlement_address"`
	TokenAddress      string `yaml:"token_address"`
}

// LogConfig mirrors pkg/logger.Config.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Load reads path (optional) and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Backend: "localhost:8080",
		Log: LogConfig{
			Level:      "info",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
		Whitelisted: true,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}

	applyEnv(cfg)

	if cfg.Chain.RPCURL == "" {
		return nil, errors.New("chain rpc_url is required")
	}
	if cfg.Chain.SettlementAddress == "" || cfg.Chain.TokenAddress == "" {
		return nil, errors.New("settlement_address and token_address are required")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TRIVEX_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("TRIVEX_RPC_URL"); v != "" {
		cfg.Chain.RPCURL = v
	}
	if v := os.Getenv("TRIVEX_CHAIN_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Chain.ChainID = id
		}
	}
	if v := os.Getenv("TRIVEX_SETTLEMENT_ADDRESS"); v != "" {
		cfg.Chain.SettlementAddress = v
	}
	if v := os.Getenv("TRIVEX_TOKEN_ADDRESS"); v != "" {
		cfg.Chain.TokenAddress = v
	}
	if v := os.Getenv("TRIVEX_WALLET_ADDRESS"); v != "" {
		cfg.WalletAddress = v
	}
	if v := os.Getenv("TRIVEX_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TRIVEX_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	cfg.PrivateKey = os.Getenv("TRIVEX_PRIVATE_KEY")
}
