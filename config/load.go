package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"bond-arb-go/infrastructure/logger"
	"bond-arb-go/strategy"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env           string                `yaml:"env"`
	InitialARS    float64               `yaml:"initialARS"`
	FeeRate       float64               `yaml:"feeRate"`
	MaxIterations int                   `yaml:"maxIterations"`
	Pairs         map[string]PairConfig `yaml:"pairs"`
	Feed          FeedConfig            `yaml:"feed"`
	Log           logger.Config         `yaml:"log"`
	MetricsAddr   string                `yaml:"metricsAddr"`
	APIAddr       string                `yaml:"apiAddr"`
}

// PairConfig 描述一个债券对的比索/美元证券标识。
type PairConfig struct {
	PesoSecurity   string `yaml:"pesoSecurity"`
	DollarSecurity string `yaml:"dollarSecurity"`
}

// FeedConfig 行情来源配置：CSV 回放目录或 WS 地址。
type FeedConfig struct {
	DataDir string `yaml:"dataDir"`
	WSURL   string `yaml:"wsURL"`
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides selected fields from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("ARB_WS_URL"); v != "" {
		cfg.Feed.WSURL = v
	}
	if v := os.Getenv("ARB_DATA_DIR"); v != "" {
		cfg.Feed.DataDir = v
	}
	if v := os.Getenv("ARB_INITIAL_ARS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("parse ARB_INITIAL_ARS: %w", err)
		}
		cfg.InitialARS = f
	}
	return cfg, Validate(cfg)
}

func applyDefaults(cfg *AppConfig) {
	if cfg.FeeRate == 0 {
		cfg.FeeRate = strategy.DefaultFeeRate
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = 100
	}
	if cfg.Log.Level == "" {
		cfg.Log = logger.DefaultConfig()
	}
}

// Registry builds the strategy pair registry from config, sorted by pair name.
func (c AppConfig) Registry() (*strategy.Registry, error) {
	pairs := make([]strategy.Pair, 0, len(c.Pairs))
	for name, pc := range c.Pairs {
		pairs = append(pairs, strategy.Pair{
			Name:           name,
			PesoSecurity:   pc.PesoSecurity,
			DollarSecurity: pc.DollarSecurity,
		})
	}
	return strategy.NewRegistry(pairs)
}
