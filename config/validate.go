package config

import (
	"errors"
	"fmt"
)

// Validate ensures required fields are present.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.InitialARS < 0 {
		return errors.New("initialARS must be >= 0")
	}
	if cfg.FeeRate <= 0 || cfg.FeeRate >= 1 {
		return errors.New("feeRate must be in (0, 1)")
	}
	if cfg.MaxIterations <= 0 {
		return errors.New("maxIterations must be > 0")
	}
	if len(cfg.Pairs) < 2 {
		return errors.New("at least 2 pairs are required")
	}
	for name, pc := range cfg.Pairs {
		if pc.PesoSecurity == "" {
			return fmt.Errorf("pair %s pesoSecurity is required", name)
		}
		if pc.DollarSecurity == "" {
			return fmt.Errorf("pair %s dollarSecurity is required", name)
		}
	}
	if cfg.Feed.DataDir == "" && cfg.Feed.WSURL == "" {
		return errors.New("feed.dataDir or feed.wsURL is required")
	}
	return nil
}
