package config

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a zap logger: production encoding for "json", the
// development console encoder otherwise.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zc.Level = level
	}
	return zc.Build()
}
