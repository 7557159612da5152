// Package logging builds the zap loggers used across album-catalog.
package logging

import (
	"go.uber.org/zap"
)

// Service is attached to every log line as the "service" field.
const Service = "album-catalog"

// Version is attached to every log line as the "version" field. Release
// builds set it with -ldflags "-X .../internal/logging.Version=v1.2.3".
var Version = "dev"

// New builds a logger. Format "json" selects zap's production encoder,
// anything else the human readable development one. An unknown level
// falls back to info. Both write to stderr.
func New(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Level = lvl

	cfg.InitialFields = map[string]interface{}{
		"service": Service,
		"version": Version,
	}

	return cfg.Build()
}
