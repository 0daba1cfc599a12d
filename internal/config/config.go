// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/retroenv/disasm86/internal/isa"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateRegistry creates the template registry for the given table name.
func CreateRegistry(table string) (*isa.Registry, error) {
	registry, err := isa.Table(table)
	if err != nil {
		return nil, fmt.Errorf("creating template registry: %w", err)
	}
	return registry, nil
}
