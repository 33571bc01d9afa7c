package main

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// logConfig is read from the environment so logging can be redirected
// without touching the config file.
type logConfig struct {
	Logfile string `env:"FLOWTTS_LOGFILE"`
	Debug   bool   `env:"FLOWTTS_DEBUG"`
}

// setupLog configures the default logger and returns a closer for any log
// file it opened.
func setupLog() (func() error, error) {
	cfg, err := env.ParseAs[logConfig]()
	if err != nil {
		return nil, fmt.Errorf("error parsing log config: %w", err)
	}

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	log.SetReportTimestamp(false)

	if cfg.Logfile == "" {
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(cfg.Logfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	return f.Close, nil
}
