package main

import (
	"runtime"
	"time"
)

// Config contains settings that are only read from the environment.
type Config struct {
	LogLevel string `env:"PARINFER_LOG_LEVEL" envDefault:"debug"`
	Workers  int    `env:"PARINFER_WORKERS"`

	// Quiet period before a changed file is processed by watch
	WatchDebounce time.Duration `env:"PARINFER_WATCH_DEBOUNCE" envDefault:"100ms"`
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}
