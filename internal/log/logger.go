// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/ManuGH/asrconf/internal/version"
	"github.com/rs/zerolog"
)

// EnvLogLevel overrides the default level when Config.Level is empty.
const EnvLogLevel = "ASRCONF_LOG_LEVEL"

// Config captures options for configuring the global logger.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stderr)
	Service string    // optional service name attached to every log entry
}

var (
	mu   sync.RWMutex
	once sync.Once
	base zerolog.Logger
)

// Configure initialises the global zerolog logger exactly once.
func Configure(cfg Config) {
	once.Do(func() {
		setBase(build(cfg))
	})
}

// Reconfigure replaces the global logger. The CLI calls it after flag parsing.
func Reconfigure(cfg Config) {
	once.Do(func() {})
	setBase(build(cfg))
}

// levelFor resolves the level from cfg, then the environment. Unparseable
// values fall through to info.
func levelFor(cfg Config) zerolog.Level {
	for _, raw := range []string{cfg.Level, os.Getenv(EnvLogLevel)} {
		if raw == "" {
			continue
		}
		if lvl, err := zerolog.ParseLevel(raw); err == nil {
			return lvl
		}
		break
	}
	return zerolog.InfoLevel
}

func build(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	service := cfg.Service
	if service == "" {
		service = "asrconf"
	}

	return zerolog.New(out).Level(levelFor(cfg)).With().
		Timestamp().
		Str("service", service).
		Str("version", version.Version).
		Logger()
}

func setBase(l zerolog.Logger) {
	mu.Lock()
	base = l
	mu.Unlock()
}

func logger() zerolog.Logger {
	Configure(Config{})
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	return logger()
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return logger().With().Str(FieldComponent, component).Logger()
}
