package app

import (
	"os"
	"runtime"

	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds the app-level knobs. Values come from environment variables
// with the listed defaults.
type Config struct {
	// Workers caps how many systems a stage may run concurrently.
	// Zero means one worker per CPU.
	Workers int `env:"LODESTONE_WORKERS" envDefault:"0"`

	// TickRate is the loop runner's update frequency in ticks per second.
	TickRate float64 `env:"LODESTONE_TICK_RATE" envDefault:"60"`

	// LogLevel is a zerolog level string (trace, debug, info, warn, error).
	LogLevel string `env:"LODESTONE_LOG_LEVEL" envDefault:"info"`

	// LogPretty switches the logger to human-readable console output.
	LogPretty bool `env:"LODESTONE_LOG_PRETTY" envDefault:"false"`

	// DiagnosticInterval is how many frames pass between frame-diagnostic
	// log lines. Zero disables them.
	DiagnosticInterval uint64 `env:"LODESTONE_DIAGNOSTIC_INTERVAL" envDefault:"600"`
}

func loadConfig() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse app config")
	}
	if err := cfg.validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate app config")
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Workers < 0 {
		return eris.New("worker count cannot be negative")
	}
	if cfg.TickRate <= 0 {
		return eris.New("tick rate must be positive")
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return eris.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	return nil
}

func (cfg *Config) logger() zerolog.Logger {
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Logger.Level(level)
	if cfg.LogPretty {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger
}
