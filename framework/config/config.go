package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App     AppConfig
	Log     LogConfig
	Debug   DebugConfig
	Metrics MetricsConfig
}

type AppConfig struct {
	Name string `env:"APP_NAME" envDefault:"go-ctx"`
	Env  string `env:"APP_ENV" envDefault:"local"` // local | production | testing
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`     // debug | info | warn | error
	Format string `env:"LOG_FORMAT" envDefault:"console"` // console | json
}

// DebugConfig controls the inspection HTTP server.
type DebugConfig struct {
	Enabled bool   `env:"DEBUG_ENABLED" envDefault:"true"`
	Addr    string `env:"DEBUG_ADDR" envDefault:":8000"`
}

type MetricsConfig struct {
	Namespace string `env:"METRICS_NAMESPACE" envDefault:"goctx"`
}

// Load reads .env (if present) and populates a Config from environment
// variables. A malformed value falls back to the defaults.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	cfg, err := LoadE(envFiles...)
	if err != nil {
		return Defaults()
	}
	return cfg
}

// LoadE is Load but reports parse errors.
func LoadE(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Defaults returns the configuration with every default applied and the
// environment ignored.
func Defaults() *Config {
	var cfg Config
	// cannot fail: no required fields and the defaults parse
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	return &cfg
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool { return c.App.Env == "production" }
