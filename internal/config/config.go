// Package config provides command line configuration through environment
// variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"
)

type Config struct {
	// StateDir is the directory of the local ledger database.
	StateDir string
	// KeyFile holds the hex encoded private key used to sign transactions.
	KeyFile string

	// LogLevel is a logrus level name.
	LogLevel string
	// LogFormat is "text" or "json".
	LogFormat string

	// StateCacheSize is the number of decoded device states kept in memory.
	StateCacheSize int

	// MetricsEnabled reports transaction metrics to the command's meter.
	MetricsEnabled bool
}

// Load loads configuration from environment variables and a .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		StateDir: env.GetString("CAPBAC_STATE_DIR", "capbac-state"),
		KeyFile:  env.GetString("CAPBAC_KEY_FILE", "capbac.key"),

		LogLevel:  env.GetString("CAPBAC_LOG_LEVEL", "info"),
		LogFormat: env.GetString("CAPBAC_LOG_FORMAT", "text"),

		StateCacheSize: env.GetInt("CAPBAC_STATE_CACHE_SIZE", 256),

		MetricsEnabled: env.GetBool("CAPBAC_METRICS_ENABLED", false),
	}
}

// Validate checks that the configuration can be used.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.StateDir,
			validation.Required.Error("state directory is required"),
		),
		validation.Field(&c.KeyFile,
			validation.Required.Error("key file is required"),
		),
		validation.Field(&c.LogLevel,
			validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal", "panic").
				Error("log level must be a logrus level"),
		),
		validation.Field(&c.LogFormat,
			validation.In("text", "json").Error("log format must be 'text' or 'json'"),
		),
		validation.Field(&c.StateCacheSize,
			validation.Min(0).Error("state cache size cannot be negative"),
		),
	)
}

// loadDotEnv searches for a .env file from the current directory up to the
// root directory and loads the first one found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
