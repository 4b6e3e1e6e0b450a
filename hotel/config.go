package hotel

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds client settings, read from BOOKINN_* environment variables.
type Config struct {
	APIBaseURL  string `mapstructure:"API_URL"`
	SessionPath string `mapstructure:"SESSION_PATH"`
	Timeout     int    `mapstructure:"TIMEOUT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
}

// LoadConfig reads configuration from the environment with sane defaults.
func LoadConfig() *Config {
	viper.SetEnvPrefix("BOOKINN")
	viper.SetDefault("API_URL", "http://localhost:8080")
	viper.SetDefault("SESSION_PATH", defaultSessionPath())
	viper.SetDefault("TIMEOUT", 15)
	viper.SetDefault("LOG_LEVEL", "info")

	viper.BindEnv("API_URL")
	viper.BindEnv("SESSION_PATH")
	viper.BindEnv("TIMEOUT")
	viper.BindEnv("LOG_LEVEL")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode config, %v", err)
	}
	return &config
}

// RequestTimeout returns the HTTP client timeout.
func (c *Config) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// SlogLevel maps the configured level name to a slog.Level, defaulting to
// info for unrecognized values.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.db"
	}
	return filepath.Join(home, ".bookinn", "session.db")
}
