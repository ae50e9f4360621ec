package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultEnvFiles are read, when present, before the environment is parsed.
var DefaultEnvFiles = []string{".env", ".env.local"}

type Config struct {
	AdminPIN        string        `env:"KIOSK_ADMIN_PIN" envDefault:"9999"`
	StationID       string        `env:"KIOSK_STATION_ID" envDefault:"Kiosk"`
	DBPath          string        `env:"KIOSK_DB_PATH"`
	LogPath         string        `env:"KIOSK_LOG_PATH"`
	LogLevel        string        `env:"KIOSK_LOG_LEVEL" envDefault:"info"`
	ShareAddr       string        `env:"KIOSK_SHARE_ADDR" envDefault:":8080"`
	ShareBaseURL    string        `env:"KIOSK_SHARE_BASE_URL" envDefault:"http://localhost:8080"`
	NotificationTTL time.Duration `env:"KIOSK_NOTIFICATION_TTL" envDefault:"15s"`
	ExportDir       string        `env:"KIOSK_EXPORT_DIR"`
}

// LoadEnv loads the env files that exist and returns how many were read.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads envFiles and then the process environment. Variables already
// set in the environment win over the files.
func Load(envFiles []string) (*Config, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if n := len(c.AdminPIN); n < 4 || n > 10 {
		return fmt.Errorf("KIOSK_ADMIN_PIN must be 4-10 digits, got %d characters", n)
	}
	for _, r := range c.AdminPIN {
		if r < '0' || r > '9' {
			return fmt.Errorf("KIOSK_ADMIN_PIN must contain only digits")
		}
	}
	if c.NotificationTTL <= 0 {
		return fmt.Errorf("KIOSK_NOTIFICATION_TTL must be positive, got %s", c.NotificationTTL)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("KIOSK_LOG_LEVEL: %w", err)
	}
	return nil
}

// Level is the parsed KIOSK_LOG_LEVEL.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
