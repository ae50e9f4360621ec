package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KIOSK_ADMIN_PIN", "")
	os.Unsetenv("KIOSK_ADMIN_PIN")

	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "9999", c.AdminPIN)
	assert.Equal(t, ":8080", c.ShareAddr)
	assert.Equal(t, 15*time.Second, c.NotificationTTL)
	assert.Equal(t, logrus.InfoLevel, c.Level())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("KIOSK_ADMIN_PIN", "246810")
	t.Setenv("KIOSK_STATION_ID", "Yard 3")
	t.Setenv("KIOSK_NOTIFICATION_TTL", "5s")
	t.Setenv("KIOSK_LOG_LEVEL", "debug")

	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "246810", c.AdminPIN)
	assert.Equal(t, "Yard 3", c.StationID)
	assert.Equal(t, 5*time.Second, c.NotificationTTL)
	assert.Equal(t, logrus.DebugLevel, c.Level())
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("KIOSK_STATION_ID", "")
	os.Unsetenv("KIOSK_STATION_ID")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KIOSK_STATION_ID=North Gate\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("KIOSK_STATION_ID") })

	n, err := LoadEnv([]string{path, filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "North Gate", c.StationID)
}

func TestValidateAdminPIN(t *testing.T) {
	base := Config{AdminPIN: "9999", LogLevel: "info", NotificationTTL: time.Second}
	require.NoError(t, base.Validate())

	for _, pin := range []string{"123", "12345678901", "12a4"} {
		c := base
		c.AdminPIN = pin
		assert.Error(t, c.Validate(), pin)
	}

	c := base
	c.NotificationTTL = 0
	assert.Error(t, c.Validate())

	c = base
	c.LogLevel = "loud"
	assert.Error(t, c.Validate())
}
