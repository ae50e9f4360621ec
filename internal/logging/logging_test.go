package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "kiosk.log")
	f, logger, err := FileLogger(logrus.InfoLevel, path)
	require.NoError(t, err)

	logger.WithField("op", "clock in").Error("backend unreachable")
	logger.Debug("hidden")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "backend unreachable")
	assert.Contains(t, out, `op="clock in"`)
	assert.False(t, strings.Contains(out, "hidden"))
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}
