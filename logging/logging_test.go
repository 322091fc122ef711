package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, closer, err := New("debug", path)
	require.NoError(t, err)

	logger.WithField("component", "test").Debug("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "test", line["component"])
	assert.Equal(t, "debug", line["level"])
}

func TestNewStderr(t *testing.T) {
	logger, closer, err := New("warn", "-")
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.Equal(t, os.Stderr, logger.Out)
}

func TestNewBadLevel(t *testing.T) {
	_, _, err := New("chatty", "-")
	assert.Error(t, err)
}
