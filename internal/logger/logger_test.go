package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponent(t *testing.T) {
	entry := New().WithComponent("price")
	assert.Equal(t, "price", entry.Data["component"])

	child := entry.WithFields(Fields{"run_id": "abc"})
	assert.Equal(t, "price", child.Data["component"])
	assert.Equal(t, "abc", child.Data["run_id"])
}

func TestConfigureInvalidValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	assert.Error(t, New().Configure("loud", "text", "stderr", 0))
	assert.Error(t, New().Configure("info", "xml", "stderr", 0))
}

func TestConfigureEnvOverridesLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	log := New()
	require.NoError(t, log.Configure("error", "text", "stderr", 0))
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestConfigureJSONToFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "normalizer.log")

	log := New()
	require.NoError(t, log.Configure("info", "json", path, 0))
	log.WithComponent("pv").LogDuration("normalize", 1500*time.Microsecond)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "operation finished", line["message"])
	assert.Equal(t, "pv", line["component"])
	assert.Equal(t, 1.5, line["duration_ms"])
}
