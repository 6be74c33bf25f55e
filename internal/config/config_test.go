package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad(t *testing.T) {
	t.Run("Fills defaults for missing keys", func(t *testing.T) {
		// Given: a config file that only overrides the model and the redis port
		path := filepath.Join(t.TempDir(), "config.yml")
		content := "llm:\n  model: test-model\n  top-k: 10\nredis:\n  port: \"6380\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: the config is loaded
		conf := MustLoad(path)

		// Then: overrides are applied and the rest comes from defaults
		assert.Equal(t, "test-model", conf.LLM.Model)
		assert.Equal(t, 10, conf.LLM.TopK)
		assert.Equal(t, 8192, conf.LLM.MaxTokens)
		assert.InDelta(t, 0.9, conf.LLM.Temperature, 1e-9)
		assert.Equal(t, 500*time.Millisecond, conf.Session.CancelGrace)
		assert.Equal(t, "localhost:6380", conf.Redis.GetRedisAddr())
		assert.False(t, conf.Redis.Enabled)
	})

	t.Run("Panics on a missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
		})
	})
}
