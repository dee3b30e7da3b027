package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("TABLE_NAME", "pcc3-test")
		t.Setenv("AWS_REGION", "")
		t.Setenv("REGION", "")

		cfg, err := LoadFromEnv()
		require.NoError(t, err)

		assert.Equal(t, "pcc3-test", cfg.DynamoDBTableName)
		assert.Equal(t, "dev", cfg.Environment)
		assert.Equal(t, "eu-central-1", cfg.AWSRegion)
		assert.Equal(t, "https://api.groq.com/openai/v1", cfg.GroqBaseURL)
		assert.Equal(t, "llama3-8b-8192", cfg.GroqModel)
		assert.Equal(t, 150, cfg.GroqMaxTokens)
		assert.Equal(t, 30*time.Second, cfg.GroqTimeout)
		assert.Equal(t, 2.0, cfg.GroqRequestsPerSecond)
		assert.Equal(t, "Polish", cfg.DefaultLanguage)
		assert.Equal(t, 40, cfg.MaxTranscriptMessages)
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
		assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("TABLE_NAME", "pcc3-test")
		t.Setenv("REGION", "eu")
		t.Setenv("AWS_REGION", "")
		t.Setenv("MAX_TRANSCRIPT_MESSAGES", "0")
		t.Setenv("GROQ_TIMEOUT", "5s")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := LoadFromEnv()
		require.NoError(t, err)

		assert.Equal(t, "eu-west-1", cfg.AWSRegion)
		assert.Equal(t, 0, cfg.MaxTranscriptMessages)
		assert.Equal(t, 5*time.Second, cfg.GroqTimeout)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	})

	t.Run("missing table", func(t *testing.T) {
		t.Setenv("TABLE_NAME", "")

		_, err := LoadFromEnv()
		assert.Error(t, err)
	})

	t.Run("transcript cap too small", func(t *testing.T) {
		for _, v := range []string{"1", "-4"} {
			t.Setenv("TABLE_NAME", "pcc3-test")
			t.Setenv("MAX_TRANSCRIPT_MESSAGES", v)

			_, err := LoadFromEnv()
			assert.ErrorContains(t, err, "MAX_TRANSCRIPT_MESSAGES", v)
		}
	})

	t.Run("smallest transcript cap", func(t *testing.T) {
		t.Setenv("TABLE_NAME", "pcc3-test")
		t.Setenv("MAX_TRANSCRIPT_MESSAGES", "2")

		cfg, err := LoadFromEnv()
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.MaxTranscriptMessages)
	})

	t.Run("malformed number", func(t *testing.T) {
		t.Setenv("TABLE_NAME", "pcc3-test")
		t.Setenv("GROQ_MAX_TOKENS", "lots")

		_, err := LoadFromEnv()
		assert.Error(t, err)
	})
}
