package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvDefault(t *testing.T) {
	t.Run("Returns value when set", func(t *testing.T) {
		t.Setenv("FORUM_TEST_KEY", "value")
		assert.Equal(t, "value", GetEnvDefault("FORUM_TEST_KEY", "def"))
	})

	t.Run("Returns default when empty", func(t *testing.T) {
		t.Setenv("FORUM_TEST_KEY", "")
		assert.Equal(t, "def", GetEnvDefault("FORUM_TEST_KEY", "def"))
	})
}

func TestGetEnvInt(t *testing.T) {
	t.Run("Parses positive number", func(t *testing.T) {
		t.Setenv("FORUM_TEST_INT", "25")
		assert.Equal(t, 25, GetEnvInt("FORUM_TEST_INT", 10))
	})

	t.Run("Falls back on garbage", func(t *testing.T) {
		t.Setenv("FORUM_TEST_INT", "ten")
		assert.Equal(t, 10, GetEnvInt("FORUM_TEST_INT", 10))
	})

	t.Run("Falls back on non-positive", func(t *testing.T) {
		t.Setenv("FORUM_TEST_INT", "0")
		assert.Equal(t, 10, GetEnvInt("FORUM_TEST_INT", 10))
	})
}

func TestLoad(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("TOKEN_TTL_HOURS", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, http://example.com,")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, []string{"http://localhost:5173", "http://example.com"}, cfg.CORSOrigins)
}
