package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origAccount := os.Getenv("CF_ACCOUNT_ID")
	defer os.Setenv("CF_ACCOUNT_ID", origAccount)

	os.Setenv("CF_ACCOUNT_ID", "acct-123")
	os.Setenv("CF_POLL_MAX_ATTEMPTS", "5")
	os.Setenv("CF_API_BASE", "http://localhost:9000/client/v4")

	cfg := Load()

	assert.Equal(t, "acct-123", cfg.Cloudflare.AccountID)
	assert.Equal(t, 5, cfg.Cloudflare.PollMaxAttempts)
	assert.Equal(t, "http://localhost:9000/client/v4", cfg.Cloudflare.APIBase)

	os.Unsetenv("CF_POLL_MAX_ATTEMPTS")
	os.Unsetenv("CF_API_BASE")
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("CF_API_BASE")
	os.Unsetenv("CF_POLL_INTERVAL_SEC")
	os.Unsetenv("CF_LIST_PAGE_SIZE")

	cfg := Load()

	assert.Equal(t, "https://api.cloudflare.com/client/v4", cfg.Cloudflare.APIBase)
	assert.Equal(t, 10, cfg.Cloudflare.PollIntervalSec)
	assert.Equal(t, 1000, cfg.Cloudflare.PageSize)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
