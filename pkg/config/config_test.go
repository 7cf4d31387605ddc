package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, StorageBolt, cfg.Storage.Driver)
	assert.Equal(t, "data/arqon.db", cfg.Storage.BoltPath)
	assert.Equal(t, PasswordBcrypt, cfg.Auth.PasswordScheme)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "arqon-study-api", cfg.JWT.Issuer)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("STORAGE_DRIVER", " Redis ")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("JWT_EXPIRATION", "not-a-duration")
	t.Setenv("PASSWORD_SCHEME", "LEGACY")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, 90*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, PasswordLegacy, cfg.Auth.PasswordScheme)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 6380, cfg.Redis.Port)
}

func TestUnknownPasswordSchemeFallsBackToBcrypt(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("PASSWORD_SCHEME", "md5")

	assert.Equal(t, PasswordBcrypt, fromViper(v).Auth.PasswordScheme)
}
