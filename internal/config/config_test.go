package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.ServerPort)
	assert.Equal(t, "Kid Chore Tool", cfg.TokenIssuer)
	assert.Equal(t, "Kid Chore Tool Users", cfg.TokenAudience)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, MinBcryptCost, cfg.BcryptCost)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("TOKEN_TTL", "24h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_CostFloor(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, MinBcryptCost, cfg.BcryptCost)
}

func TestLoad_BadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestKeysFromEnv(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KeysFromEnv())

	t.Setenv("JWT_PRIVATE_KEY", "pem")
	t.Setenv("JWT_PUBLIC_KEY", "pem")
	assert.True(t, cfg.KeysFromEnv())
}
