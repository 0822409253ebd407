package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, TokenDriverJWT, cfg.Auth.TokenDriver)
	assert.Equal(t, "authservice", cfg.Auth.JWTIssuer)
	assert.Equal(t, "authservice-clients", cfg.Auth.JWTAudience)
	assert.Equal(t, 60*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenDuration)
	assert.Equal(t, 15*time.Minute, cfg.Auth.ResetTokenDuration)
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.Server.TrustedOrigins)
}

func TestLoad_JWTSecretRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TOKEN_DRIVER", "jwt")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_PasetoKeyLength(t *testing.T) {
	t.Setenv("TOKEN_DRIVER", "paseto")
	t.Setenv("PASETO_KEY", "too short")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("PASETO_KEY", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, TokenDriverPaseto, cfg.Auth.TokenDriver)
}

func TestLoad_RejectsUnknownDrivers(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORE_DRIVER", "mongodb")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("TOKEN_DRIVER", "saml")

	_, err = Load()
	require.Error(t, err)
}

func TestLoad_DurationOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ACCESS_TOKEN_DURATION", "900")
	t.Setenv("REFRESH_TOKEN_DURATION", "3600")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, time.Hour, cfg.Auth.RefreshTokenDuration)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	t.Parallel()

	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     "5432",
		User:     "app",
		Password: "secret",
		DBName:   "authservice",
		SSLMode:  "require",
	}

	got := cfg.ConnectionString()
	assert.Equal(t, "host=db.example.com port=5432 user=app password=secret dbname=authservice sslmode=require", got)

	cfg.ChannelBinding = "require"
	assert.Contains(t, cfg.ConnectionString(), " channel_binding=require")
}

func TestRedisConfig_Address(t *testing.T) {
	t.Parallel()

	cfg := RedisConfig{Host: "cache.example.com", Port: "6380"}
	assert.Equal(t, "cache.example.com:6380", cfg.Address())
}
