package internal_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/contract-portal/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() internal.Config {
	return internal.Config{
		Env: "development",
		Server: internal.ServerConfig{
			Port:              8080,
			AllowedOrigins:    "http://localhost:3000, *",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: internal.DatabaseConfig{
			Source:       "postgres://localhost/contract_portal",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Security: internal.SecurityConfig{
			AccessTokenSecret:    "access-secret-0123456789abcdef0123",
			RefreshTokenSecret:   "refresh-secret-0123456789abcdef012",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 24 * time.Hour,
			BCryptCost:           12,
		},
		Observability: internal.ObservabilityConfig{
			Logging: internal.LoggingConfig{Level: "info", Format: "json"},
		},
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	cases := map[string]struct {
		mutate func(*internal.Config)
		want   string
	}{
		"bad port":          {func(c *internal.Config) { c.Server.Port = 0 }, "invalid port"},
		"missing source":    {func(c *internal.Config) { c.Database.Source = "" }, "source is required"},
		"idle above open":   {func(c *internal.Config) { c.Database.MaxIdleConns = 50 }, "max_idle_conns"},
		"short secret":      {func(c *internal.Config) { c.Security.AccessTokenSecret = "short" }, "at least 32"},
		"same secrets":      {func(c *internal.Config) { c.Security.RefreshTokenSecret = c.Security.AccessTokenSecret }, "must differ"},
		"refresh too short": {func(c *internal.Config) { c.Security.RefreshTokenDuration = time.Minute }, "refresh_token_duration"},
		"bcrypt cost":       {func(c *internal.Config) { c.Security.BCryptCost = 4 }, "bcrypt_cost"},
		"log level":         {func(c *internal.Config) { c.Observability.Logging.Level = "trace" }, "unsupported level"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://db/portal")
	t.Setenv("JWT_ACCESS_TTL", "10m")
	t.Setenv("HTTP_VALIDATE_REQUESTS", "false")

	cfg := internal.LoadConfigFromEnv()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://db/portal", cfg.Database.Source)
	assert.Equal(t, 10*time.Minute, cfg.Security.AccessTokenDuration)
	assert.False(t, cfg.Server.ValidateRequests)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}
