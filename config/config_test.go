package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "devconnect")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "devconnect")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 10, cfg.DB.MaxSize)
	assert.Equal(t, 100*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadConfigOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_POOL_SIZE", "20")
	t.Setenv("JWT_TOKEN_DURATION", "15m")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, 20, cfg.DB.MaxSize)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenDuration)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadConfigCollectsAllErrors(t *testing.T) {
	// Two independent parse failures must both be reported in one error.
	setBaseEnv(t)
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("JWT_TOKEN_DURATION", "not-a-duration")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PORT")
	assert.Contains(t, err.Error(), "JWT_TOKEN_DURATION")
}

func TestPoolSizeClamping(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  int
		errs  int
	}{
		{"empty uses minimum", "", 5, 0},
		{"below minimum", "2", 5, 1},
		{"above maximum", "500", 100, 1},
		{"in range", "42", 42, 0},
		{"garbage", "lots", 5, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var errs []string
			got := parseAndValidatePoolSize(tc.value, "DB_POOL_SIZE", &errs)
			assert.Equal(t, tc.want, got)
			assert.Len(t, errs, tc.errs)
		})
	}
}
