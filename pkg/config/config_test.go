package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"PORT", "ENV", "DATABASE_URL", "SQLITE_PATH", "REDIS_URL", "PREVIEW_TTL", "DEFAULT_FEE_RATE", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "tradebook.db", cfg.SQLitePath)
	assert.Equal(t, 30*time.Minute, cfg.PreviewTTL)
	assert.Equal(t, 0.0005, cfg.DefaultFeeRate)
	assert.Equal(t, 0.001, cfg.DefaultTaxRate)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
}

func TestLoad_FromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("PREVIEW_TTL", "5m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DEFAULT_FEE_RATE", "0.0015")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.PreviewTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 0.0015, cfg.DefaultFeeRate)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	// godotenv never overrides a variable that is already set, even if empty
	t.Setenv("PORT", "")
	require.NoError(t, os.Unsetenv("PORT"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=4100\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4100", cfg.Port)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port: "4000", Env: "development", SQLitePath: "x.db", MaxUploadBytes: 1,
			PreviewTTL: time.Minute, RateLimitRPS: 1, RateLimitBurst: 1,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no store", func(c *Config) { c.SQLitePath = "" }},
		{"sqlite in production", func(c *Config) { c.Env = "production" }},
		{"negative fee rate", func(c *Config) { c.DefaultFeeRate = -1 }},
		{"zero ttl", func(c *Config) { c.PreviewTTL = 0 }},
		{"zero upload size", func(c *Config) { c.MaxUploadBytes = 0 }},
		{"zero burst", func(c *Config) { c.RateLimitBurst = 0 }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadHeaderAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases:\n  \"Ngày khớp\": tradeDate\n  Ticker: symbol\n"), 0o600))

	aliases, err := LoadHeaderAliases(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Ngày khớp": "tradeDate", "Ticker": "symbol"}, aliases)
}

func TestLoadHeaderAliases_UnknownTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases:\n  Ticker: instrument\n"), 0o600))

	_, err := LoadHeaderAliases(path)
	assert.ErrorContains(t, err, `unknown canonical key "instrument"`)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
