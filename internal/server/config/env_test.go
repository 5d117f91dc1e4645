package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDotenv(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseEnv_ReadsDotenvFile(t *testing.T) {
	clearEnv(t)

	path := writeDotenv(t, "STRIPE_SECRET_KEY_TEST=sk_test_1\n"+
		"STRIPE_SECRET_KEY_LIVE=sk_live_1\n"+
		"DATABASE_DSN=postgres://localhost/distillr\n"+
		"SESSION_SECRET_KEY=s3cr3t\n")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, path)

	assert.Equal(t, "sk_test_1", cfg.StripeSecretKeyTest)
	assert.Equal(t, "sk_live_1", cfg.StripeSecretKeyLive)
	assert.Equal(t, "postgres://localhost/distillr", cfg.DatabaseDSN)
	assert.Equal(t, "s3cr3t", cfg.SecretKey)

	_, leaked := os.LookupEnv(envStripeSecretTest)
	assert.False(t, leaked, "dotenv values must not be exported to the process")
}

func TestParseEnv_ProcessEnvironmentWins(t *testing.T) {
	clearEnv(t)
	t.Setenv(envDatabaseDSN, "from_env")

	path := writeDotenv(t, "DATABASE_DSN=from_file\n")

	cfg := &Config{}
	parseEnv(cfg, path)

	assert.Equal(t, "from_env", cfg.DatabaseDSN)
}

func TestParseEnv_EmptySecretKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv(envSecretKey, "")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "secretKey", cfg.SecretKey)
}

func TestParseEnv_MissingFileIgnored(t *testing.T) {
	clearEnv(t)

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NotPanics(t, func() { parseEnv(cfg, filepath.Join(t.TempDir(), "absent.env")) })
	assert.Empty(t, cfg.DatabaseDSN)
}
