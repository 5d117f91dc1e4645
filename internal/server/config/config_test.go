package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{envStripeSecretTest, envStripeSecretLive, envDatabaseDSN, envSecretKey} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, ":9090", c.EndpointAddrHTTP)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 30*24*time.Hour, c.SessionValidityDuration)
	assert.Equal(t, 3, c.DailyFreeUses)
	assert.Equal(t, int64(499), c.PriceAmount)
	assert.Equal(t, "usd", c.PriceCurrency)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Chdir(t.TempDir())
	clearEnv(t)

	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, 3, c.DailyFreeUses)
	assert.Empty(t, c.StripeSecretKeyTest)
}

func TestStripeSecretKey(t *testing.T) {
	c := Config{StripeSecretKeyTest: "sk_test", StripeSecretKeyLive: "sk_live"}

	assert.Equal(t, "sk_test", c.StripeSecretKey(false))
	assert.Equal(t, "sk_live", c.StripeSecretKey(true))
}
