package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	envStripeSecretTest = "STRIPE_SECRET_KEY_TEST"
	envStripeSecretLive = "STRIPE_SECRET_KEY_LIVE"
	envDatabaseDSN      = "DATABASE_DSN"
	envSecretKey        = "SESSION_SECRET_KEY"
)

// parseEnv overlays secrets from the process environment and, for variables
// not set there, from the given dotenv files. Unreadable files are skipped.
func parseEnv(cfg *Config, files ...string) {
	fromFiles := map[string]string{}
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if err != nil {
			continue
		}
		for k, v := range vals {
			if _, seen := fromFiles[k]; !seen {
				fromFiles[k] = v
			}
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fromFiles[key]
		return v, ok
	}

	if v, ok := lookup(envStripeSecretTest); ok {
		cfg.StripeSecretKeyTest = v
	}
	if v, ok := lookup(envStripeSecretLive); ok {
		cfg.StripeSecretKeyLive = v
	}
	if v, ok := lookup(envDatabaseDSN); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := lookup(envSecretKey); ok && v != "" {
		cfg.SecretKey = v
	}
}
