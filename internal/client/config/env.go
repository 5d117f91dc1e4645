package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	envStripeKeyTest  = "STRIPE_PUBLISHABLE_KEY_TEST"
	envStripeKeyLive  = "STRIPE_PUBLISHABLE_KEY_LIVE"
	envIsLive         = "IS_LIVE_ENVIRONMENT"
	envStoreKeyApple  = "REVENUECAT_API_KEY_APPLE"
	envStoreKeyGoogle = "REVENUECAT_API_KEY_GOOGLE"
)

// parseEnv loads the given dotenv files into the process environment and
// overlays the recognised variables onto cfg. Missing files are ignored;
// variables already set in the environment win over file contents.
func parseEnv(cfg *Config, files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}

	if v, ok := os.LookupEnv(envStripeKeyTest); ok {
		cfg.StripePublishableKeyTest = v
	}
	if v, ok := os.LookupEnv(envStripeKeyLive); ok {
		cfg.StripePublishableKeyLive = v
	}
	if v, ok := os.LookupEnv(envStoreKeyApple); ok {
		cfg.StoreAPIKeyApple = v
	}
	if v, ok := os.LookupEnv(envStoreKeyGoogle); ok {
		cfg.StoreAPIKeyGoogle = v
	}
	if v, ok := os.LookupEnv(envIsLive); ok {
		live, err := strconv.ParseBool(v)
		if err == nil {
			cfg.IsLive = live
		}
	}
}
