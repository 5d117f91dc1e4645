// Package config handles configuration for the development backend,
// including defaults, .env secrets, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the Distillr development backend.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - EndpointAddrHTTP: bind address for /metrics and /healthz. Empty disables it.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps all state in memory.
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - SessionValidityDuration: lifetime of an anonymous session token.
//   - DailyFreeUses: distills a non-PRO device may run per UTC day.
//   - FetchTimeout: upper bound for downloading a page to distill.
//   - StripeSecretKeyTest / StripeSecretKeyLive: payment intent credentials.
//   - PriceAmount / PriceCurrency: PRO price in the currency's minor unit.
type Config struct {
	EndpointAddrGRPC        string
	EndpointAddrHTTP        string
	DatabaseDSN             string
	SecretKey               string
	SessionValidityDuration time.Duration
	DailyFreeUses           int
	FetchTimeout            time.Duration
	StripeSecretKeyTest     string
	StripeSecretKeyLive     string
	PriceAmount             int64
	PriceCurrency           string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key is insecure and must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":9090"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.SessionValidityDuration = 30 * 24 * time.Hour
	c.DailyFreeUses = 3
	c.FetchTimeout = 15 * time.Second
	c.PriceAmount = 499
	c.PriceCurrency = "usd"
}

// StripeSecretKey returns the key for the live or test environment.
func (c *Config) StripeSecretKey(isLive bool) string {
	if isLive {
		return c.StripeSecretKeyLive
	}
	return c.StripeSecretKeyTest
}

// LoadConfig builds a Config by applying defaults, then .env secrets, then
// an optional JSON file and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, ".env")
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
