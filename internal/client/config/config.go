package config

import (
	"time"

	"github.com/dmitrijs2005/distillr/internal/common"
)

// Config holds runtime settings for the Distillr CLI.
//
// Units: StatusPollInterval and SuccessCloseDelay are time.Duration values.
type Config struct {
	ServerEndpointAddr string
	StatusPollInterval time.Duration
	SuccessCloseDelay  time.Duration
	Platform           common.Platform
	IsLive             bool
	DatabasePath       string

	StripePublishableKeyTest string
	StripePublishableKeyLive string
	StoreAPIKeyApple         string
	StoreAPIKeyGoogle        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.StatusPollInterval = time.Second
	c.SuccessCloseDelay = 3 * time.Second
	c.Platform = common.PlatformWeb
	c.IsLive = false
	c.DatabasePath = "distillr.db"
}

// StripePublishableKey returns the publishable key for the active environment.
func (c *Config) StripePublishableKey() string {
	if c.IsLive {
		return c.StripePublishableKeyLive
	}
	return c.StripePublishableKeyTest
}

// StoreAPIKey returns the store catalog key for a native platform, or "" on web.
func (c *Config) StoreAPIKey() string {
	switch c.Platform {
	case common.PlatformIOS:
		return c.StoreAPIKeyApple
	case common.PlatformAndroid:
		return c.StoreAPIKeyGoogle
	default:
		return ""
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (.env included), JSON (if present) and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, ".env")
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
